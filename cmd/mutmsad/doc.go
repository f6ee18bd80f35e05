// 12 Oct 2026

/*
Mutmsad serves mutations over http.

	POST /mutate/A23T?id=P12345
		body is an a3m alignment, maybe gzipped. The reply is the mutated
		alignment. Headers X-Mutmsa-Column and X-Mutmsa-Changed say where
		the change went and how many sequences got it.
	POST /column/23
		body is an alignment. The reply is json with the symbol counts in
		the column under query position 23.
	GET /health

Errors come back as json {"kind": ..., "error": ...}. A broken mutation or
alignment gives 400, a mutation which does not fit the query gives 422.

Environment:
	MUTMSA_HTTP_ADDR   listen address, default 127.0.0.1:8080
	MUTMSA_MAX_BODY    largest request body in bytes, default 64 MB
*/
package main
