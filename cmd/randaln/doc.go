// 31 July 2020

/*
Randaln makes random a3m alignments for testing and benchmarking.
Usage:
	randaln [options] fname nseq length
will write nseq sequences with length match columns to fname ("-" for
standard output). The first one is the query.

Flags:
	-c comment
		comment for the header lines
	-e
		provoke errors. Some sequences are cut short.
	-g prob
		probability of a gap in a match column
	-i prob
		probability of an insertion before a match column
	-q
		allow gaps and insertions in the query. Normally it is all match states.
	-r
		random number seed

The content is not important, only the mixture of match states, insertions
and gaps.
*/
package main
