// 9 Oct 2026

/*
Mutmsa puts a single point mutation into a multiple sequence alignment.

Usage:
	mutmsa [flags] mutation [infile [outfile]]

The mutation is written A23T. The 23 counts match states (upper case
letters) of the first sequence, the query, starting from 1. Insertions
(lower case) and gaps do not count. The query must have an A there, or
nothing is written.
Every sequence then gets a T in that column. Letters that were lower case
stay lower case. Gaps stay gaps and sequences too short to reach the
column are left alone. The query header becomes id_A23T.

Given no input file name, or "-", read from standard input. Likewise the
output. Input may be gzipped.

The flags are:
	-c
		check the mutation against the query and stop
	-f format
		a3m (default) or fasta
	-i id
		id for the new query header. By default the first word of the old
		header, up to any underscore.
	-v n
		verbosity. Above 0, say how many sequences changed.
*/
package main
