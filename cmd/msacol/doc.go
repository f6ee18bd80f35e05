// 11 Oct 2026

/*
Msacol prints the symbols found in the alignment column which holds a
query position. It is for checking a mutation before making it.

Usage:
	msacol [-f format] infile position...

Positions count match states of the query from 1, as in mutations.
Symbols are counted without regard to case. For each position you get
the column, the count and fraction of each symbol, the number of gaps and
the number of sequences which stop before the column.
Give "-" as infile to read stdin.
*/
package main
