// 10 Oct 2026

/*
Batchmut makes mutated alignments for a whole table of mutations.

Usage:
	batchmut [flags] msa_dir mutations.csv

The csv file needs a header line with columns sequence_id and mutation
(uniprot and mut also work). Other columns, like ddg, are ignored. Lines
starting with # are comments.
Each file in msa_dir is the wild type alignment for the id given by its
name without extension, so P1.a3m, P1.msa and P1.a3m.gz all belong to P1.
For every mutation of id, say A23T, the file id_A23T is written with the
same extension.
A mutation which does not fit the query is reported and skipped, the
others carry on. Files with no mutations are skipped.

At the end, a line says how many mutations were applied, how many files
skipped and how many requests failed. The exit status is non-zero if any
failed.

The flags are:
	-a "program args"
		Make wild type alignments for ids that do not have one. The program
		reads the sequence in fasta format on stdin and writes a3m on
		stdout. Needs -s or -u.
	-f format
		a3m (default) or fasta
	-j n
		work on n files at once. Default is the number of cpus.
	-n
		dry run. Read and check everything, write nothing.
	-o dir
		output directory. Default is msa_dir.
	-s file.fasta
		wild type sequences for -a
	-u
		fetch wild type sequences from uniprot for -a
	-v n
		verbosity. 1 lists every outcome, 2 also logs the census of each
		mutated column.
*/
package main
