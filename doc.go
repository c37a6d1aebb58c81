// Package bigbed reads the BigBed genomic interval format: a fixed
// header, a chromosome B+ tree, an R-tree block index, and
// deflate-compressed interval records. It exposes a pull-based
// Cursor over decoded Records and does not support random-access
// range queries, writing new files, or zoom-level summaries.
package bigbed
