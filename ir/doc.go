// Package ir provides the generic tree representation for query documents.
//
// A query document is an arbitrarily nested structure of sequences, mappings,
// and scalars. Clauses are sequences whose first element is a tag. The Node
// interface is sealed: only the types in this package implement it, which
// keeps type switches over tree shapes exhaustive.
//
// All other packages in this module import ir; ir imports nothing internal.
// Every operation on trees produces a new value; nothing mutates in place.
package ir
