// Package bib holds the in-memory model of one .bib file: a Database of
// top-level nodes in source order.
//
// Node is a closed variant selected by NodeKind. Every consumer switches on
// Kind exhaustively; adding a kind means touching each switch, which is the
// point. Only NodeEntry carries structure; all other kinds keep their source
// text verbatim so that an untouched database renders back byte-for-byte.
//
// A Database is built per request and never shared: stages that change it
// (dedupe, order, align) work on a Clone.
package bib
