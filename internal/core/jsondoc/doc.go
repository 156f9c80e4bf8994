// Package jsondoc is a tagged JSON value for documents of unknown schema.
//
// Decoding keeps object members in source order and number literals as written, so a
// value that is decoded and re-encoded without edits only loses insignificant whitespace.
package jsondoc
