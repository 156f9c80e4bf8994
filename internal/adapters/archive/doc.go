// Package archive reads and writes scene archives (zip containers such as .fvttadv)
//
// Reader exposes entries in central directory order. Writer either raw-copies an entry
// (compressed bytes and header untouched) or replaces its body under the original header.
// Files are accessed through go-billy so tests run against memfs; Create writes to a
// hidden sibling and only renames it over the destination on Commit
package archive
