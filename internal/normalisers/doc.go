// Package normalisers provides implementations of the Normaliser interface
// for the supported file formats. Each normaliser knows how to extract text
// content from exactly one domain.Format.
//
// The Registry dispatches by file extension over a closed set of formats.
// Unknown extensions fall back to the plain text normaliser. Add a format by
// adding a domain.Format value, a normaliser package, and a line in
// RegisterDefaults.
package normalisers
