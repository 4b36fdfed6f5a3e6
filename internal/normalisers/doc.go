// Package normalisers provides implementations of the Normaliser interface.
// A normaliser turns a complete FieldMap into a typed NormalizedRecord,
// resolving placeholder tokens to null and parsing numeric fields.
//
// The f5 normaliser covers both flat-text and structured F5 records.
package normalisers
