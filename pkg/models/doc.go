// Package models contains the records exchanged with the placement API.
//
// Raw types mirror the wire format: foreign keys are plain ids and nothing is resolved.
// Enriched types are produced by the stores by joining raw records through lookup maps;
// they embed the raw record by value and carry the resolved references as pointers,
// which are nil when the referenced record is not loaded.
package models
