// Package typegen generates a statically-typed Go client from a content-model
// schema: a declarations package mirroring the record and component types, a
// typed HTTP access layer, and a single re-export entry point. The generated
// texts are validated by an in-memory type check before anything is written.
//
// The generator core lives in compiler/gen and consumes snapshots defined in
// compiler/load; the typegen command wires them to schema files on disk.
package typegen
