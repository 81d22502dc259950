// Package core provides the business logic for calendar bulk imports.
//
// This package is the heart of the importer, containing all domain logic
// independent of any transport or database. It can be used by web handlers,
// CLI tools, or tests without modification.
//
// # Pipeline
//
// Every import, for materials or events, runs the same stages:
//
//  1. [ParseTable] turns CSV text into header-keyed rows
//  2. [MissingHeaders] rejects the request if a required column is absent
//  3. [RowValidator] checks and normalizes each row, collecting all errors
//  4. Valid rows are checked against the [Store] by natural key, concurrently
//  5. Preview returns the classification; commit writes rows and one [ImportBatch]
//
// Natural keys are (school, grade_level, link) for materials and
// (school, date, title) for events.
//
// # Duplicates
//
// A material whose natural key already exists is excluded from the import.
// An event whose natural key already exists stays valid, flagged
// isDuplicate, and the commit's [DuplicateAction] decides whether it is
// skipped, replaces the existing event, or is inserted next to it.
//
// # Commit Semantics
//
// Commits are best-effort, not transactional. Each row is written with its
// own statement; a failed write is reported against its row and the rest
// continue. The batch record carries the truthful counts afterwards, and
// [Service.UndoMaterialsBatch] / [Service.UndoEventsBatch] are the recovery
// path: they delete everything tagged with the batch id, for batches created
// inside the undo window (7 days by default).
package core
