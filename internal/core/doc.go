// Package core provides the domain contracts shared by every reference
// entity type: the generic repository interface, audit stamping, the
// case-insensitive natural-key index, and the bulk import reconciler.
//
// This package has no knowledge of any concrete entity. It can be used by
// web handlers, CLI tools, or tests without modification.
//
// # Architecture
//
//   - Entities: pointer types implementing [Entity], embedding [Audit].
//   - Repositories: [Repository] implementations live in internal/store.
//   - Catalog: [Catalog] performs create/update/delete with uniqueness
//     checks and audit stamps.
//   - Reconciler: [Reconciler] upserts loosely typed rows by natural key.
//   - Registry: [Registry] exposes type-erased [EntityDefinition] values so
//     the transport layer can route every entity uniformly.
//
// # Bulk Import
//
// An import loads every active record of the target type plus the lookup
// tables it needs, indexes them by folded natural key, then walks the rows:
//
//  1. The row decoder resolves foreign codes and yields a [Candidate]
//  2. Blank identity keys and decoder errors are counted as skipped
//  3. A matching record receives a non-destructive merge and is updated
//  4. Otherwise a new record is added and indexed for later rows
//
// Rows persist one at a time. A storage failure stops the run and returns
// the partial [ImportResult].
//
// # Error Handling
//
// [ErrNotFound], [ErrConflict] and [ErrValidation] are matched with
// errors.Is at the transport boundary. Unexpected errors are mapped to
// user-facing messages with support codes by [MapError].
package core
