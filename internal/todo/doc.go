// Package todo owns the task sequence and its round-trip through a
// durable key-value slot.
//
// The snapshot stored in the slot is a JSON array in insertion order:
//
//	[
//	  {"id": 1718000000000, "text": "Buy milk", "completed": false},
//	  {"id": 1718000000001, "text": "Walk dog", "completed": true}
//	]
//
// There is no schema version field. On load the snapshot is checked against
// an embedded JSON Schema and against the store invariants (unique ids,
// non-blank text). Anything that fails is discarded and the store starts
// empty; a corrupt snapshot is never fatal.
//
// # Ids
//
// Ids are millisecond timestamps. When two tasks are created within the
// same millisecond, or the clock moves backwards, the generator hands out
// last+1 instead, so ids stay unique and increasing in creation order.
//
// # Errors
//
//   - ValidationError: empty or whitespace-only text (wraps ErrEmptyText)
//   - NotFoundError: an operation referenced an id that is not in the store
//   - StorageError: reading or writing the slot failed
package todo
