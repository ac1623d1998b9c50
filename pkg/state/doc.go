// Package state persists form drafts: the verbose input, initial and
// touched values of a form tree, keyed by form and owner.
//
// Responsibilities:
//   - Store only loads, saves and deletes one Draft for one Ref.
//   - Keeper captures a draft from a live node and restores it onto one,
//     enforcing optimistic concurrency through Meta.ETag.
//   - The forms package stays persistence-agnostic; storage details live
//     behind Store implementations (MemoryStore, FileStore or your own).
//
// Data flow:
//
//	forms.Node -> Keeper.Capture -> Store.Save
//	Store.Load -> Keeper.Restore -> forms.Node setters
//
// Deterministic keys:
//
//	Ref.Identifier() returns `form/owner` (or `form` without an owner) and is
//	the storage key used by the bundled stores.
package state
