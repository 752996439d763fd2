// Package task defines the task record stored by docket and its persisted
// JSON form.
//
// A Task carries an opaque id, the user's text, a completion flag, the
// creation time, and a priority. Ids come from google/uuid and never change
// for the life of the task.
//
// # Persisted Form
//
// The collection is stored as one JSON array in canonical order:
//
//	[{"id":"…","text":"Buy milk","completed":false,
//	  "createdAt":"2026-01-02T15:04:05Z","priority":"medium"}]
//
// Decode accepts JSON with comments and trailing commas (via tidwall/jsonc)
// so the slot file can be edited by hand. Callers treat a Decode error as an
// empty collection.
package task
