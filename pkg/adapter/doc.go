// Package adapter binds an authentication framework's persistence lifecycle
// (users, provider accounts, sessions, verification tokens) to a relational
// store reached through a sqlexec.Executor.
//
// # Overview
//
// The adapter exposes the fixed set of operations an authentication
// framework requires of its persistence layer, each a short sequence of at
// most two parameterized statements. It holds no state between calls: every read goes
// back to storage, every update re-fetches the row it wrote, because the
// query protocol's write acknowledgment carries only an affected-row count
// and a generated insert id, never column data.
//
// # Records
//
// Inputs and outputs are flat map[string]any records rather than structs.
// This is deliberate. Writes run through pkg/fieldmap, so camelCase field
// names ("sessionToken") become snake_case columns ("session_token"). Reads
// return rows exactly as the executor produced them, storage column names
// included — there is no inverse mapper. Callers therefore see "user_id" and
// "session_token" on read paths and must not rely on camelCase keys there.
// A struct-based API would have forced the inverse mapping this system has
// never had, silently changing what downstream consumers observe.
//
// # Basic usage
//
//	import (
//		"github.com/tendant/authstore/pkg/adapter"
//		"github.com/tendant/authstore/pkg/sqlexec"
//	)
//
//	exec := sqlexec.NewClient(endpoint, username, password)
//	store := adapter.New(exec)
//
//	user, err := store.CreateUser(ctx, adapter.Record{
//		"name":  "Alice",
//		"email": "alice@example.com",
//	})
//	// user["id"] is the storage-generated identifier, always a string.
//
// # Not-found and errors
//
// Absence of a row is signaled by a nil record (or nil *SessionAndUser),
// never by an error. Errors are reserved for infrastructure failures and are
// propagated from the executor without wrapping, retry, or classification;
// callers that need either must add it around the executor.
//
// # No transactions
//
// Two-step operations (UseVerificationToken's select-then-delete, the
// update-then-refetch pairs, GetSessionAndUser's two lookups) run as
// independent statements. A failure between steps leaves the first step's
// effect in place; there is no compensating action.
package adapter
