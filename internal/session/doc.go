// Package session persists the admin bearer token between runs.
//
// A [Store] holds exactly one value under [TokenKey]. Reads never fail: a missing key or a storage error
// both read as the empty string, which callers treat as "unauthenticated".
//
// [SQLiteStore] keeps the value in the key/value table created by the shared migrations;
// [MemoryStore] lives only as long as the process and backs tests and --ephemeral runs.
package session
