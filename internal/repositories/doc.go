// Package repositories implements session-scoped storage on SQLite.
//
// The web app keeps the recipe selection in the browser's per-tab session storage. Here a session is a row
// in the sessions table, identified by a name from the config file or the --session flag, and its items
// live in session_storage until the session is ended or expires.
//
// Key Implementations:
//   - [SessionStorage] : key/value items of one session, backed by SQLite
//   - [SessionRepository] : session lifecycle (list, end, purge expired)
//   - [MemoryStorage] : process-local storage for `sweetlist tui --ephemeral`
package repositories
