// Package selection tracks which recipes are selected for a shopping list and keeps every view of that
// selection consistent across page loads.
//
// # Components
//
//   - [Set] : the selected recipe ids, unique and unordered
//   - [Store] : the single owner of a [Set]; every mutation goes through it
//   - [Adapter] : loads and saves the set as a JSON array under [StorageKey] in session-scoped [Storage]
//   - [Synchronizer] : renders the store onto a [View] (card highlights, row checkboxes, shopping bar)
//   - [Dispatcher] : user-facing entry points; mutates the store, saves, then syncs
//
// # Selection mode
//
// The store is [Idle] while empty and [Selecting] otherwise. While selecting, activating a recipe card
// toggles it instead of navigating to the recipe. The mode is derived from the set's size and is never
// stored.
//
// # Concurrency
//
// None of the types here are safe for concurrent use. They are driven from a single event loop (the
// bubbletea Update function or one CLI command) and every call runs to completion before the next.
package selection
