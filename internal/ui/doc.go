// Package ui implements the terminal interface.
//
// The model renders recipe cards nine per page, or every recipe as table rows, and acts as a selection.View:
// the same synchronizer that marks cards on a rendered page marks list items here. Network calls run in
// commands and report back through messages; selection state and optimistic favorite and rating changes are
// only touched in Update.
//
// Views:
//   - ListView: cards or table rows, shopping bar and notifications
//   - SearchView: title search input over the list
//   - DetailView: one recipe with ingredients and steps
package ui
