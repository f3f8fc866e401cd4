// Package dom wraps a page rendered by the recipe application in a goquery document.
//
// A [Page] is the server-rendered counterpart of the terminal UI: it implements selection.View so the same
// synchronizer marks recipe cards and table rows, and it looks up the anti-forgery token the server embeds
// in its forms.
//
// Bindings:
//   - cards: `.recipe-card[data-recipe-id]`, class `selected` while selected
//   - rows: `tr[data-recipe-id]` holding an `input.recipe-checkbox`, attribute `checked` while selected
//   - shopping bar: `#shopping-bar`, class `d-none` while hidden, count in `#selected-count`
package dom
