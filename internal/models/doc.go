// Package models defines the data transfer objects exchanged with the recipe application.
//
//   - [Recipe] : a recipe with its [Ingredient] and [Step] lists, as served by /api/recipes
//   - [Category] : a recipe family managed from the settings modal
//   - [ActionResult] : the {"success", "message"} envelope answered by every mutating endpoint
//
// The selection state itself lives in package selection; models only carries what the server sends.
package models
