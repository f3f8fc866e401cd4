// Package tasks runs the recipe application's peripheral flows and turns their outcomes into notifications.
//
// # Actions
//
// [Actions] wraps the mutating endpoints:
//
//  1. Category management: [Actions.AddCategory], [Actions.EditCategory], [Actions.DeleteCategory]
//     - success: success notification with the server message, then the category list is reloaded
//     - success=false: warning (add, edit) or danger (delete) notification with the server message
//     - network failure: logged, danger notification with a fixed message
//
//  2. Recipe toggles: [Actions.ToggleFavorite], [Actions.Rate], [Actions.MarkCooked]
//     - the caller applies its optimistic change first and reverts it when [Outcome.OK] is false
//     - rating without an anti-forgery token is logged and nothing is sent
//
// # Recipe Fetching
//
// [Fetcher.FetchRecipes] retrieves many recipes with a bounded worker pool, reporting progress on an optional
// channel. Sends never block: a full channel drops the update.
package tasks
