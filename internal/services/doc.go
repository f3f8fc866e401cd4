// Package services implements the HTTP contract of the recipe web application.
//
// # Client
//
// [Client] authenticates with the session cookie of a logged-in browser and paces every request through a
// token bucket limiter. Read endpoints return models; page endpoints return a goquery-backed [dom.Page].
//
// # Anti-forgery token
//
// Mutating endpoints need the token the server embeds in its pages. [Client.CSRFToken] returns the
// configured override, else the token seen on the last fetched page, else fetches the index page to find
// one.
//
// # Endpoints
//
//   - GET  /api/recipes, /api/recipe/{id}            : JSON recipes
//   - GET  /?page=&category=&search=, /all-recipes   : HTML pages
//   - POST /settings/category/{add,edit/{id},delete/{id}} : form body, csrf_token field
//   - POST /recipe/{id}/{favorite,cooked}             : X-CSRFToken header
//   - POST /recipe/{id}/rate                          : JSON body, X-CSRFToken header
//   - POST /shopping-list                             : navigating form submission
//
// # Error Handling
//
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrUnexpectedResponse] : body is not the expected JSON or HTML
//   - [shared.ErrNotAuthenticated] : the request was redirected to the login page
//   - [shared.ErrRecipeNotFound] : the recipe id does not exist
//   - [shared.ErrMissingToken] : no anti-forgery token could be found
package services
