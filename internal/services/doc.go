// Package services implements the HTTP client for the willette backend.
//
// # Request Primitive
//
// Every call goes through [APIService.Request], which returns an [APIResponse] envelope
// (status, headers, raw body, parsed JSON body). Calls with a body and calls without one parse
// responses differently:
//
//   - with a body: only 200/201 responses are parsed, and invalid JSON is logged and dropped
//   - without a body: the request is a GET and invalid JSON is returned as [shared.ErrParse]
//
// # Typed Operations
//
//   - [APIService.ListURLs] : GET /get-soundcloud-urls
//   - [APIService.Login] : POST /login
//   - [APIService.DeleteURL] : DELETE /delete-soundcloud-url (token)
//   - [APIService.AddURL] : PUT /add-soundcloud-url (token)
//   - [APIService.UpdateURLs] : PUT /update-soundcloud-urls (token)
//   - [APIService.KeyOfDay] : GET /keyOfDay
//
// The token is read from the [TokenSource] given at construction on every mutating call. The client never
// refuses a call for lack of a token; the backend decides, and non-200/201 statuses come back as ordinary responses.
//
// # Error Handling
//
//   - [shared.ErrTransport] : network, DNS, timeout, cancelled context
//   - [shared.ErrParse] : body-less call answered with something other than JSON
//   - [shared.ErrInvalidInput] : request body could not be encoded
package services
