// Package api provides assertion adapters for HTTP responses.
//
// Response is the observed view of an HTTP exchange. Checks cover status
// codes, headers, body content, JSONPath queries (gjson syntax with
// bracket-notation support), structural shape checks, and full JSON
// Schema validation for callers that need more than the minimal
// structural walk.
//
// Failure context carries the status code and a truncated body snippet.
package api
