// Package client contains the HTTP client for the authdash auth API.
//
// # Overview
//
// The package provides a transport-agnostic contract (Client) and a JSON
// over HTTP implementation (HTTPClient). HTTPClient:
//
//   - resolves endpoints against a configurable base URL;
//   - sends Content-Type: application/json and ngrok-skip-browser-warning;
//   - attaches "Authorization: Bearer <token>" read from a storage.Store on
//     every call except login;
//   - on 401/403 clears the session from the store, fires the optional
//     UnauthorizedHook and returns an error matching ErrUnauthorized, so the
//     caller can send the user to /login.
//
// There is no retry and no backoff.
//
// # Error Handling
//
// Callers match with errors.Is: ErrUnauthorized, ErrUnavailable (network
// failure, timeout, 502/503/504). Any other non-2xx is an *APIError; use
// Message to get the server supplied text.
package client
