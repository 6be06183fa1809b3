// Package client talks to the payment OCR backend.
//
// # Overview
//
// The package provides:
//  1. The Client interface: one method per backend operation (auth,
//     payments, sports) plus the URL of a stored screenshot.
//  2. HTTPClient, the JSON-over-HTTP implementation. It attaches the bearer
//     token from the session store, persists the session after login and
//     registration, and turns non-success responses into *APIError.
//  3. Local database bootstrap (InitDatabase, RunMigrations) for the SQLite
//     file the session lives in.
//
// # Error Handling
//
// Every failure carries a user-facing message: the server's "detail" when it
// sent one, otherwise a fixed per-operation text. Conditions are matched with
// errors.Is: ErrUnauthorized, ErrNotFound, ErrSessionExpired, ErrUnavailable.
//
// There are no retries. Each call makes exactly one attempt and honours the
// context and the configured request timeout.
package client
