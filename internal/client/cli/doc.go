// Package cli provides the interactive payscan command-line client.
//
// It wires configuration, the local session database, the backend client and
// the screen controllers (sign-in, dashboard, upload) behind a REPL. Typical
// flow: sign in or register, look at the payments table, narrow it down with
// sport/status/search filters, upload new screenshots and inspect what was
// extracted.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command list.
package cli
