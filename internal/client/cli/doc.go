// Package cli provides the interactive manga reader command-line client.
//
// It wires configuration, the local session database, the REST services and
// an interactive REPL. The saved session is restored on start, so a user
// who logged in before is still logged in; the prompt shows the current
// username and role and follows session changes.
//
// Key features:
//   - Browse the catalog: list, new, trending, search, show
//   - Live search with debouncing (find)
//   - Chapter lists and page reading with previous/next hints
//   - Register / Login / Logout / change password
//   - Admin: user roles and activation, title publishing, bulk chapter
//     import from a ZIP file, a directory or S3
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
