// Package cli provides the interactive storefront admin console.
//
// It talks to the store directly (no HTTP) and covers the chores the API
// cannot do for itself:
//   - create-admin: create an account holding ADMIN, USER and PERMISSIONUPDATE
//   - grant: replace the permission set of an account, looked up by email
//   - users: list accounts with their permissions
//
// The REPL is started via App.Root, which blocks until the user exits.
package cli
