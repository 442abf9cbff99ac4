// Package cli provides the authdash terminal client.
//
// It wires the shared auth service to an on-disk cookie store so a session
// started with "authdash login" survives between invocations, exactly as a
// browser keeps its cookies.
//
// Commands:
//   - login    prompt for email and password, persist the session
//   - logout   drop every session value
//   - register create an account, signing in when the API returns a token
//   - status   print the resolved auth state (optionally refreshing the profile)
//
// The root command is built with NewRootCommand; the App it runs against is
// created lazily by an AppFactory once flags are parsed.
package cli
