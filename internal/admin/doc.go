// Package admin owns the soundcloud admin page state and every transition it goes through.
//
// The page is modelled the bubbletea way: a [State] value, messages describing what happened, and
// [Controller.Update] returning the next state plus an optional [tea.Cmd] for any I/O. Commands are the only
// place the backend or the token store is touched.
//
// Two shells drive the same controller:
//   - the TUI in internal/ui hands commands to the bubbletea runtime, where responses arrive in whatever order
//     the network returns them and the last one wins
//   - the CLI calls [Controller.Drive], which runs a message and every command it spawns to completion
//
// Mutations are never gated locally. A rejected delete or add shows a fixed banner and the list is re-fetched.
package admin
