// Package interactive is the terminal front of the bluetooth manager.
//
// Two front ends share the same console:
//   - Shell, a full screen bubbletea program with scrollback, completion
//     on tab and command history on the arrow keys
//   - Plain, a line reader for pipes, scripts and dumb terminals
//
// Notifications and log lines arrive from other goroutines. The shell
// keeps them in a logbuf scrollback and only repaints from its own loop.
package interactive
