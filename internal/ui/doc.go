// Package ui renders slhttpd-sim command output with Lipgloss.
//
// Output is one-shot: a header naming the command and its parameters,
// followed by tables (tokens, discovered devices) and a success or failure
// line.
//
// The mDNS scan is the one interactive step: on a terminal it runs under a
// Bubble Tea program showing a spinner and the elapsed share of the scan
// timeout until the scan returns.
package ui
