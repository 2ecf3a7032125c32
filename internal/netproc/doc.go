// Package netproc emulates the HTTP side of a SimpleLink network processor
// on a development machine.
//
// Processor implements firmware.Driver. While started it serves pages from a
// directory the way the processor serves its user file system: HTML pages
// have their "__SL_G_Uxx" tokens replaced by the values the registered event
// handler returns, and submitted form fields named "__SL_P_Uxx" are raised
// as POST token events. With ROM pages enabled, a built-in status page is
// served for "/" when the page directory has none.
//
// When mDNS is enabled the processor advertises itself as an "_http._tcp"
// service under its hostname. With the monitor enabled, every token event is
// streamed as JSON to websocket clients at MonitorPath.
package netproc
