// Package firmware describes the SimpleLink network processor as seen from
// the application: the HTTP server event and response structures, the
// status-code convention, and the Driver interface through which server
// settings are changed.
//
// Nothing here talks to hardware. A real target implements Driver on top of
// the vendor host driver; internal/netproc implements it on a development
// machine.
//
// # Events
//
// The processor raises one Event per token it meets while serving a page:
//
//	Kind            TokenName        TokenValue
//	EventGetToken   "__SL_G_UAB"     (empty)
//	EventPostToken  "__SL_P_UXY"     posted form value
//
// For GET events the handler fills in a Response whose Value replaces the
// token in the served page. A Response left at ResponseNone tells the
// processor no handler claimed the token.
package firmware
