// Package client talks to a SimpleLink HTTP server over the network.
//
// It works the same against a device and against slhttpd-sim: pages are
// fetched with GET, and POST tokens are set by submitting a form whose field
// names are the token names (__SL_P_Uxx), which is how pages served by the
// device submit them.
//
// Requests that fail at the network level or with a 5xx status are retried
// with exponential backoff.
//
//	c := client.New("http://192.168.1.20")
//	err := c.PostTokens(ctx, "/", map[string]string{"LD": "on"})
package client
