// Package httpd exposes the SimpleLink network processor's on-chip HTTP
// server to application code.
//
// The processor serves pages by itself. What it cannot do alone is fill in
// dynamic values: when it meets a user token in a page ("__SL_G_Uxx") or in a
// submitted form ("__SL_P_Uxx") it raises an event, and Server routes that
// event to the callback the application registered for the two-byte id.
//
// # Usage
//
//	srv := httpd.New(driver)
//	defer srv.Close()
//
//	err := srv.RegisterGetToken("TM", httpd.GetString(func() string {
//	    return time.Now().Format(time.Kitchen)
//	}))
//
//	err = srv.RegisterPostToken("LD", httpd.PostHandlerFunc(func(id token.ID, v []byte) {
//	    led.Set(string(v) == "on")
//	}))
//
//	if err := srv.Begin(); err != nil {
//	    return err
//	}
//
// # Status codes
//
// Every method returns a Go error. Status converts one to the integer
// convention of the firmware API: 0 for success, a negative errno-style code
// for registry errors, and the processor's own code for firmware errors.
//
// # Concurrency
//
// Registration, statistics and dispatch may be called from different
// goroutines. Callbacks are never invoked with an internal lock held, so a
// callback may itself register or deregister tokens.
package httpd
