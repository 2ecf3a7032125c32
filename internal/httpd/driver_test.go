package httpd

import "github.com/muurk/slhttpd/internal/firmware"

// fakeDriver records calls and returns canned statuses.
type fakeDriver struct {
	running  bool
	port     uint16
	hostname string
	romPages bool
	mdns     bool
	handler  firmware.EventHandler

	startErr error
	setErr   error
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{port: firmware.DefaultPort, hostname: "cc3100"}
}

func (d *fakeDriver) StartHTTPServer() error {
	if d.startErr != nil {
		return d.startErr
	}
	d.running = true
	return nil
}

func (d *fakeDriver) StopHTTPServer() error {
	d.running = false
	return nil
}

func (d *fakeDriver) Port() (uint16, error) { return d.port, nil }

func (d *fakeDriver) SetPort(p uint16) error {
	if d.setErr != nil {
		return d.setErr
	}
	d.port = p
	return nil
}

func (d *fakeDriver) Hostname() (string, error) { return d.hostname, nil }

func (d *fakeDriver) SetHostname(name string) error {
	if d.setErr != nil {
		return d.setErr
	}
	d.hostname = name
	return nil
}

func (d *fakeDriver) SetROMPages(enabled bool) error {
	if d.setErr != nil {
		return d.setErr
	}
	d.romPages = enabled
	return nil
}

func (d *fakeDriver) SetMDNS(enabled bool) error {
	if d.setErr != nil {
		return d.setErr
	}
	d.mdns = enabled
	return nil
}

func (d *fakeDriver) SetEventHandler(h firmware.EventHandler) { d.handler = h }

// get raises a GET token event through the installed handler.
func (d *fakeDriver) get(id string) *firmware.Response {
	resp := &firmware.Response{}
	d.handler.HandleEvent(&firmware.Event{
		Kind:      firmware.EventGetToken,
		TokenName: []byte("__SL_G_U" + id),
	}, resp)
	return resp
}

// post raises a POST token event through the installed handler.
func (d *fakeDriver) post(id string, value []byte) {
	d.handler.HandleEvent(&firmware.Event{
		Kind:       firmware.EventPostToken,
		TokenName:  []byte("__SL_P_U" + id),
		TokenValue: value,
	}, &firmware.Response{})
}
