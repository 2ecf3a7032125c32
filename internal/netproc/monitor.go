package netproc

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/slhttpd/internal/firmware"
	"github.com/muurk/slhttpd/internal/logging"
)

const (
	// Time allowed to write a message to a client
	writeWait = 5 * time.Second

	// Events buffered per client before it is dropped
	clientQueue = 32
)

// MonitorEvent is the JSON form of one token event.
type MonitorEvent struct {
	Time    time.Time `json:"time"`
	Kind    string    `json:"kind"`
	Token   string    `json:"token"`
	Value   string    `json:"value,omitempty"`
	Handled bool      `json:"handled"`
}

func newMonitorEvent(ev *firmware.Event, resp *firmware.Response) MonitorEvent {
	me := MonitorEvent{
		Time:  time.Now(),
		Kind:  ev.Kind.String(),
		Token: string(ev.TokenName),
	}
	switch ev.Kind {
	case firmware.EventGetToken:
		me.Handled = resp.Kind == firmware.ResponseSetTokenValue
		me.Value = string(resp.Value)
	case firmware.EventPostToken:
		me.Value = string(ev.TokenValue)
	}
	return me
}

// Monitor fans token events out to websocket clients.
type Monitor struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan MonitorEvent
}

// NewMonitor creates a monitor with no clients.
func NewMonitor() *Monitor {
	return &Monitor{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan MonitorEvent),
	}
}

// Clients returns the number of connected clients.
func (m *Monitor) Clients() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// Publish queues ev for every client. Slow clients lose events rather than
// stall the event path.
func (m *Monitor) Publish(ev MonitorEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for conn, queue := range m.clients {
		select {
		case queue <- ev:
		default:
			logging.Warn("Monitor client too slow, dropping event",
				zap.String("remote_addr", conn.RemoteAddr().String()),
			)
		}
	}
}

// Disconnect closes every client connection. Hijacked connections are not
// closed by http.Server.Shutdown.
func (m *Monitor) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.clients {
		_ = conn.Close()
	}
}

// ServeHTTP upgrades the request and streams events until the client goes
// away.
func (m *Monitor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("Monitor upgrade failed", zap.Error(err))
		return
	}

	remoteAddr := conn.RemoteAddr().String()
	queue := make(chan MonitorEvent, clientQueue)
	done := make(chan struct{})

	m.mu.Lock()
	m.clients[conn] = queue
	m.mu.Unlock()
	logging.Info("Monitor client connected", zap.String("remote_addr", remoteAddr))

	defer func() {
		m.mu.Lock()
		delete(m.clients, conn)
		m.mu.Unlock()
		_ = conn.Close()
		logging.Info("Monitor client disconnected", zap.String("remote_addr", remoteAddr))
	}()

	// Reader only watches for close; clients never send data
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case ev := <-queue:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}
