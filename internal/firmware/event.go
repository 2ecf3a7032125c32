package firmware

import "fmt"

// Buffer limits of the HTTP server token interface.
const (
	MaxTokenNameLen  = 20
	MaxTokenValueLen = 64
)

// EventKind identifies an HTTP server event class.
type EventKind uint32

const (
	EventUnknown   EventKind = 0
	EventGetToken  EventKind = 1
	EventPostToken EventKind = 2
)

func (k EventKind) String() string {
	switch k {
	case EventGetToken:
		return "get_token"
	case EventPostToken:
		return "post_token"
	default:
		return fmt.Sprintf("EventKind(%d)", uint32(k))
	}
}

// Event is one HTTP server notification.
type Event struct {
	Kind EventKind

	// TokenName is the full token name, e.g. "__SL_G_UAB".
	TokenName []byte

	// TokenValue is the posted value for POST events.
	TokenValue []byte
}

// ResponseKind tells the processor how to interpret a Response.
type ResponseKind uint32

const (
	ResponseNone          ResponseKind = 0
	ResponseSetTokenValue ResponseKind = 1
)

// Response is filled in by the event handler for GET token events.
type Response struct {
	Kind  ResponseKind
	Value []byte
}

// EventHandler receives HTTP server events. It runs synchronously inside the
// processor's notification and must not block.
type EventHandler interface {
	HandleEvent(ev *Event, resp *Response)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ev *Event, resp *Response)

// HandleEvent calls f(ev, resp).
func (f EventHandlerFunc) HandleEvent(ev *Event, resp *Response) { f(ev, resp) }
