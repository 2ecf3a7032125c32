package httpd

import (
	"go.uber.org/zap"

	"github.com/muurk/slhttpd/internal/firmware"
	"github.com/muurk/slhttpd/internal/logging"
	"github.com/muurk/slhttpd/internal/token"
)

// HandleEvent is the processor's HTTP server event callback. GET token
// events with a registered id get their value written to resp; POST token
// events are handed to the registered callback. Everything else, including
// unknown ids, leaves resp untouched.
func (s *Server) HandleEvent(ev *firmware.Event, resp *firmware.Response) {
	if ev == nil {
		return
	}

	switch ev.Kind {
	case firmware.EventGetToken:
		if resp != nil {
			s.dispatchGet(ev, resp)
		}
	case firmware.EventPostToken:
		s.dispatchPost(ev)
	default:
		logging.Debug("Ignoring HTTP server event", zap.Stringer("kind", ev.Kind))
	}
}

func (s *Server) dispatchGet(ev *firmware.Event, resp *firmware.Response) {
	id, ok := token.FromGetName(ev.TokenName)
	if !ok {
		logging.Debug("Not a user GET token", zap.ByteString("name", ev.TokenName))
		return
	}

	h, ok := s.get.Hit(id)
	if !ok {
		logging.LogTokenEvent("get", id.String(), false, 0)
		return
	}

	buf := make([]byte, firmware.MaxTokenValueLen)
	n := h.GetToken(id, buf)
	if n < 0 || n > len(buf) {
		logging.Warn("GET token callback returned out-of-range length",
			zap.String("token", id.String()),
			zap.Int("length", n),
			zap.Int("buffer", len(buf)),
		)
		n = max(0, min(n, len(buf)))
	}

	resp.Kind = firmware.ResponseSetTokenValue
	resp.Value = buf[:n]
	logging.LogTokenEvent("get", id.String(), true, n)
}

func (s *Server) dispatchPost(ev *firmware.Event) {
	id, ok := token.FromPostName(ev.TokenName)
	if !ok {
		logging.Debug("Not a user POST token", zap.ByteString("name", ev.TokenName))
		return
	}

	h, ok := s.post.Hit(id)
	if !ok {
		logging.LogTokenEvent("post", id.String(), false, len(ev.TokenValue))
		return
	}

	logging.LogRawBytes("POST token value", ev.TokenValue)
	h.PostToken(id, ev.TokenValue)
	logging.LogTokenEvent("post", id.String(), true, len(ev.TokenValue))
}
