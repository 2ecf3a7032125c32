package httpd

import "github.com/muurk/slhttpd/internal/token"

// GetHandler produces the substitute value for a GET token. It writes into
// buf and returns the number of bytes written; buf is
// firmware.MaxTokenValueLen bytes long.
type GetHandler interface {
	GetToken(id token.ID, buf []byte) int
}

// GetHandlerFunc adapts a function to GetHandler.
type GetHandlerFunc func(id token.ID, buf []byte) int

// GetToken calls f(id, buf).
func (f GetHandlerFunc) GetToken(id token.ID, buf []byte) int { return f(id, buf) }

// PostHandler consumes the value posted for a POST token.
type PostHandler interface {
	PostToken(id token.ID, value []byte)
}

// PostHandlerFunc adapts a function to PostHandler.
type PostHandlerFunc func(id token.ID, value []byte)

// PostToken calls f(id, value).
func (f PostHandlerFunc) PostToken(id token.ID, value []byte) { f(id, value) }

// GetString returns a GetHandler serving the string produced by fn,
// truncated to the token value buffer.
func GetString(fn func() string) GetHandler {
	return GetHandlerFunc(func(_ token.ID, buf []byte) int {
		return copy(buf, fn())
	})
}

// Static returns a GetHandler that always serves value.
func Static(value string) GetHandler {
	return GetString(func() string { return value })
}

func nilGet(h GetHandler) bool {
	if h == nil {
		return true
	}
	f, ok := h.(GetHandlerFunc)
	return ok && f == nil
}

func nilPost(h PostHandler) bool {
	if h == nil {
		return true
	}
	f, ok := h.(PostHandlerFunc)
	return ok && f == nil
}
