package httpd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/slhttpd/internal/logging"
	"github.com/muurk/slhttpd/internal/registry"
	"github.com/muurk/slhttpd/internal/token"
)

// errClosed rejects registration on a closed server.
var errClosed = fmt.Errorf("%w: server closed", ErrInvalidArgument)

// TokenStat is a snapshot of one registered token.
type TokenStat = registry.Stat

// RegisterGetToken binds h to the GET token id. The id is the first two
// bytes of name; shorter names are rejected.
func (s *Server) RegisterGetToken(name string, h GetHandler) error {
	return s.registerGet(name, []byte(name), h)
}

// RegisterGetTokenBytes is RegisterGetToken for raw or NUL-terminated bytes.
func (s *Server) RegisterGetTokenBytes(name []byte, h GetHandler) error {
	return s.registerGet(string(name), name, h)
}

func (s *Server) registerGet(display string, raw []byte, h GetHandler) error {
	const op = "register"
	id, err := parse(op, DirectionGet, display, raw)
	if err != nil {
		return err
	}
	if nilGet(h) {
		return tokenErr(op, DirectionGet, display, fmt.Errorf("%w: nil callback", ErrInvalidArgument))
	}
	if s.closed.Load() {
		return tokenErr(op, DirectionGet, display, errClosed)
	}
	if err := s.get.Register(id, h); err != nil {
		return tokenErr(op, DirectionGet, display, err)
	}
	logging.Debug("GET token registered", zap.String("token", id.String()))
	return nil
}

// DeregisterGetToken removes the GET token id.
func (s *Server) DeregisterGetToken(name string) error {
	return s.deregister(DirectionGet, name, []byte(name))
}

// DeregisterGetTokenBytes is DeregisterGetToken for raw bytes.
func (s *Server) DeregisterGetTokenBytes(name []byte) error {
	return s.deregister(DirectionGet, string(name), name)
}

// RegisterPostToken binds h to the POST token id.
func (s *Server) RegisterPostToken(name string, h PostHandler) error {
	return s.registerPost(name, []byte(name), h)
}

// RegisterPostTokenBytes is RegisterPostToken for raw bytes.
func (s *Server) RegisterPostTokenBytes(name []byte, h PostHandler) error {
	return s.registerPost(string(name), name, h)
}

func (s *Server) registerPost(display string, raw []byte, h PostHandler) error {
	const op = "register"
	id, err := parse(op, DirectionPost, display, raw)
	if err != nil {
		return err
	}
	if nilPost(h) {
		return tokenErr(op, DirectionPost, display, fmt.Errorf("%w: nil callback", ErrInvalidArgument))
	}
	if s.closed.Load() {
		return tokenErr(op, DirectionPost, display, errClosed)
	}
	if err := s.post.Register(id, h); err != nil {
		return tokenErr(op, DirectionPost, display, err)
	}
	logging.Debug("POST token registered", zap.String("token", id.String()))
	return nil
}

// DeregisterPostToken removes the POST token id.
func (s *Server) DeregisterPostToken(name string) error {
	return s.deregister(DirectionPost, name, []byte(name))
}

// DeregisterPostTokenBytes is DeregisterPostToken for raw bytes.
func (s *Server) DeregisterPostTokenBytes(name []byte) error {
	return s.deregister(DirectionPost, string(name), name)
}

func (s *Server) deregister(dir Direction, display string, raw []byte) error {
	const op = "deregister"
	id, err := parse(op, dir, display, raw)
	if err != nil {
		return err
	}

	if dir == DirectionGet {
		err = s.get.Deregister(id)
	} else {
		err = s.post.Deregister(id)
	}
	if err != nil {
		return tokenErr(op, dir, display, err)
	}
	logging.Debug("Token deregistered",
		zap.Stringer("direction", dir),
		zap.String("token", id.String()),
	)
	return nil
}

// GetUserTokenHitsGET returns the number of GET token events dispatched to
// any registered callback.
func (s *Server) GetUserTokenHitsGET() uint64 {
	return s.get.GlobalHits()
}

// GetUserTokenHitsGETFor returns the dispatch count of one GET token.
func (s *Server) GetUserTokenHitsGETFor(name string) (uint64, error) {
	return s.hits(DirectionGet, name, []byte(name))
}

// GetUserTokenHitsGETForBytes is GetUserTokenHitsGETFor for raw bytes.
func (s *Server) GetUserTokenHitsGETForBytes(name []byte) (uint64, error) {
	return s.hits(DirectionGet, string(name), name)
}

// GetUserTokenHitsPOST returns the number of POST token events dispatched.
func (s *Server) GetUserTokenHitsPOST() uint64 {
	return s.post.GlobalHits()
}

// GetUserTokenHitsPOSTFor returns the dispatch count of one POST token.
func (s *Server) GetUserTokenHitsPOSTFor(name string) (uint64, error) {
	return s.hits(DirectionPost, name, []byte(name))
}

// GetUserTokenHitsPOSTForBytes is GetUserTokenHitsPOSTFor for raw bytes.
func (s *Server) GetUserTokenHitsPOSTForBytes(name []byte) (uint64, error) {
	return s.hits(DirectionPost, string(name), name)
}

func (s *Server) hits(dir Direction, display string, raw []byte) (uint64, error) {
	const op = "hits"
	id, err := parse(op, dir, display, raw)
	if err != nil {
		return 0, err
	}

	var n uint64
	if dir == DirectionGet {
		n, err = s.get.Hits(id)
	} else {
		n, err = s.post.Hits(id)
	}
	if err != nil {
		return 0, tokenErr(op, dir, display, err)
	}
	return n, nil
}

// GetTokens returns the registered GET tokens with their counters.
func (s *Server) GetTokens() []TokenStat { return s.get.Tokens() }

// PostTokens returns the registered POST tokens with their counters.
func (s *Server) PostTokens() []TokenStat { return s.post.Tokens() }

func parse(op string, dir Direction, display string, raw []byte) (token.ID, error) {
	id, err := token.Parse(raw)
	if err != nil {
		return token.ID{}, tokenErr(op, dir, display, fmt.Errorf("%w: %w", ErrInvalidArgument, err))
	}
	return id, nil
}

func tokenErr(op string, dir Direction, name string, err error) error {
	return &TokenError{Op: op, Direction: dir, Token: name, Err: err}
}
