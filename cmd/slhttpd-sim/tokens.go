package main

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/slhttpd/internal/config"
	"github.com/muurk/slhttpd/internal/httpd"
	"github.com/muurk/slhttpd/internal/logging"
	"github.com/muurk/slhttpd/internal/token"
)

// valueStore holds values written by store sinks for stored sources.
type valueStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func newValueStore() *valueStore {
	return &valueStore{values: make(map[string][]byte)}
}

func (s *valueStore) Get(key string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

func (s *valueStore) Set(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
}

// bindTokens registers every token declared in cfg with srv.
func bindTokens(srv *httpd.Server, cfg *config.Config, store *valueStore, started time.Time) error {
	for _, d := range cfg.GetTokens {
		h, err := getSource(srv, d, store, started)
		if err != nil {
			return err
		}
		if err := srv.RegisterGetToken(d.ID, h); err != nil {
			return fmt.Errorf("failed to register GET token: %w", err)
		}
	}

	for _, d := range cfg.PostTokens {
		h, err := postSink(d, store)
		if err != nil {
			return err
		}
		if err := srv.RegisterPostToken(d.ID, h); err != nil {
			return fmt.Errorf("failed to register POST token: %w", err)
		}
	}
	return nil
}

func getSource(srv *httpd.Server, d config.GetTokenDef, store *valueStore, started time.Time) (httpd.GetHandler, error) {
	switch d.Source {
	case config.SourceStatic:
		return httpd.Static(d.Value), nil
	case config.SourceUptime:
		return httpd.GetString(func() string {
			return strconv.FormatInt(int64(time.Since(started)/time.Second), 10)
		}), nil
	case config.SourceHitsGet:
		return httpd.GetString(func() string {
			return strconv.FormatUint(srv.GetUserTokenHitsGET(), 10)
		}), nil
	case config.SourceHitsPost:
		return httpd.GetString(func() string {
			return strconv.FormatUint(srv.GetUserTokenHitsPOST(), 10)
		}), nil
	case config.SourceStored:
		key := d.StoreKey()
		return httpd.GetHandlerFunc(func(_ token.ID, buf []byte) int {
			return copy(buf, store.Get(key))
		}), nil
	default:
		return nil, fmt.Errorf("get token %q: unknown source %q", d.ID, d.Source)
	}
}

func postSink(d config.PostTokenDef, store *valueStore) (httpd.PostHandler, error) {
	switch d.Sink {
	case config.SinkLog:
		return httpd.PostHandlerFunc(func(id token.ID, value []byte) {
			logging.Info("Token value posted",
				zap.Stringer("token", id),
				zap.ByteString("value", value))
		}), nil
	case config.SinkStore:
		key := d.StoreKey()
		return httpd.PostHandlerFunc(func(id token.ID, value []byte) {
			store.Set(key, value)
			logging.Debug("Token value stored",
				zap.Stringer("token", id),
				zap.String("key", key),
				zap.Int("length", len(value)))
		}), nil
	default:
		return nil, fmt.Errorf("post token %q: unknown sink %q", d.ID, d.Sink)
	}
}

// indexIDs lists the declared token ids for the built-in index page.
func indexIDs(cfg *config.Config) (get, post []string) {
	for _, d := range cfg.GetTokens {
		get = append(get, d.ID)
	}
	for _, d := range cfg.PostTokens {
		post = append(post, d.ID)
	}
	return get, post
}
