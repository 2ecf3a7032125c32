package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/slhttpd/internal/token"
)

type handler func() string

func TestRegisterAndLookup(t *testing.T) {
	r := New[handler]()
	id := token.MustParse("AB")

	require.NoError(t, r.Register(id, func() string { return "ab" }))

	cb, ok := r.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, "ab", cb())

	hits, err := r.Hits(id)
	require.NoError(t, err)
	assert.Zero(t, hits, "Lookup must not count")
}

func TestRegisterDuplicateKeepsOriginal(t *testing.T) {
	r := New[handler]()
	id := token.MustParse("AB")

	require.NoError(t, r.Register(id, func() string { return "first" }))
	_, _ = r.Hit(id)

	err := r.Register(id, func() string { return "second" })
	require.ErrorIs(t, err, ErrExists)

	cb, ok := r.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, "first", cb())

	hits, err := r.Hits(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), hits)
}

func TestRegisterNil(t *testing.T) {
	type doer interface{ Do() }
	r := New[doer]()

	var cb doer
	require.ErrorIs(t, r.Register(token.MustParse("AB"), cb), ErrNilCallback)
	assert.Zero(t, r.Len())
}

func TestDeregister(t *testing.T) {
	r := New[handler]()
	a, b := token.MustParse("AA"), token.MustParse("BB")
	require.NoError(t, r.Register(a, func() string { return "a" }))
	require.NoError(t, r.Register(b, func() string { return "b" }))
	_, _ = r.Hit(b)

	require.ErrorIs(t, r.Deregister(token.MustParse("CC")), ErrNotFound)
	assert.Equal(t, 2, r.Len())

	require.NoError(t, r.Deregister(a))
	_, ok := r.Lookup(a)
	assert.False(t, ok)

	hits, err := r.Hits(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), hits)

	_, err = r.Hits(a)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHitCounters(t *testing.T) {
	r := New[handler]()
	a, b := token.MustParse("AA"), token.MustParse("BB")
	require.NoError(t, r.Register(a, func() string { return "a" }))
	require.NoError(t, r.Register(b, func() string { return "b" }))

	for i := 0; i < 3; i++ {
		_, ok := r.Hit(a)
		require.True(t, ok)
	}
	_, ok := r.Hit(b)
	require.True(t, ok)

	_, ok = r.Hit(token.MustParse("ZZ"))
	assert.False(t, ok)

	assert.Equal(t, uint64(4), r.GlobalHits())

	require.NoError(t, r.Deregister(a))
	assert.Equal(t, uint64(4), r.GlobalHits(), "global counter must survive deregistration")
}

func TestTokensSorted(t *testing.T) {
	r := New[handler]()
	for _, s := range []string{"zz", "AB", "aa", "BA"} {
		require.NoError(t, r.Register(token.MustParse(s), func() string { return s }))
	}
	_, _ = r.Hit(token.MustParse("aa"))

	stats := r.Tokens()
	require.Len(t, stats, 4)
	got := make([]string, len(stats))
	for i, s := range stats {
		got[i] = s.ID.String()
	}
	assert.Equal(t, []string{"AB", "BA", "aa", "zz"}, got)
	assert.Equal(t, uint64(1), stats[2].Hits)
}

func TestClose(t *testing.T) {
	r := New[handler]()
	id := token.MustParse("AB")
	require.NoError(t, r.Register(id, func() string { return "" }))
	_, _ = r.Hit(id)

	r.Close()
	assert.Zero(t, r.Len())
	assert.Equal(t, uint64(1), r.GlobalHits())
	require.NoError(t, r.Register(id, func() string { return "" }))
}

func TestConcurrentHits(t *testing.T) {
	r := New[handler]()
	id := token.MustParse("AB")
	require.NoError(t, r.Register(id, func() string { return "" }))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = r.Hit(id)
			}
		}()
	}
	wg.Wait()

	hits, err := r.Hits(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(800), hits)
	assert.Equal(t, uint64(800), r.GlobalHits())
}
