// Package token defines the fixed-width identifiers the SimpleLink HTTP
// server uses for user tokens.
//
// The network processor reports user tokens by name: "__SL_G_Uxx" for GET
// substitutions and "__SL_P_Uxx" for POST form fields, where "xx" is a
// two-byte identifier chosen by the application. ID is that two-byte
// identifier as a comparable value type.
package token

import (
	"bytes"
	"errors"
	"fmt"
)

// Width is the number of bytes in a token identifier.
const Width = 2

// Name prefixes reported by the firmware for user tokens.
const (
	GetPrefix  = "__SL_G_U"
	PostPrefix = "__SL_P_U"
)

// ErrInvalid is returned for identifiers shorter than Width.
var ErrInvalid = errors.New("invalid token id")

// ID is a two-byte user token identifier.
type ID [Width]byte

// Source is any textual representation accepted for a token id.
type Source interface {
	~string | ~[]byte
}

// Parse normalizes raw bytes or a string into an ID. Input ends at the first
// NUL byte; anything past Width bytes is ignored.
func Parse[S Source](s S) (ID, error) {
	b := []byte(s)
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if len(b) < Width {
		return ID{}, fmt.Errorf("%w: %q is shorter than %d bytes", ErrInvalid, b, Width)
	}
	var id ID
	copy(id[:], b[:Width])
	return id, nil
}

// MustParse is like Parse but panics on error. For constants and tests.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// FromGetName extracts the id from a firmware GET token name such as
// "__SL_G_UAB".
func FromGetName(name []byte) (ID, bool) {
	return fromName(name, GetPrefix)
}

// FromPostName extracts the id from a firmware POST token name such as
// "__SL_P_UXY".
func FromPostName(name []byte) (ID, bool) {
	return fromName(name, PostPrefix)
}

func fromName(name []byte, prefix string) (ID, bool) {
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	if len(name) != len(prefix)+Width || !bytes.HasPrefix(name, []byte(prefix)) {
		return ID{}, false
	}
	var id ID
	copy(id[:], name[len(prefix):])
	return id, true
}

// GetName returns the full firmware GET token name for id.
func (id ID) GetName() string { return GetPrefix + id.String() }

// PostName returns the full firmware POST token name for id.
func (id ID) PostName() string { return PostPrefix + id.String() }

func (id ID) String() string { return string(id[:]) }
