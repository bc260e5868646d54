package domain

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Kind names an entity kind in the ancestor hierarchy.
type Kind string

const (
	KindProfile    Kind = "Profile"
	KindConference Kind = "Conference"
	KindSession    Kind = "Session"
	KindWishlist   Kind = "Wishlist"
	KindReview     Kind = "Review"
)

// parentKind lists the only parent kind each kind may have. Profiles are roots.
var parentKind = map[Kind]Kind{
	KindProfile:    "",
	KindConference: KindProfile,
	KindSession:    KindConference,
	KindWishlist:   KindProfile,
	KindReview:     KindSession,
}

// Key identifies an entity by its full ancestor path, e.g.
// Profile("u1")/Conference(12)/Session(40). Profiles carry a string name,
// every other kind a store-allocated numeric ID.
type Key struct {
	Kind   Kind
	Name   string
	ID     int64
	Parent *Key
}

// ProfileKey returns the root key for a user's profile.
func ProfileKey(userID string) *Key {
	return &Key{Kind: KindProfile, Name: userID}
}

// ConferenceKey returns the key of a conference organized by userID.
func ConferenceKey(organizerUserID string, id int64) *Key {
	return &Key{Kind: KindConference, ID: id, Parent: ProfileKey(organizerUserID)}
}

// SessionKey returns the key of a session under the given conference key.
func SessionKey(conference *Key, id int64) *Key {
	return &Key{Kind: KindSession, ID: id, Parent: conference}
}

// Root returns the top-most ancestor of k.
func (k *Key) Root() *Key {
	for k.Parent != nil {
		k = k.Parent
	}
	return k
}

// Equal reports whether k and o address the same entity.
func (k *Key) Equal(o *Key) bool {
	for k != nil && o != nil {
		if k.Kind != o.Kind || k.Name != o.Name || k.ID != o.ID {
			return false
		}
		k, o = k.Parent, o.Parent
	}
	return k == nil && o == nil
}

// String renders the ancestor path for logs.
func (k *Key) String() string {
	return strings.Join(k.path(), "/")
}

func (k *Key) path() []string {
	var parts []string
	if k.Parent != nil {
		parts = k.Parent.path()
	}
	ident := "i:" + strconv.FormatInt(k.ID, 10)
	if k.Kind == KindProfile {
		ident = "n:" + url.PathEscape(k.Name)
	}
	return append(parts, string(k.Kind), ident)
}

// Encode returns the websafe key: an opaque URL-safe token clients use to address the entity.
func (k *Key) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(k.String()))
}

// DecodeKey parses a websafe key produced by Encode and validates the ancestor chain.
func DecodeKey(websafe string) (*Key, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(websafe))
	if err != nil || len(raw) == 0 {
		return nil, fmt.Errorf("%w: malformed websafe key", ErrInvalidInput)
	}
	parts := strings.Split(string(raw), "/")
	if len(parts)%2 != 0 {
		return nil, fmt.Errorf("%w: malformed websafe key", ErrInvalidInput)
	}
	var key *Key
	for i := 0; i < len(parts); i += 2 {
		kind := Kind(parts[i])
		want, ok := parentKind[kind]
		if !ok {
			return nil, fmt.Errorf("%w: unknown kind %q in websafe key", ErrInvalidInput, kind)
		}
		var parent Kind
		if key != nil {
			parent = key.Kind
		}
		if parent != want {
			return nil, fmt.Errorf("%w: %s cannot be a child of %q", ErrInvalidInput, kind, parent)
		}
		next := &Key{Kind: kind, Parent: key}
		ident := parts[i+1]
		switch {
		case kind == KindProfile && strings.HasPrefix(ident, "n:"):
			name, err := url.PathUnescape(ident[2:])
			if err != nil || name == "" {
				return nil, fmt.Errorf("%w: malformed profile name in websafe key", ErrInvalidInput)
			}
			next.Name = name
		case kind != KindProfile && strings.HasPrefix(ident, "i:"):
			id, err := strconv.ParseInt(ident[2:], 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("%w: malformed id in websafe key", ErrInvalidInput)
			}
			next.ID = id
		default:
			return nil, fmt.Errorf("%w: malformed websafe key", ErrInvalidInput)
		}
		key = next
	}
	return key, nil
}

// DecodeKeyOfKind decodes websafe and checks that it addresses an entity of the given kind.
func DecodeKeyOfKind(websafe string, kind Kind) (*Key, error) {
	key, err := DecodeKey(websafe)
	if err != nil {
		return nil, err
	}
	if key.Kind != kind {
		return nil, fmt.Errorf("%w: expected a %s key, got %s", ErrInvalidInput, kind, key.Kind)
	}
	return key, nil
}
