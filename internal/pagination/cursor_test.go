package pagination

import (
	"strings"
	"testing"

	"github.com/conduitlabs/conduit/backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")
	cur := Cursor{Position: Position{CreatedAt: 100, ID: 3}, Dir: Next}

	token := codec.Encode(cur, "articles")
	decoded, err := codec.Decode(token, "articles")
	require.NoError(t, err)
	assert.Equal(t, cur, *decoded)

	prev := Cursor{Position: Position{CreatedAt: 90, ID: 9}, Dir: Prev}
	decoded, err = codec.Decode(codec.Encode(prev, "feed:7"), "feed:7")
	require.NoError(t, err)
	assert.Equal(t, prev, *decoded)
}

func TestCodecRejectsMalformedTokens(t *testing.T) {
	codec := NewCodec("test-secret")
	token := codec.Encode(Cursor{Position: Position{CreatedAt: 100, ID: 3}, Dir: Next}, "articles")

	cases := map[string]string{
		"garbage":       "not-a-cursor",
		"no signature":  strings.Split(token, ".")[0],
		"truncated":     token[:len(token)-5],
		"bad base64":    "!!!." + strings.Split(token, ".")[1],
		"tampered body": "eyJ0IjoxfQ." + strings.Split(token, ".")[1],
	}
	for name, bad := range cases {
		_, err := codec.Decode(bad, "articles")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCursor, name)
	}
}

func TestCodecRejectsWrongSecret(t *testing.T) {
	token := NewCodec("secret-a").Encode(Cursor{Position: Position{CreatedAt: 1, ID: 1}, Dir: Next}, "articles")

	_, err := NewCodec("secret-b").Decode(token, "articles")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCursor)
}

func TestCodecRejectsScopeMismatch(t *testing.T) {
	codec := NewCodec("test-secret")
	token := codec.Encode(Cursor{Position: Position{CreatedAt: 100, ID: 3}, Dir: Next}, "articles")

	// A cursor minted under one filter combination must not decode under
	// another.
	for _, scope := range []string{"articles:author:5", "feed:1", "favorites:1"} {
		_, err := codec.Decode(token, scope)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCursor, scope)
	}
}
