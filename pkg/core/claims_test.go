package core_test

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notely/pkg/core"
)

func encodePayload(t testing.TB, payload any) string {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func TestDecodeUnverifiedClaims(t *testing.T) {
	t.Run("Reference Token", func(t *testing.T) {
		claims, err := core.DecodeUnverifiedClaims("header.eyJpZCI6IjEiLCJ1c2VybmFtZSI6ImFsaWNlIn0.sig")
		require.NoError(t, err)
		assert.Equal(t, core.ID("1"), claims.ID)
		assert.Equal(t, "alice", claims.Username)
		assert.Nil(t, claims.ExpiresAt)
	})

	t.Run("Numeric ID And Expiry", func(t *testing.T) {
		claims, err := core.DecodeUnverifiedClaims("x.eyJpZCI6NDIsInVzZXJuYW1lIjoiYm9iIiwiZXhwIjoxNzAwMDAwMDAwfQ.y")
		require.NoError(t, err)
		assert.Equal(t, core.ID("42"), claims.ID)
		assert.Equal(t, "bob", claims.Username)

		s := claims.Session()
		require.NotNil(t, s.ExpiresAt)
		assert.True(t, s.ExpiresAt.Equal(time.Unix(1700000000, 0)))
		assert.True(t, s.Authenticated)
	})

	t.Run("Padded Payload", func(t *testing.T) {
		raw, _ := json.Marshal(map[string]string{"id": "7", "username": "eve"})
		padded := base64.URLEncoding.EncodeToString(raw)
		claims, err := core.DecodeUnverifiedClaims("h." + padded + ".s")
		require.NoError(t, err)
		assert.Equal(t, core.ID("7"), claims.ID)
	})

	t.Run("Lenient Expiry", func(t *testing.T) {
		for _, exp := range []any{"tomorrow", nil, true, []int{1}, map[string]int{"at": 1}} {
			token := "h." + encodePayload(t, map[string]any{"id": "1", "username": "alice", "exp": exp}) + ".s"
			claims, err := core.DecodeUnverifiedClaims(token)
			require.NoError(t, err, "exp %v", exp)
			assert.Equal(t, core.ID("1"), claims.ID)
			assert.Equal(t, "alice", claims.Username)
			assert.Nil(t, claims.ExpiresAt)
		}
	})

	malformed := []struct {
		name  string
		token string
	}{
		{"Empty", ""},
		{"Single Segment", "opaque-token"},
		{"Two Segments", "header.eyJpZCI6IjEifQ"},
		{"Four Segments", "a.eyJpZCI6IjEifQ.c.d"},
		{"Not Base64", "h.%%%.s"},
		{"Not JSON", "h." + base64.RawURLEncoding.EncodeToString([]byte("hello")) + ".s"},
		{"JSON String", "h." + base64.RawURLEncoding.EncodeToString([]byte(`"alice"`)) + ".s"},
		{"JSON Null", "h." + base64.RawURLEncoding.EncodeToString([]byte("null")) + ".s"},
		{"JSON Array", "h." + base64.RawURLEncoding.EncodeToString([]byte(`[{"id":"1"}]`)) + ".s"},
		{"JSON Number", "h." + base64.RawURLEncoding.EncodeToString([]byte("42")) + ".s"},
		{"Bad ID Type", "h." + base64.RawURLEncoding.EncodeToString([]byte(`{"id":{"x":1}}`)) + ".s"},
	}
	for _, tc := range malformed {
		t.Run(tc.name, func(t *testing.T) {
			_, err := core.DecodeUnverifiedClaims(tc.token)
			require.Error(t, err)
			var decodeErr *core.DecodeError
			assert.True(t, errors.As(err, &decodeErr), "expected *core.DecodeError, got %T", err)
		})
	}
}

func TestProperty_WellFormedTokensYieldIdentity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("string ids round-trip into the session", prop.ForAll(
		func(id, username, header, sig string) bool {
			token := header + "." + encodePayload(t, map[string]string{"id": id, "username": username}) + "." + sig
			claims, err := core.DecodeUnverifiedClaims(token)
			if err != nil {
				t.Logf("token %q: %v", token, err)
				return false
			}
			s := claims.Session()
			return s.Authenticated && s.ID == core.ID(id) && s.Username == username
		},
		gen.Identifier(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("numeric ids keep their decimal form", prop.ForAll(
		func(id int64, username string) bool {
			token := "h." + encodePayload(t, map[string]any{"id": id, "username": username}) + ".s"
			claims, err := core.DecodeUnverifiedClaims(token)
			if err != nil {
				return false
			}
			return claims.ID == core.ID(strconv.FormatInt(id, 10)) && claims.Username == username
		},
		gen.Int64Range(0, 1<<53),
		gen.AlphaString(),
	))

	properties.Property("extra fields never cost the identity", prop.ForAll(
		func(id, username string, extras map[string]string, exp string) bool {
			payload := map[string]any{}
			for k, v := range extras {
				payload[k] = v
			}
			payload["id"] = id
			payload["username"] = username
			payload["exp"] = exp
			claims, err := core.DecodeUnverifiedClaims("h." + encodePayload(t, payload) + ".s")
			if err != nil {
				t.Logf("payload %v: %v", payload, err)
				return false
			}
			return claims.ID == core.ID(id) && claims.Username == username && claims.ExpiresAt == nil
		},
		gen.Identifier(),
		gen.AlphaString(),
		gen.MapOf(gen.Identifier(), gen.AlphaString()),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestProperty_MalformedTokensFailToDecode(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("segment count other than three is rejected", prop.ForAll(
		func(segments []string) bool {
			if len(segments) == 3 {
				return true
			}
			for i, s := range segments {
				segments[i] = strings.ReplaceAll(s, ".", "")
			}
			_, err := core.DecodeUnverifiedClaims(strings.Join(segments, "."))
			return errors.Is(err, core.ErrMalformedToken)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("JSON values other than objects are rejected", prop.ForAll(
		func(n int64, text string, pick int) bool {
			values := []any{nil, n, text, []string{text}, true}
			raw, _ := json.Marshal(values[pick])
			_, err := core.DecodeUnverifiedClaims("h." + base64.RawURLEncoding.EncodeToString(raw) + ".s")
			var decodeErr *core.DecodeError
			return errors.As(err, &decodeErr) && decodeErr.Reason == "payload is not a JSON object"
		},
		gen.Int64(),
		gen.AlphaString(),
		gen.IntRange(0, 4),
	))

	properties.Property("non-JSON payloads are rejected", prop.ForAll(
		func(text string) bool {
			payload := base64.RawURLEncoding.EncodeToString([]byte("plain:" + text))
			_, err := core.DecodeUnverifiedClaims("h." + payload + ".s")
			var decodeErr *core.DecodeError
			return errors.As(err, &decodeErr)
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
