package token_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oauth-authorizer/token"
)

func TestCamelName(t *testing.T) {
	tests := []struct {
		in          string
		want        string
		wantChanged bool
	}{
		{"access_token", "accessToken", true},
		{"refresh_token", "refreshToken", true},
		{"x-request-id", "xRequestId", true},
		{"ext_expires_in", "extExpiresIn", true},
		{"scope", "scope", false},
		{"alreadyCamel", "alreadyCamel", false},
		{"UPPER_case", "UPPERCase", true},
		{"trailing_", "trailing_", false},
		{"_leading", "Leading", true},
		{"double__sep", "doubleSep", true},
		{"mixed_-sep", "mixedSep", true},
		{"trailing__", "trailing__", false},
		{"run__end_", "runEnd_", true},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, changed := token.CamelName(tt.in)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestCamelKeys(t *testing.T) {
	t.Run("converts and passes through", func(t *testing.T) {
		got := token.CamelKeys(map[string]any{
			"access_token": "a",
			"expires_in":   3600,
			"scope":        "openid",
		})
		require.Equal(t, map[string]any{
			"accessToken": "a",
			"expiresIn":   3600,
			"scope":       "openid",
		}, got)
	})

	t.Run("converted key wins a collision", func(t *testing.T) {
		got := token.CamelKeys(map[string]any{
			"accessToken":  "camel",
			"access_token": "snake",
		})
		require.Equal(t, map[string]any{"accessToken": "snake"}, got)
	})

	t.Run("does not modify the input", func(t *testing.T) {
		in := map[string]any{"id_token": "x"}
		token.CamelKeys(in)
		require.Equal(t, map[string]any{"id_token": "x"}, in)
	})
}
