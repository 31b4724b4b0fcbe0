package oauthmodel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oauth-authorizer/oauthmodel"
)

func TestParams(t *testing.T) {
	t.Run("keeps insertion order", func(t *testing.T) {
		p := oauthmodel.Params{}
		p.Add("grant_type", "password")
		p.AddIfSet("client_id", "")
		p.Add("username", "a b")
		p.Add("scope", "openid profile")

		require.Equal(t, []string{"grant_type", "username", "scope"}, p.Names())
		require.Equal(t, "grant_type=password&username=a+b&scope=openid+profile", p.Encode())
		require.Equal(t, "grant_type=password&username=a%20b&scope=openid%20profile", p.EncodeQuery())
	})

	t.Run("first value wins", func(t *testing.T) {
		p := oauthmodel.Params{{Name: "a", Value: "1"}, {Name: "a", Value: "2"}}
		v, ok := p.Get("a")
		require.True(t, ok)
		require.Equal(t, "1", v)
		require.Empty(t, p.Value("missing"))
		require.False(t, p.Has("missing"))
	})
}

func TestAppendToURL(t *testing.T) {
	p := oauthmodel.Params{{Name: "a", Value: "1"}}

	tests := map[string]string{
		"https://auth.example.com/token":      "https://auth.example.com/token?a=1",
		"https://auth.example.com/token?x=y":  "https://auth.example.com/token?x=y&a=1",
		"https://auth.example.com/token?":     "https://auth.example.com/token?a=1",
		"https://auth.example.com/token?x=y&": "https://auth.example.com/token?x=y&a=1",
	}
	for base, want := range tests {
		t.Run(base, func(t *testing.T) {
			require.Equal(t, want, oauthmodel.AppendToURL(base, p))
		})
	}

	t.Run("no params", func(t *testing.T) {
		require.Equal(t, "https://auth.example.com/token", oauthmodel.AppendToURL("https://auth.example.com/token", nil))
	})
}

func TestParseParams(t *testing.T) {
	t.Run("query and fragment forms", func(t *testing.T) {
		for _, raw := range []string{"?code=abc&state=s%201", "#code=abc&state=s+1", "code=abc&state=s%201"} {
			p, err := oauthmodel.ParseParams(raw)
			require.NoError(t, err, raw)
			require.Equal(t, oauthmodel.Params{{Name: "code", Value: "abc"}, {Name: "state", Value: "s 1"}}, p)
		}
	})

	t.Run("empty pairs and names without values", func(t *testing.T) {
		p, err := oauthmodel.ParseParams("a=1&&flag&b=")
		require.NoError(t, err)
		require.Equal(t, oauthmodel.Params{{Name: "a", Value: "1"}, {Name: "flag"}, {Name: "b"}}, p)
	})

	t.Run("empty", func(t *testing.T) {
		p, err := oauthmodel.ParseParams("")
		require.NoError(t, err)
		require.Empty(t, p)
	})

	t.Run("invalid escape", func(t *testing.T) {
		_, err := oauthmodel.ParseParams("state=%zz")
		require.Error(t, err)
		require.Contains(t, err.Error(), "[ParseParams]")
	})
}
