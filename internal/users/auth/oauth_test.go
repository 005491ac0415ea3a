// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeGitHub serves the token and emails endpoints used by GitHubProvider.
func fakeGitHub(t *testing.T, emails []githubEmail) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad_verification_code"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "gh-token", "token_type": "bearer"})
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer gh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(emails)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testGitHubProvider(server *httptest.Server) *GitHubProvider {
	return newGitHubProvider(
		ClientOptions{ClientID: "client", ClientSecret: "secret", RedirectURL: "https://quillpost.test/auth/github/callback"},
		oauth2.Endpoint{
			AuthURL:   server.URL + "/login/oauth/authorize",
			TokenURL:  server.URL + "/login/oauth/access_token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		server.URL,
	)
}

func TestGitHubProvider(t *testing.T) {
	t.Run("picks the primary verified email", func(t *testing.T) {
		server := fakeGitHub(t, []githubEmail{
			{Email: "noreply@users.github.com", Verified: true},
			{Email: "me@fakeapis.io", Primary: true, Verified: true},
		})
		provider := testGitHubProvider(server)

		email, err := provider.Exchange(context.Background(), "good-code")
		require.NoError(t, err)
		assert.Equal(t, "me@fakeapis.io", email)
	})

	t.Run("unverified primary is rejected", func(t *testing.T) {
		server := fakeGitHub(t, []githubEmail{{Email: "me@fakeapis.io", Primary: true}})

		_, err := testGitHubProvider(server).Exchange(context.Background(), "good-code")
		assert.ErrorIs(t, err, ErrEmailNotVerified)
	})

	t.Run("bad code", func(t *testing.T) {
		server := fakeGitHub(t, nil)

		_, err := testGitHubProvider(server).Exchange(context.Background(), "bad-code")
		assert.Error(t, err)
	})

	t.Run("consent url carries state and scope", func(t *testing.T) {
		server := fakeGitHub(t, nil)

		consent, err := url.Parse(testGitHubProvider(server).AuthCodeURL("state-123"))
		require.NoError(t, err)
		assert.Equal(t, "state-123", consent.Query().Get("state"))
		assert.Equal(t, "user:email", consent.Query().Get("scope"))
		assert.Equal(t, "client", consent.Query().Get("client_id"))
	})
}

func TestProviders(t *testing.T) {
	providers := NewProviders(NewGitHubProvider(ClientOptions{ClientID: "id"}), nil)

	provider, err := providers.Lookup("GitHub")
	require.NoError(t, err)
	assert.Equal(t, ProviderGitHub, provider.Name())

	_, err = providers.Lookup("google")
	assert.Equal(t, "Login provider: google is not supported!", messageOf(err))
}
