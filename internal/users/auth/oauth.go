// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
)

// # Contracts

// Provider is an external identity provider reached through the OAuth2
// authorization code flow.
type Provider interface {
	// Name is the path segment used in /auth/{provider}.
	Name() string
	// AuthCodeURL builds the consent page URL carrying state.
	AuthCodeURL(state string) string
	// Exchange trades the callback code for the user's verified email.
	Exchange(context context.Context, code string) (string, error)
}

// Providers indexes the configured providers by name.
type Providers map[string]Provider

// MsgUnknownProvider is returned for a provider that is not configured.
const MsgUnknownProvider = "Login provider: %s is not supported!"

// ErrEmailNotVerified is returned when the provider cannot vouch for the email.
var ErrEmailNotVerified = errors.New("provider email not verified")

// NewProviders builds the registry, skipping nil entries.
func NewProviders(providers ...Provider) Providers {
	registry := make(Providers, len(providers))
	for _, provider := range providers {
		if provider != nil {
			registry[provider.Name()] = provider
		}
	}
	return registry
}

// Lookup returns the named provider or a NotFound error.
func (providers Providers) Lookup(name string) (Provider, error) {
	provider, ok := providers[strings.ToLower(name)]
	if !ok {
		return nil, apperr.NotFoundf(MsgUnknownProvider, name)
	}
	return provider, nil
}

// ClientOptions holds the OAuth2 client registration of a provider.
type ClientOptions struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// # Google

const googleIssuer = "https://accounts.google.com"

// GoogleProvider signs users in with Google through OpenID Connect.
type GoogleProvider struct {
	config   oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewGoogleProvider discovers Google's OIDC configuration and builds the provider.
func NewGoogleProvider(context context.Context, options ClientOptions) (*GoogleProvider, error) {
	discovery, err := oidc.NewProvider(context, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("google_oidc_discovery_failed: %w", err)
	}

	return &GoogleProvider{
		config: oauth2.Config{
			ClientID:     options.ClientID,
			ClientSecret: options.ClientSecret,
			RedirectURL:  options.RedirectURL,
			Endpoint:     discovery.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email"},
		},
		verifier: discovery.Verifier(&oidc.Config{ClientID: options.ClientID}),
	}, nil
}

func (provider *GoogleProvider) Name() string { return ProviderGoogle }

func (provider *GoogleProvider) AuthCodeURL(state string) string {
	return provider.config.AuthCodeURL(state)
}

// Exchange verifies the returned ID token and reads its email claims.
func (provider *GoogleProvider) Exchange(context context.Context, code string) (string, error) {
	token, err := provider.config.Exchange(context, code)
	if err != nil {
		return "", fmt.Errorf("google_code_exchange_failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return "", errors.New("google_id_token_missing")
	}

	idToken, err := provider.verifier.Verify(context, rawIDToken)
	if err != nil {
		return "", fmt.Errorf("google_id_token_invalid: %w", err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", fmt.Errorf("google_claims_decode_failed: %w", err)
	}

	if !claims.EmailVerified {
		return "", ErrEmailNotVerified
	}

	return claims.Email, nil
}

// # GitHub

const githubAPIBaseURL = "https://api.github.com"

// GitHubProvider signs users in with GitHub. GitHub has no ID token, so the
// primary verified address is read from the emails API.
type GitHubProvider struct {
	config     oauth2.Config
	apiBaseURL string
}

// NewGitHubProvider builds the provider against github.com.
func NewGitHubProvider(options ClientOptions) *GitHubProvider {
	return newGitHubProvider(options, endpoints.GitHub, githubAPIBaseURL)
}

func newGitHubProvider(options ClientOptions, endpoint oauth2.Endpoint, apiBaseURL string) *GitHubProvider {
	return &GitHubProvider{
		config: oauth2.Config{
			ClientID:     options.ClientID,
			ClientSecret: options.ClientSecret,
			RedirectURL:  options.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"user:email"},
		},
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
	}
}

func (provider *GitHubProvider) Name() string { return ProviderGitHub }

func (provider *GitHubProvider) AuthCodeURL(state string) string {
	return provider.config.AuthCodeURL(state)
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Exchange trades the code for a token and picks the primary verified email.
func (provider *GitHubProvider) Exchange(context context.Context, code string) (string, error) {
	token, err := provider.config.Exchange(context, code)
	if err != nil {
		return "", fmt.Errorf("github_code_exchange_failed: %w", err)
	}

	request, err := http.NewRequestWithContext(context, http.MethodGet, provider.apiBaseURL+"/user/emails", nil)
	if err != nil {
		return "", fmt.Errorf("github_emails_request_failed: %w", err)
	}
	request.Header.Set("Accept", "application/vnd.github+json")

	response, err := provider.config.Client(context, token).Do(request)
	if err != nil {
		return "", fmt.Errorf("github_emails_call_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github_emails_unexpected_status: %d", response.StatusCode)
	}

	var emails []githubEmail
	if err := json.NewDecoder(response.Body).Decode(&emails); err != nil {
		return "", fmt.Errorf("github_emails_decode_failed: %w", err)
	}

	for _, email := range emails {
		if email.Primary && email.Verified {
			return email.Email, nil
		}
	}

	return "", ErrEmailNotVerified
}
