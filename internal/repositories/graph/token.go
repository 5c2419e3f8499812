package graph

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultScope requests every application permission granted to the app
const DefaultScope = "https://graph.microsoft.com/.default"

type CredentialsConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// NewTokenSource returns an app-only token source using the client
// credentials grant. Tokens are cached until shortly before expiry.
func NewTokenSource(ctx context.Context, cfg CredentialsConfig) oauth2.TokenSource {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID)
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{DefaultScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	return cc.TokenSource(ctx)
}
