// Package auth projects stored authentication configuration into the
// shapes the execution pipeline consumes. Token acquisition itself and
// any networking stay in the pipeline; this package only translates.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/studiowebux/restdesk/internal/types"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrNotOAuth2 is returned when the authentication variant is not oauth2.
var ErrNotOAuth2 = errors.New("authentication is not oauth2")

// OAuth2Config builds an oauth2.Config for the authorization-code and
// password grants.
func OAuth2Config(a *types.Auth) (*oauth2.Config, error) {
	cfg, err := oauthPayload(a)
	if err != nil {
		return nil, err
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       splitScope(cfg.Scope),
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.AuthURL,
			TokenURL: cfg.TokenURL,
		},
	}, nil
}

// ClientCredentialsConfig builds a two-legged config for the
// client_credentials grant.
func ClientCredentialsConfig(a *types.Auth) (*clientcredentials.Config, error) {
	cfg, err := oauthPayload(a)
	if err != nil {
		return nil, err
	}
	return &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       splitScope(cfg.Scope),
	}, nil
}

func oauthPayload(a *types.Auth) (*types.OAuth2Auth, error) {
	if a == nil || a.Type != types.AuthOAuth2 {
		return nil, ErrNotOAuth2
	}
	if a.OAuth2 == nil {
		return nil, fmt.Errorf("oauth2 authentication is missing its configuration")
	}
	return a.OAuth2, nil
}

func splitScope(scope string) []string {
	if strings.TrimSpace(scope) == "" {
		return nil
	}
	return strings.Fields(scope)
}
