package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrOAuthDisabled no client id configured
var ErrOAuthDisabled = errors.New("OAuth sign-in is not configured")

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// ExternalProfile identity returned by the OAuth provider
type ExternalProfile struct {
	Subject string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// OAuthConfig options for the Google code flow
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// OAuthUtil wraps the Google authorization-code flow.
//
// The browser popup/redirect split lives entirely on the client: the consent
// URL produced here is either followed as a 302 or opened in a popup window,
// the callback exchange is identical for both.
type OAuthUtil struct {
	config *oauth2.Config
}

// NewOAuthUtil create an OAuthUtil, returns nil when no client id is configured
func NewOAuthUtil(cfg *OAuthConfig) *OAuthUtil {
	if cfg.ClientID == "" {
		return nil
	}
	return &OAuthUtil{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Enabled report whether the flow can be used
func (ou *OAuthUtil) Enabled() bool {
	return ou != nil
}

// ConsentURL build the provider consent URL for the given anti-forgery state
func (ou *OAuthUtil) ConsentURL(state string) string {
	return ou.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trade the callback code for the external profile
func (ou *OAuthUtil) Exchange(ctx context.Context, code string) (*ExternalProfile, error) {
	token, err := ou.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("Failed to exchange OAuth code: %w", err)
	}

	res, err := ou.config.Client(ctx, token).Get(userinfoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch OAuth profile: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Failed to fetch OAuth profile: status %d", res.StatusCode)
	}

	profile := new(ExternalProfile)
	if err := json.NewDecoder(res.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("Failed to decode OAuth profile: %w", err)
	}
	if profile.Email == "" {
		return nil, errors.New("OAuth profile has no email")
	}
	return profile, nil
}
