package types

// Authentication type tags.
const (
	AuthNone    = "none"
	AuthInherit = "inherit"
	AuthBasic   = "basic"
	AuthBearer  = "bearer"
	AuthAPIKey  = "apikey"
	AuthOAuth2  = "oauth2"
)

// Auth is the tagged authentication variant shared by collections and
// requests. Only the payload matching Type is meaningful; Purge drops the
// rest after a type switch.
type Auth struct {
	Type   string      `json:"type" yaml:"type"`
	Basic  *BasicAuth  `json:"basic,omitempty" yaml:"basic,omitempty"`
	Bearer *BearerAuth `json:"bearer,omitempty" yaml:"bearer,omitempty"`
	APIKey *APIKeyAuth `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	OAuth2 *OAuth2Auth `json:"oauth2,omitempty" yaml:"oauth2,omitempty"`
}

// BasicAuth carries HTTP basic credentials.
type BasicAuth struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// BearerAuth carries a bearer token and an optional scheme prefix
// (defaults to "Bearer" at execution time).
type BearerAuth struct {
	Token  string `json:"token" yaml:"token"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// APIKeyAuth places a static key in a header, query parameter or cookie.
type APIKeyAuth struct {
	Key      string `json:"key" yaml:"key"`
	Value    string `json:"value" yaml:"value"`
	Location string `json:"in" yaml:"in"` // header, query or cookie
}

// OAuth2Auth carries OAuth 2.0 client settings. Token acquisition happens
// in the execution pipeline; the core only stores the configuration.
type OAuth2Auth struct {
	GrantType    string `json:"grantType" yaml:"grantType"` // authorization_code, client_credentials, password
	AuthURL      string `json:"authUrl,omitempty" yaml:"authUrl,omitempty"`
	TokenURL     string `json:"tokenUrl,omitempty" yaml:"tokenUrl,omitempty"`
	ClientID     string `json:"clientId,omitempty" yaml:"clientId,omitempty"`
	ClientSecret string `json:"clientSecret,omitempty" yaml:"clientSecret,omitempty"`
	RedirectURL  string `json:"redirectUrl,omitempty" yaml:"redirectUrl,omitempty"`
	Scope        string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Username     string `json:"username,omitempty" yaml:"username,omitempty"`
	Password     string `json:"password,omitempty" yaml:"password,omitempty"`
}

// Clone returns a deep copy. Clone of nil is nil.
func (a *Auth) Clone() *Auth {
	if a == nil {
		return nil
	}
	c := &Auth{Type: a.Type}
	if a.Basic != nil {
		basic := *a.Basic
		c.Basic = &basic
	}
	if a.Bearer != nil {
		bearer := *a.Bearer
		c.Bearer = &bearer
	}
	if a.APIKey != nil {
		key := *a.APIKey
		c.APIKey = &key
	}
	if a.OAuth2 != nil {
		oauth := *a.OAuth2
		c.OAuth2 = &oauth
	}
	return c
}

// Purge drops every payload that does not belong to the active type, so a
// stale api-key block cannot survive a switch to bearer.
func (a *Auth) Purge() {
	if a == nil {
		return
	}
	if a.Type != AuthBasic {
		a.Basic = nil
	}
	if a.Type != AuthBearer {
		a.Bearer = nil
	}
	if a.Type != AuthAPIKey {
		a.APIKey = nil
	}
	if a.Type != AuthOAuth2 {
		a.OAuth2 = nil
	}
}
