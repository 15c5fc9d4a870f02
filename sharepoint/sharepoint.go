// Package sharepoint uploads generated decks to a SharePoint document
// library, authenticating either with application credentials (client
// credentials exchange against the ACS token endpoint) or with a user
// account (resource owner password grant against Azure AD).
package sharepoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/microsoft"
)

// SharePoint's resource principal for app-only tokens.
const principal = "00000003-0000-0ff1-ce00-000000000000"

const defaultAuthority = "https://accounts.accesscontrol.windows.net"

var (
	// ErrInvalidCredentials - the client id/secret (or username/password)
	// pair was rejected by the identity provider.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInsufficientPrivileges - the token was issued but lacks the
	// Sites.ReadWrite.All application permission (delegated-only grant or
	// missing admin consent).
	ErrInsufficientPrivileges = errors.New("insufficient privileges")

	// ErrSiteAccessForbidden - the application holds the tenant-wide
	// permission but has not been authorised against this specific site.
	ErrSiteAccessForbidden = errors.New("site access forbidden")
)

// Config carries the connection and credential settings.
type Config struct {
	SiteURL      string
	Tenant       string
	Folder       string
	AuthMethod   string // app, user
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	Authority    string // overrides the token authority, normally empty
}

// Client is an authenticated SharePoint REST client.
type Client struct {
	site   string
	folder string
	http   *http.Client
}

// NewClient acquires a bearer token for the configured auth method and
// returns a client bound to the site. Credential rejections surface as
// ErrInvalidCredentials.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	site := strings.TrimRight(cfg.SiteURL, "/")
	if site == "" {
		return nil, fmt.Errorf("site URL is required")
	}

	u, err := url.Parse(site)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid site URL '%s'", cfg.SiteURL)
	}

	var source oauth2.TokenSource

	switch cfg.AuthMethod {
	case "", "app":
		source = appTokenSource(ctx, cfg, u.Host)

	case "user":
		source, err = userTokenSource(ctx, cfg, u.Host)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unsupported auth method '%s' - expected 'app' or 'user'", cfg.AuthMethod)
	}

	// fail fast on bad credentials
	if _, err := source.Token(); err != nil {
		return nil, tokenError(err)
	}

	return &Client{
		site:   site,
		folder: strings.Trim(cfg.Folder, "/"),
		http:   oauth2.NewClient(ctx, source),
	}, nil
}

// appTokenSource exchanges the application identity and secret for a bearer
// token. The client id is qualified with the tenant and the token is
// requested for the SharePoint resource principal on the target host.
func appTokenSource(ctx context.Context, cfg Config, host string) oauth2.TokenSource {
	authority := cfg.Authority
	if authority == "" {
		authority = defaultAuthority
	}

	conf := clientcredentials.Config{
		ClientID:     fmt.Sprintf("%s@%s", cfg.ClientID, cfg.Tenant),
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("%s/%s/tokens/OAuth/2", strings.TrimRight(authority, "/"), cfg.Tenant),
		EndpointParams: url.Values{
			"resource": {fmt.Sprintf("%s/%s@%s", principal, host, cfg.Tenant)},
		},
	}

	return conf.TokenSource(ctx)
}

// userTokenSource exchanges a username and password for a bearer token
// using the resource owner password grant.
func userTokenSource(ctx context.Context, cfg Config, host string) (oauth2.TokenSource, error) {
	endpoint := microsoft.AzureADEndpoint(cfg.Tenant)
	if cfg.Authority != "" {
		authority := strings.TrimRight(cfg.Authority, "/")
		endpoint = oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("%s/%s/oauth2/v2.0/authorize", authority, cfg.Tenant),
			TokenURL: fmt.Sprintf("%s/%s/oauth2/v2.0/token", authority, cfg.Tenant),
		}
	}

	conf := oauth2.Config{
		ClientID: cfg.ClientID,
		Endpoint: endpoint,
		Scopes:   []string{fmt.Sprintf("https://%s/.default", host)},
	}

	token, err := conf.PasswordCredentialsToken(ctx, cfg.Username, cfg.Password)
	if err != nil {
		return nil, tokenError(err)
	}

	return conf.TokenSource(ctx, token), nil
}

func tokenError(err error) error {
	var retrieve *oauth2.RetrieveError

	if errors.As(err, &retrieve) {
		switch retrieve.Response.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return fmt.Errorf("%w (%v)", ErrInvalidCredentials, retrieve.ErrorCode)
		}
	}

	return fmt.Errorf("token request failed (%v)", err)
}

// odata is the error envelope returned by the SharePoint REST API.
type odata struct {
	Error struct {
		Code    string `json:"code"`
		Message struct {
			Value string `json:"value"`
		} `json:"message"`
	} `json:"odata.error"`
}

func apiError(status int, body []byte) error {
	message := ""

	var envelope odata
	if err := json.Unmarshal(body, &envelope); err == nil {
		message = envelope.Error.Message.Value
		if message == "" {
			message = envelope.Error.Code
		}
	}

	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w (%s)", ErrInvalidCredentials, message)

	case http.StatusForbidden:
		if strings.Contains(envelope.Error.Code, "System.UnauthorizedAccessException") {
			return fmt.Errorf("%w (%s)", ErrSiteAccessForbidden, message)
		}

		return fmt.Errorf("%w (%s)", ErrInsufficientPrivileges, message)
	}

	return fmt.Errorf("request failed with status %v (%s)", status, message)
}

// Hint returns the remediation guidance for a known authorization failure.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "check that SHAREPOINT_CLIENT_ID and SHAREPOINT_CLIENT_SECRET match the registered application"

	case errors.Is(err, ErrInsufficientPrivileges):
		return "check that Sites.ReadWrite.All is granted as an application permission (not delegated) and that admin consent has been given"

	case errors.Is(err, ErrSiteAccessForbidden):
		return "check that the application has been authorised against this specific site collection"
	}

	return ""
}

func drain(r io.Reader) []byte {
	bytes, _ := io.ReadAll(io.LimitReader(r, 64*1024))

	return bytes
}
