package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pterm/pterm"
)

const (
	DefaultClientId = "00000000-0000-0000-0000-000000000000"

	deviceCodeUrl = "https://login.microsoftonline.com/consumers/oauth2/v2.0/devicecode"
	tokenUrl      = "https://login.microsoftonline.com/consumers/oauth2/v2.0/token"
	authorizeUrl  = "https://login.microsoftonline.com/consumers/oauth2/v2.0/authorize"
	profileUrl    = "https://api.minecraftservices.com/minecraft/profile"

	scopes = "XboxLive.signin offline_access"
)

// Credentials is the cached session, written wholesale to the credential
// file. Tokens are opaque to the rest of the program.
type Credentials struct {
	Id           string    `json:"id"`
	Username     string    `json:"username"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Expires      time.Time `json:"expires"`
}

// LoginError reports an interactive login that could not complete.
type LoginError struct {
	Reason string
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login error: %s", e.Reason)
}

// Client drives the OAuth exchange against the auth service. Endpoint
// fields exist so tests can point it at a fixture server.
type Client struct {
	rest     *resty.Client
	path     string
	ClientId string

	DeviceCodeUrl string
	TokenUrl      string
	AuthorizeUrl  string
	ProfileUrl    string
}

func NewClient(rest *resty.Client, credentialsPath string) *Client {
	return &Client{
		rest:          rest,
		path:          credentialsPath,
		ClientId:      DefaultClientId,
		DeviceCodeUrl: deviceCodeUrl,
		TokenUrl:      tokenUrl,
		AuthorizeUrl:  authorizeUrl,
		ProfileUrl:    profileUrl,
	}
}

// Connect returns a valid session. A readable credential file is refreshed
// in place; any failure on that path falls through to an interactive login
// instead of aborting.
func (c *Client) Connect(ctx context.Context, useBrowser bool) (Credentials, error) {
	if creds, err := c.load(); err == nil {
		refreshed, err := c.Refresh(ctx, creds)
		if err == nil {
			return refreshed, nil
		}
		pterm.Debug.Printfln("Credential refresh failed: %s", err.Error())
	}

	var creds Credentials
	var err error
	if useBrowser {
		creds, err = c.BrowserLogin(ctx)
	} else {
		creds, err = c.DeviceCodeLogin(ctx)
	}
	if err != nil {
		return Credentials{}, err
	}

	if err := c.save(creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// Refresh exchanges the refresh token for a fresh session and persists it.
func (c *Client) Refresh(ctx context.Context, creds Credentials) (Credentials, error) {
	refreshed, err := c.tokenRequest(ctx, map[string]string{
		"client_id":     c.ClientId,
		"grant_type":    "refresh_token",
		"refresh_token": creds.RefreshToken,
		"scope":         scopes,
	})
	if err != nil {
		return Credentials{}, err
	}

	if err := c.save(refreshed); err != nil {
		return Credentials{}, err
	}
	return refreshed, nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Error        string `json:"error"`
	Description  string `json:"error_description"`
}

type profileResponse struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

func (c *Client) tokenRequest(ctx context.Context, form map[string]string) (Credentials, error) {
	var token tokenResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&token).
		SetError(&token).
		Post(c.TokenUrl)
	if err != nil {
		return Credentials{}, err
	}
	if resp.IsError() || token.Error != "" {
		return Credentials{}, &LoginError{Reason: fmt.Sprintf("%s: %s", resp.Status(), token.Error)}
	}

	profile, err := c.fetchProfile(ctx, token.AccessToken)
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{
		Id:           profile.Id,
		Username:     profile.Name,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expires:      time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
	}, nil
}

func (c *Client) fetchProfile(ctx context.Context, accessToken string) (profileResponse, error) {
	var profile profileResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&profile).
		Get(c.ProfileUrl)
	if err != nil {
		return profileResponse{}, err
	}
	if resp.IsError() {
		return profileResponse{}, &LoginError{Reason: fmt.Sprintf("profile lookup returned %s", resp.Status())}
	}
	return profile, nil
}

func (c *Client) load() (Credentials, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return Credentials{}, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

func (c *Client) save(creds Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0600)
}
