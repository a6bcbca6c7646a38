package auth

import (
	"context"
	"time"

	"github.com/pterm/pterm"
)

// DeviceCode is the auth service's response to a device authorization
// request.
type DeviceCode struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationUri string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// DeviceCodeLogin runs the device-code flow: request a code, show the
// verification URL and user code to the operator, then poll the token
// endpoint until the out-of-band authorization completes.
func (c *Client) DeviceCodeLogin(ctx context.Context) (Credentials, error) {
	code, err := c.RequestDeviceCode(ctx)
	if err != nil {
		return Credentials{}, err
	}

	pterm.Warning.Printfln("No account was found, please go to %s and enter the code %s", code.VerificationUri, code.UserCode)

	return c.AwaitDeviceCode(ctx, code)
}

func (c *Client) RequestDeviceCode(ctx context.Context) (DeviceCode, error) {
	var code DeviceCode
	resp, err := c.rest.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id": c.ClientId,
			"scope":     scopes,
		}).
		SetResult(&code).
		Post(c.DeviceCodeUrl)
	if err != nil {
		return DeviceCode{}, err
	}
	if resp.IsError() {
		return DeviceCode{}, &LoginError{Reason: "device code request returned " + resp.Status()}
	}
	return code, nil
}

// AwaitDeviceCode polls the token endpoint at the service-declared
// interval. "authorization_pending" and "slow_down" keep the poll going,
// anything else ends the flow.
func (c *Client) AwaitDeviceCode(ctx context.Context, code DeviceCode) (Credentials, error) {
	interval := time.Duration(code.Interval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}

	deadline := time.Now().Add(time.Duration(code.ExpiresIn) * time.Second)

	for {
		var token tokenResponse
		resp, err := c.rest.R().
			SetContext(ctx).
			SetFormData(map[string]string{
				"client_id":   c.ClientId,
				"grant_type":  "urn:ietf:params:oauth:grant-type:device_code",
				"device_code": code.DeviceCode,
			}).
			SetResult(&token).
			SetError(&token).
			Post(c.TokenUrl)
		if err != nil {
			return Credentials{}, err
		}

		switch {
		case !resp.IsError() && token.AccessToken != "":
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
		case token.Error == "authorization_pending" || token.Error == "slow_down":
			if token.Error == "slow_down" {
				interval += 5 * time.Second
			}
		default:
			return Credentials{}, &LoginError{Reason: token.Error}
		}

		if time.Now().After(deadline) {
			return Credentials{}, &LoginError{Reason: "device code expired"}
		}

		select {
		case <-ctx.Done():
			return Credentials{}, &LoginError{Reason: "cancelled"}
		case <-time.After(interval):
		}
	}
}
