package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/browser"
	"github.com/pterm/pterm"
)

// browserTimeout bounds how long the callback listener waits for the
// operator to finish in the browser.
const browserTimeout = 5 * time.Minute

// PendingLogin is a browser login in flight: a loopback callback server
// plus a one-shot channel carrying the authorization code.
type PendingLogin struct {
	Url         string
	redirectUri string

	code   chan string
	server *http.Server
}

// StartBrowserLogin opens a loopback callback listener and returns the
// authorization URL to visit plus a handle to await the result on.
func (c *Client) StartBrowserLogin() (*PendingLogin, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	pending := &PendingLogin{
		redirectUri: fmt.Sprintf("http://%s/callback", listener.Addr().String()),
		code:        make(chan string, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		select {
		case pending.code <- r.URL.Query().Get("code"):
		default:
		}
		_, _ = fmt.Fprintln(w, "Login received, you can close this tab.")
	})

	pending.server = &http.Server{Handler: mux}
	go func() {
		if err := pending.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			pterm.Debug.Printfln("Callback server stopped: %s", err.Error())
		}
	}()

	query := url.Values{}
	query.Set("client_id", c.ClientId)
	query.Set("response_type", "code")
	query.Set("redirect_uri", pending.redirectUri)
	query.Set("scope", scopes)
	pending.Url = c.AuthorizeUrl + "?" + query.Encode()

	return pending, nil
}

// Await blocks until the callback delivers an authorization code, the
// context is cancelled, or the login times out.
func (p *PendingLogin) Await(ctx context.Context) (string, error) {
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = p.server.Shutdown(shutdownCtx)
	}()

	select {
	case code := <-p.code:
		if code == "" {
			return "", &LoginError{Reason: "empty authorization code"}
		}
		return code, nil
	case <-time.After(browserTimeout):
		return "", &LoginError{Reason: "browser login timed out"}
	case <-ctx.Done():
		return "", &LoginError{Reason: "cancelled"}
	}
}

// BrowserLogin runs the browser flow end to end: start the callback
// listener, open the system browser, await the code and exchange it.
func (c *Client) BrowserLogin(ctx context.Context) (Credentials, error) {
	pending, err := c.StartBrowserLogin()
	if err != nil {
		return Credentials{}, err
	}

	pterm.Info.Printfln("Opening browser for login, or visit %s", pending.Url)
	if err := browser.OpenURL(pending.Url); err != nil {
		pterm.Warning.Printfln("Could not open browser: %s", err.Error())
	}

	code, err := pending.Await(ctx)
	if err != nil {
		return Credentials{}, err
	}

	return c.tokenRequest(ctx, map[string]string{
		"client_id":    c.ClientId,
		"grant_type":   "authorization_code",
		"code":         code,
		"redirect_uri": pending.redirectUri,
		"scope":        scopes,
	})
}
