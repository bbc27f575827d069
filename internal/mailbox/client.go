package mailbox

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	id "github.com/emersion/go-imap-id"
	"github.com/emersion/go-imap/client"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	// ErrConnectionFailed indicates the IMAP connection could not be established
	ErrConnectionFailed = errors.New("IMAP connection failed")
	// ErrLoginFailed indicates mailbox authentication failed
	ErrLoginFailed = errors.New("IMAP login failed")
	// ErrFolderNotFound indicates the target folder could not be selected
	ErrFolderNotFound = errors.New("IMAP folder not found")
)

// OAuth holds the Gmail XOAUTH2 credentials. Nil disables OAuth and the
// fetcher falls back to password (app-password) login.
type OAuth struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Options configures a Fetcher
type Options struct {
	Addr     string // host:port
	Host     string // bare host, for TLS SNI
	Folder   string
	Sender   string // server-side From filter
	Username string
	Password string
	OAuth    *OAuth
}

// Fetcher opens short-lived IMAP sessions against one mailbox. Every fetch
// is a full login/select/search/fetch/logout cycle; no connection is kept
// across calls.
type Fetcher struct {
	opts Options
}

// NewFetcher creates a new Fetcher instance
func NewFetcher(opts Options) *Fetcher {
	return &Fetcher{opts: opts}
}

// connect dials the server over TLS and authenticates. The caller owns the
// returned client and must Logout on every path.
func (f *Fetcher) connect(ctx context.Context) (*client.Client, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	tlsConfig := &tls.Config{ServerName: f.opts.Host}

	conn, err := tls.DialWithDialer(dialer, "tcp", f.opts.Addr, tlsConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	c, err := client.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	c.Timeout = 2 * time.Minute

	// Some providers require client identification before login
	if ok, _ := c.Support("ID"); ok {
		idClient := id.NewClient(c)
		if _, err := idClient.ID(id.ID{
			id.FieldName:    "etllm-pagbank",
			id.FieldVersion: "1.0.0",
		}); err != nil {
			// Not fatal, most servers don't insist on it
		}
	}

	if f.opts.OAuth != nil {
		accessToken, err := f.accessToken(ctx)
		if err != nil {
			c.Logout()
			return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
		}
		if err := c.Authenticate(NewXOAuth2Client(f.opts.Username, accessToken)); err != nil {
			c.Logout()
			return nil, fmt.Errorf("%w: XOAUTH2 authentication failed: %v", ErrLoginFailed, err)
		}
		return c, nil
	}

	if err := c.Login(f.opts.Username, f.opts.Password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	return c, nil
}

// accessToken exchanges the stored refresh token for a fresh access token
func (f *Fetcher) accessToken(ctx context.Context) (string, error) {
	conf := &oauth2.Config{
		ClientID:     f.opts.OAuth.ClientID,
		ClientSecret: f.opts.OAuth.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"https://mail.google.com/"},
	}

	token, err := conf.TokenSource(ctx, &oauth2.Token{
		RefreshToken: f.opts.OAuth.RefreshToken,
	}).Token()
	if err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

// XOAuth2Client implements the SASL XOAUTH2 mechanism
type XOAuth2Client struct {
	Username    string
	AccessToken string
}

// NewXOAuth2Client creates a new XOAUTH2 SASL client
func NewXOAuth2Client(username, accessToken string) *XOAuth2Client {
	return &XOAuth2Client{
		Username:    username,
		AccessToken: accessToken,
	}
}

// Start begins the XOAUTH2 authentication
func (c *XOAuth2Client) Start() (mech string, ir []byte, err error) {
	ir = []byte(fmt.Sprintf("user=%s\x01auth=Bearer %s\x01\x01", c.Username, c.AccessToken))
	return "XOAUTH2", ir, nil
}

// Next handles server challenges (XOAUTH2 doesn't have additional challenges)
func (c *XOAuth2Client) Next(challenge []byte) (response []byte, err error) {
	return nil, nil
}
