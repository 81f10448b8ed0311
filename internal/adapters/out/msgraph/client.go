// Package msgraph delivers email through the Microsoft Graph sendMail API
// using an app-only token obtained with the OAuth2 client-credentials grant.
package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"careplan/internal/core/ports"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultGraphURL  = "https://graph.microsoft.com"
	DefaultLoginURL  = "https://login.microsoftonline.com"
	DefaultSender    = "noreply@ygp.au"
	DefaultTimeout   = 15 * time.Second
	graphScope       = "https://graph.microsoft.com/.default"
	maxErrorBodySize = 64 << 10
)

var (
	// ErrMailNotConfigured is returned by AcquireCredential when the tenant, client id or secret is missing.
	ErrMailNotConfigured = errors.New(
		"MS365 credentials not configured: set MS365_TENANT_ID, MS365_CLIENT_ID and MS365_CLIENT_SECRET",
	)
	ErrMissingCredential = errors.New("mail credential has no access token")
)

// DeliveryError is a non-2xx answer from sendMail.
type DeliveryError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *DeliveryError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("graph sendMail failed with status %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("graph sendMail failed with status %d: %s", e.StatusCode, e.Message)
}

type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Sender       string
	// GraphURL and LoginURL default to the public Microsoft endpoints.
	GraphURL string
	LoginURL string
	Timeout  time.Duration
}

func (c Config) configured() bool {
	return strings.TrimSpace(c.TenantID) != "" &&
		strings.TrimSpace(c.ClientID) != "" &&
		strings.TrimSpace(c.ClientSecret) != ""
}

// Client implements ports.MailClient.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Sender == "" {
		cfg.Sender = DefaultSender
	}
	if cfg.GraphURL == "" {
		cfg.GraphURL = DefaultGraphURL
	}
	if cfg.LoginURL == "" {
		cfg.LoginURL = DefaultLoginURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("component", "msgraph"),
	}
}

// AcquireCredential fetches an app-only Graph token.
func (c *Client) AcquireCredential(ctx context.Context) (ports.Credential, error) {
	if !c.cfg.configured() {
		return ports.Credential{}, ErrMailNotConfigured
	}

	cc := clientcredentials.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", strings.TrimRight(c.cfg.LoginURL, "/"), url.PathEscape(c.cfg.TenantID)),
		Scopes:       []string{graphScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	token, err := cc.Token(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient))
	if err != nil {
		return ports.Credential{}, fmt.Errorf("failed to get access token: %w", err)
	}

	c.logger.DebugContext(ctx, "Acquired Graph access token", "expires_at", token.Expiry)
	return ports.Credential{AccessToken: token.AccessToken, ExpiresAt: token.Expiry}, nil
}

type sendMailRequest struct {
	Message         graphMessage `json:"message"`
	SaveToSentItems bool         `json:"saveToSentItems"`
}

type graphMessage struct {
	Subject      string           `json:"subject"`
	Body         graphBody        `json:"body"`
	ToRecipients []graphRecipient `json:"toRecipients"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphRecipient struct {
	EmailAddress graphAddress `json:"emailAddress"`
}

type graphAddress struct {
	Address string `json:"address"`
}

type graphErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Send posts one HTML message from the configured sender mailbox.
func (c *Client) Send(ctx context.Context, cred ports.Credential, msg ports.Message) error {
	if cred.IsZero() {
		return ErrMissingCredential
	}

	payload, err := json.Marshal(sendMailRequest{
		Message: graphMessage{
			Subject: msg.Subject,
			Body:    graphBody{ContentType: "HTML", Content: msg.HTML},
			ToRecipients: []graphRecipient{
				{EmailAddress: graphAddress{Address: msg.To}},
			},
		},
		SaveToSentItems: false,
	})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/v1.0/users/%s/sendMail", strings.TrimRight(c.cfg.GraphURL, "/"), url.PathEscape(c.cfg.Sender))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	authorized := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, c.httpClient),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cred.AccessToken, TokenType: "Bearer"}),
	)
	resp, err := authorized.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	return decodeDeliveryError(resp)
}

func decodeDeliveryError(resp *http.Response) error {
	deliveryErr := &DeliveryError{StatusCode: resp.StatusCode, Message: "Failed to send email"}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return deliveryErr
	}

	var parsed graphErrorResponse
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		deliveryErr.Code = parsed.Error.Code
		deliveryErr.Message = parsed.Error.Message
	}

	return deliveryErr
}
