// Package sendgrid delivers warm invitations and plain replies through the SendGrid v3 mail API.
package sendgrid

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/adapters/provider"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

const (
	providerName   = "sendgrid"
	defaultBaseURL = "https://api.sendgrid.com"
)

// Config configures the SendGrid client.
type Config struct {
	APIKey      string
	FromEmail   string
	FromName    string
	TemplateID  string
	BaseURL     string
	Timeout     time.Duration
	Client      *http.Client
	SandboxMode bool
	Categories  []string
}

// Client implements core.WarmMailer and core.PlainMailer.
type Client struct {
	cfg Config
	hc  *http.Client
}

// NewClient validates cfg and builds a client.
func NewClient(cfg Config) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.FromEmail = strings.TrimSpace(cfg.FromEmail)
	if cfg.APIKey == "" {
		return nil, errors.New("sendgrid api key is required")
	}
	if cfg.FromEmail == "" {
		return nil, errors.New("sendgrid from email is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, hc: provider.HTTPClient(cfg.Client, cfg.Timeout)}, nil
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To                  []address         `json:"to"`
	Subject             string            `json:"subject,omitempty"`
	DynamicTemplateData map[string]string `json:"dynamic_template_data,omitempty"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailSettings struct {
	SandboxMode struct {
		Enable bool `json:"enable"`
	} `json:"sandbox_mode"`
}

type mailSend struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	TemplateID       string            `json:"template_id,omitempty"`
	Content          []content         `json:"content,omitempty"`
	Categories       []string          `json:"categories,omitempty"`
	MailSettings     *mailSettings     `json:"mail_settings,omitempty"`
}

func (c *Client) base(p personalization) mailSend {
	m := mailSend{
		Personalizations: []personalization{p},
		From:             address{Email: c.cfg.FromEmail, Name: c.cfg.FromName},
		Categories:       c.cfg.Categories,
	}
	if c.cfg.SandboxMode {
		m.MailSettings = &mailSettings{}
		m.MailSettings.SandboxMode.Enable = true
	}
	return m
}

func (c *Client) post(ctx context.Context, body mailSend) error {
	return provider.DoJSON(ctx, c.hc, provider.Request{
		Provider: providerName,
		Method:   http.MethodPost,
		URL:      c.cfg.BaseURL + "/v3/mail/send",
		Headers:  map[string]string{"Authorization": "Bearer " + c.cfg.APIKey},
		Body:     body,
	}, nil)
}

// SendTemplate sends the dynamic invitation template to one recipient.
func (c *Client) SendTemplate(ctx context.Context, msg model.WarmEmail) error {
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("recipient email is required")
	}
	if c.cfg.TemplateID == "" {
		return errors.New("sendgrid template id is not configured")
	}
	body := c.base(personalization{
		To:                  []address{{Email: msg.To, Name: msg.TemplateData["technician_name"]}},
		DynamicTemplateData: msg.TemplateData,
	})
	body.TemplateID = c.cfg.TemplateID
	return c.post(ctx, body)
}

// Send sends a plain-text message.
func (c *Client) Send(ctx context.Context, msg model.PlainEmail) error {
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("recipient email is required")
	}
	body := c.base(personalization{To: []address{{Email: msg.To}}, Subject: msg.Subject})
	body.Content = []content{{Type: "text/plain", Value: msg.Body}}
	return c.post(ctx, body)
}
