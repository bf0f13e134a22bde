// Package instantly pushes cold leads into Instantly outbound campaigns.
package instantly

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
	providerName   = "instantly"
	defaultBaseURL = "https://api.instantly.ai"
)

// Config configures the Instantly client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
	// SkipIfInWorkspace leaves contacts already present in any campaign untouched.
	SkipIfInWorkspace bool
}

// Client implements core.ColdOutreach.
type Client struct {
	apiKey   string
	baseURL  string
	skipDupe bool
	hc       *http.Client
}

// NewClient validates cfg and builds a client.
func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errors.New("instantly api key is required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		apiKey:   key,
		baseURL:  base,
		skipDupe: cfg.SkipIfInWorkspace,
		hc:       provider.HTTPClient(cfg.Client, cfg.Timeout),
	}, nil
}

type leadBody struct {
	Campaign          string            `json:"campaign"`
	Email             string            `json:"email"`
	FirstName         string            `json:"first_name,omitempty"`
	LastName          string            `json:"last_name,omitempty"`
	CompanyName       string            `json:"company_name,omitempty"`
	CustomVariables   map[string]string `json:"custom_variables,omitempty"`
	SkipIfInWorkspace bool              `json:"skip_if_in_workspace,omitempty"`
}

// AddLead adds one contact to a campaign.
func (c *Client) AddLead(ctx context.Context, lead model.ColdLeadPush) error {
	if strings.TrimSpace(lead.CampaignID) == "" {
		return errors.New("campaign id is required")
	}
	if strings.TrimSpace(lead.Email) == "" {
		return errors.New("lead email is required")
	}
	return provider.DoJSON(ctx, c.hc, provider.Request{
		Provider: providerName,
		Method:   http.MethodPost,
		URL:      c.baseURL + "/api/v2/leads",
		Headers:  map[string]string{"Authorization": "Bearer " + c.apiKey},
		Body: leadBody{
			Campaign:          lead.CampaignID,
			Email:             lead.Email,
			FirstName:         lead.FirstName,
			LastName:          lead.LastName,
			CompanyName:       lead.CompanyName,
			CustomVariables:   lead.CustomFields,
			SkipIfInWorkspace: c.skipDupe,
		},
	}, nil)
}
