// Package hunter implements email discovery and verification against the Hunter.io v2 API.
package hunter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tradedispatch/dispatch-api/internal/adapters/provider"
	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

const (
	providerName   = "hunter"
	defaultBaseURL = "https://api.hunter.io"
)

// Config configures the Hunter client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
	// RequestsPerSecond throttles calls; Hunter allows 15/s on paid plans.
	RequestsPerSecond float64
	Burst             int
}

// Client implements core.EmailIntel.
type Client struct {
	apiKey  string
	baseURL string
	hc      *http.Client
	limiter *rate.Limiter
}

var _ core.EmailIntel = (*Client)(nil)

// NewClient validates cfg and builds a client.
func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errors.New("hunter api key is required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		apiKey:  key,
		baseURL: base,
		hc:      provider.HTTPClient(cfg.Client, cfg.Timeout),
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("hunter rate limiter: %w", err)
	}
	q.Set("api_key", c.apiKey)
	return provider.DoJSON(ctx, c.hc, provider.Request{
		Provider: providerName,
		Method:   http.MethodGet,
		URL:      c.baseURL + path + "?" + q.Encode(),
	}, out)
}

type finderResponse struct {
	Data struct {
		Email     *string `json:"email"`
		Score     *int    `json:"score"`
		FirstName string  `json:"first_name"`
		LastName  string  `json:"last_name"`
		Position  *string `json:"position"`
	} `json:"data"`
}

// FindEmail looks up one person. A 404 or an empty email means not found.
func (c *Client) FindEmail(ctx context.Context, q core.FindEmailQuery) (*model.EmailCandidate, error) {
	if q.Domain == "" && q.Company == "" {
		return nil, errors.New("domain or company is required")
	}
	params := url.Values{}
	setIf(params, "domain", q.Domain)
	setIf(params, "company", q.Company)
	setIf(params, "first_name", q.FirstName)
	setIf(params, "last_name", q.LastName)

	var resp finderResponse
	if err := c.get(ctx, "/v2/email-finder", params, &resp); err != nil {
		if provider.IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if resp.Data.Email == nil || *resp.Data.Email == "" {
		return nil, nil
	}
	cand := &model.EmailCandidate{
		Value:     *resp.Data.Email,
		FirstName: resp.Data.FirstName,
		LastName:  resp.Data.LastName,
	}
	if resp.Data.Score != nil {
		cand.Confidence = *resp.Data.Score
	}
	if resp.Data.Position != nil {
		cand.Position = *resp.Data.Position
	}
	return cand, nil
}

type domainResponse struct {
	Data struct {
		Emails []struct {
			Value      string  `json:"value"`
			Confidence int     `json:"confidence"`
			FirstName  *string `json:"first_name"`
			LastName   *string `json:"last_name"`
			Position   *string `json:"position"`
		} `json:"emails"`
	} `json:"data"`
}

// SearchDomain lists addresses Hunter knows for an organisation.
func (c *Client) SearchDomain(ctx context.Context, q core.DomainSearchQuery) ([]model.EmailCandidate, error) {
	if q.Domain == "" && q.Company == "" {
		return nil, errors.New("domain or company is required")
	}
	params := url.Values{}
	setIf(params, "domain", q.Domain)
	setIf(params, "company", q.Company)
	if q.Limit > 0 {
		params.Set("limit", fmt.Sprint(q.Limit))
	}

	var resp domainResponse
	if err := c.get(ctx, "/v2/domain-search", params, &resp); err != nil {
		return nil, err
	}
	out := make([]model.EmailCandidate, 0, len(resp.Data.Emails))
	for _, e := range resp.Data.Emails {
		out = append(out, model.EmailCandidate{
			Value:      e.Value,
			Confidence: e.Confidence,
			FirstName:  deref(e.FirstName),
			LastName:   deref(e.LastName),
			Position:   deref(e.Position),
		})
	}
	return out, nil
}

type verifyResponse struct {
	Data struct {
		Email  string `json:"email"`
		Status string `json:"status"`
		Score  int    `json:"score"`
	} `json:"data"`
}

// VerifyEmail checks deliverability of one address.
func (c *Client) VerifyEmail(ctx context.Context, email string) (*model.EmailVerification, error) {
	if strings.TrimSpace(email) == "" {
		return nil, errors.New("email is required")
	}
	var resp verifyResponse
	if err := c.get(ctx, "/v2/email-verifier", url.Values{"email": {email}}, &resp); err != nil {
		return nil, err
	}
	status := model.VerificationStatus(resp.Data.Status)
	switch status {
	case model.VerificationValid, model.VerificationInvalid, model.VerificationAcceptAll,
		model.VerificationWebmail, model.VerificationDisposable:
	default:
		status = model.VerificationUnknown
	}
	return &model.EmailVerification{Email: email, Status: status, Score: resp.Data.Score}, nil
}

type usage struct {
	Used      int `json:"used"`
	Available int `json:"available"`
}

type accountResponse struct {
	Data struct {
		PlanName string `json:"plan_name"`
		Requests struct {
			Searches      usage `json:"searches"`
			Verifications usage `json:"verifications"`
		} `json:"requests"`
	} `json:"data"`
}

// Account reports remaining search and verification credits.
func (c *Client) Account(ctx context.Context) (*model.AccountInfo, error) {
	var resp accountResponse
	if err := c.get(ctx, "/v2/account", url.Values{}, &resp); err != nil {
		return nil, err
	}
	r := resp.Data.Requests
	return &model.AccountInfo{
		Plan:              resp.Data.PlanName,
		SearchesAvailable: max(0, r.Searches.Available-r.Searches.Used),
		VerifyAvailable:   max(0, r.Verifications.Available-r.Verifications.Used),
	}, nil
}

func setIf(v url.Values, key, val string) {
	if s := strings.TrimSpace(val); s != "" {
		v.Set(key, s)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
