package hunter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/tradedispatch/dispatch-api/internal/adapters/provider"
	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

func newTestClient(t *testing.T, routes map[string]string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "hk", r.URL.Query().Get("api_key"))
		body, ok := routes[r.URL.Path]
		if !ok {
			http.Error(w, `{"errors":[{"id":"not_found"}]}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{APIKey: "hk", BaseURL: srv.URL, Client: srv.Client(), RequestsPerSecond: 1000, Burst: 10})
	require.NoError(t, err)
	return c
}

func TestFindEmail(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"/v2/email-finder": `{"data":{"email":"pat@coolair.com","score":92,"first_name":"Pat","last_name":"Owner","position":null}}`,
	})

	cand, err := c.FindEmail(context.Background(), core.FindEmailQuery{Domain: "coolair.com", FirstName: "Pat", LastName: "Owner"})
	require.NoError(t, err)
	require.NotNil(t, cand)
	assert.Equal(t, model.EmailCandidate{Value: "pat@coolair.com", Confidence: 92, FirstName: "Pat", LastName: "Owner"}, *cand)

	_, err = c.FindEmail(context.Background(), core.FindEmailQuery{FirstName: "Pat"})
	require.Error(t, err)
}

func TestFindEmailNotFound(t *testing.T) {
	t.Run("null email", func(t *testing.T) {
		c := newTestClient(t, map[string]string{"/v2/email-finder": `{"data":{"email":null,"score":null}}`})
		cand, err := c.FindEmail(context.Background(), core.FindEmailQuery{Company: "Nobody Inc"})
		require.NoError(t, err)
		assert.Nil(t, cand)
	})
	t.Run("404", func(t *testing.T) {
		c := newTestClient(t, map[string]string{})
		cand, err := c.FindEmail(context.Background(), core.FindEmailQuery{Domain: "nobody.com"})
		require.NoError(t, err)
		assert.Nil(t, cand)
	})
}

func TestSearchDomain(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"/v2/domain-search": `{"data":{"emails":[
			{"value":"info@coolair.com","confidence":60,"first_name":null},
			{"value":"pat@coolair.com","confidence":94,"first_name":"Pat","last_name":"Owner","position":"Owner"}
		]}}`,
	})
	cands, err := c.SearchDomain(context.Background(), core.DomainSearchQuery{Domain: "coolair.com", Limit: 5})
	require.NoError(t, err)
	require.Len(t, cands, 2)
	best, ok := model.BestCandidate(cands)
	require.True(t, ok)
	assert.Equal(t, "pat@coolair.com", best.Value)
	assert.Equal(t, "Owner", best.Position)
}

func TestVerifyEmail(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"/v2/email-verifier": `{"data":{"email":"pat@coolair.com","status":"valid","result":"deliverable","score":97}}`,
	})
	v, err := c.VerifyEmail(context.Background(), "pat@coolair.com")
	require.NoError(t, err)
	assert.True(t, v.Deliverable())
	assert.Equal(t, 97, v.Score)

	c = newTestClient(t, map[string]string{"/v2/email-verifier": `{"data":{"status":"gibberish"}}`})
	v, err = c.VerifyEmail(context.Background(), "x@y.z")
	require.NoError(t, err)
	assert.Equal(t, model.VerificationUnknown, v.Status)
}

func TestAccount(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"/v2/account": `{"data":{"plan_name":"Starter","requests":{
			"searches":{"used":480,"available":500},
			"verifications":{"used":1200,"available":1000}}}}`,
	})
	info, err := c.Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.AccountInfo{Plan: "Starter", SearchesAvailable: 20, VerifyAvailable: 0}, *info)
}

func TestRateLimiterHonoursContext(t *testing.T) {
	c := newTestClient(t, map[string]string{"/v2/account": `{"data":{}}`})
	c.limiter = rate.NewLimiter(rate.Limit(0.001), 1)
	_, err := c.Account(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Account(ctx)
	require.Error(t, err)
	assert.False(t, provider.IsStatus(err, http.StatusTooManyRequests))
}
