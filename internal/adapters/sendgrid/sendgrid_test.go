package sendgrid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedispatch/dispatch-api/internal/adapters/provider"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{
		APIKey: "SG.key", FromEmail: "jobs@dispatch.test", FromName: "Dispatch",
		TemplateID: "d-123", BaseURL: srv.URL, Client: srv.Client(),
	})
	require.NoError(t, err)
	return c
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{FromEmail: "a@b.c"})
	require.Error(t, err)
	_, err = NewClient(Config{APIKey: "k"})
	require.Error(t, err)
}

func TestSendTemplate(t *testing.T) {
	var got mailSend
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer SG.key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	})

	err := c.SendTemplate(context.Background(), model.WarmEmail{
		To:           "tech@example.com",
		TemplateData: map[string]string{"technician_name": "Ana", "job_id": "job-123"},
	})
	require.NoError(t, err)
	assert.Equal(t, "d-123", got.TemplateID)
	require.Len(t, got.Personalizations, 1)
	assert.Equal(t, "tech@example.com", got.Personalizations[0].To[0].Email)
	assert.Equal(t, "Ana", got.Personalizations[0].To[0].Name)
	assert.Equal(t, "job-123", got.Personalizations[0].DynamicTemplateData["job_id"])
	assert.Equal(t, "jobs@dispatch.test", got.From.Email)
	assert.Nil(t, got.MailSettings)
}

func TestSendPlain(t *testing.T) {
	var got mailSend
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	})

	err := c.Send(context.Background(), model.PlainEmail{To: "c@example.com", Subject: "Re: job", Body: "On our way"})
	require.NoError(t, err)
	assert.Empty(t, got.TemplateID)
	assert.Equal(t, "Re: job", got.Personalizations[0].Subject)
	require.Len(t, got.Content, 1)
	assert.Equal(t, "On our way", got.Content[0].Value)
}

func TestSendErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errors":[{"message":"forbidden"}]}`, http.StatusForbidden)
	})

	err := c.SendTemplate(context.Background(), model.WarmEmail{To: "tech@example.com"})
	require.Error(t, err)
	assert.True(t, provider.IsStatus(err, http.StatusForbidden))

	require.Error(t, c.Send(context.Background(), model.PlainEmail{}))
}
