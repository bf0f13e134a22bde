// Package slack posts SLA alerts to a Slack incoming webhook as Block Kit messages.
package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/observability/notify"
)

// Config configures the webhook sink.
type Config struct {
	WebhookURL string
	Channel    string
	Username   string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
	// JobURLPrefix turns job ids into links when it is an absolute URL.
	JobURLPrefix string
}

// Client delivers SLA alerts to one webhook.
type Client struct {
	webhookURL string
	channel    string
	username   string
	jobBase    *url.URL
	poster     *notify.Poster
}

// NewClient requires a webhook URL.
func NewClient(cfg Config) (*Client, error) {
	hook := strings.TrimSpace(cfg.WebhookURL)
	if hook == "" {
		return nil, errors.New("slack webhook url is required")
	}
	return &Client{
		webhookURL: hook,
		channel:    strings.TrimSpace(cfg.Channel),
		username:   notify.Or(strings.TrimSpace(cfg.Username), "dispatch-api"),
		jobBase:    absoluteURL(cfg.JobURLPrefix),
		poster:     notify.NewPoster("slack", cfg.Client, cfg.Timeout, cfg.RetryLimit),
	}, nil
}

// SendSLAAlert posts warnings and breaches alike.
func (c *Client) SendSLAAlert(ctx context.Context, payload notify.SLAAlertPayload) error {
	return c.poster.PostJSON(ctx, c.webhookURL, c.buildMessage(payload))
}

type message struct {
	Channel  string  `json:"channel,omitempty"`
	Username string  `json:"username,omitempty"`
	Text     string  `json:"text"`
	Blocks   []block `json:"blocks"`
}

type block struct {
	Type     string   `json:"type"`
	Text     *mrkdwn  `json:"text,omitempty"`
	Fields   []mrkdwn `json:"fields,omitempty"`
	Elements []mrkdwn `json:"elements,omitempty"`
}

type mrkdwn struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func md(s string) mrkdwn { return mrkdwn{Type: "mrkdwn", Text: s} }

// buildMessage renders the alert. Text carries the headline for clients that
// cannot show blocks.
func (c *Client) buildMessage(p notify.SLAAlertPayload) message {
	headline := headline(p)
	blocks := []block{{Type: "section", Text: ptr(md(headline))}}

	var fields []mrkdwn
	addField := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fields = append(fields, md("*"+label+"*\n"+value))
		}
	}
	addField("Severity", notify.Or(p.Severity, notify.SeverityCritical))
	addField("Job", c.jobLabel(p.JobID, p.Location))
	if p.TargetMinutes > 0 {
		addField("Budget", fmt.Sprintf("%d min", p.TargetMinutes))
	}
	if p.Elapsed > 0 {
		addField("Elapsed", fmt.Sprintf("%d min", int(p.Elapsed.Minutes())))
	}
	if len(fields) > 0 {
		blocks = append(blocks, block{Type: "section", Fields: fields})
	}
	if msg := strings.TrimSpace(p.Message); msg != "" {
		blocks = append(blocks, block{Type: "section", Text: ptr(md(escape(msg)))})
	}

	at := p.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}
	ctxLine := append(metadataLines(p.Metadata), md("<!date^"+fmt.Sprint(at.Unix())+"^{date_short_pretty} {time}|"+at.UTC().Format(time.RFC3339)+">"))
	blocks = append(blocks, block{Type: "context", Elements: ctxLine})

	return message{Channel: c.channel, Username: c.username, Text: headline, Blocks: blocks}
}

func headline(p notify.SLAAlertPayload) string {
	var b strings.Builder
	if p.AlertType == "breach" {
		b.WriteString("*SLA breach*")
	} else {
		b.WriteString("*SLA warning*")
	}
	if p.Stage != "" {
		b.WriteString(" `" + p.Stage + "`")
	}
	if p.Trade != "" {
		b.WriteString(" (" + escape(p.Trade) + ")")
	}
	return b.String()
}

// jobLabel renders the job id, linked when a base URL is set, and the location.
func (c *Client) jobLabel(jobID, location string) string {
	id := strings.TrimSpace(jobID)
	loc := escape(strings.TrimSpace(location))

	label := escape(id)
	if id != "" && c.jobBase != nil {
		label = "<" + c.jobBase.JoinPath(id).String() + "|" + label + ">"
	}
	switch {
	case label == "":
		return loc
	case loc == "":
		return label
	default:
		return label + " (" + loc + ")"
	}
}

func metadataLines(meta map[string]string) []mrkdwn {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]mrkdwn, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, md(escape(k)+": "+escape(meta[k])))
	}
	return out
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string { return escaper.Replace(s) }

func absoluteURL(raw string) *url.URL {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil
	}
	return u
}

func ptr[T any](v T) *T { return &v }
