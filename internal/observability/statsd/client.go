// Package statsd emits DogStatsD metrics over UDP.
package statsd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Sink is the port services emit metrics through.
type Sink interface {
	Count(name string, value int64, tags map[string]string)
	Gauge(name string, value float64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

const (
	// maxPacketSize keeps datagrams under a typical 1500 byte MTU.
	maxPacketSize        = 1432
	queueSize            = 4096
	defaultFlushInterval = time.Second
)

// Config describes the StatsD endpoint.
type Config struct {
	Enabled       bool
	Address       string
	Prefix        string
	Logger        *slog.Logger
	GlobalTags    map[string]string
	FlushInterval time.Duration
}

// Client batches metric lines into packets and flushes them from one
// goroutine. Emitting never blocks; lines are dropped when the queue is full.
// A nil or disabled client drops everything.
type Client struct {
	prefix string
	tags   map[string]string
	logger *slog.Logger

	conn     net.Conn
	lines    chan string
	done     chan struct{}
	stopped  chan struct{}
	interval time.Duration
	dropped  atomic.Int64
	closing  sync.Once
	closeErr error
}

var _ Sink = (*Client)(nil)

// NewClient dials the endpoint and starts the flush loop. Without Enabled or
// an address it returns a client that drops everything.
func NewClient(cfg Config) (*Client, error) {
	address := strings.TrimSpace(cfg.Address)
	if !cfg.Enabled || address == "" {
		return &Client{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := (&net.Dialer{}).DialContext(ctx, "udp", address)
	if err != nil {
		return nil, fmt.Errorf("statsd dial %s: %w", address, err)
	}
	return newClient(conn, cfg), nil
}

func newClient(conn net.Conn, cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := cfg.FlushInterval
	if interval <= 0 {
		interval = defaultFlushInterval
	}
	c := &Client{
		prefix:   strings.Trim(strings.TrimSpace(cfg.Prefix), "."),
		tags:     cleanTags(cfg.GlobalTags),
		logger:   logger,
		conn:     conn,
		lines:    make(chan string, queueSize),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		interval: interval,
	}
	go c.loop()
	return c
}

// Enabled reports whether metrics reach a socket.
func (c *Client) Enabled() bool {
	return c != nil && c.conn != nil
}

// Dropped counts lines discarded because the queue was full.
func (c *Client) Dropped() int64 {
	if c == nil {
		return 0
	}
	return c.dropped.Load()
}

func (c *Client) Count(name string, value int64, tags map[string]string) {
	c.emit(name, strconv.FormatInt(value, 10), "c", tags)
}

func (c *Client) Gauge(name string, value float64, tags map[string]string) {
	c.emit(name, strconv.FormatFloat(value, 'f', -1, 64), "g", tags)
}

// Timing reports d in milliseconds.
func (c *Client) Timing(name string, d time.Duration, tags map[string]string) {
	c.emit(name, strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', -1, 64), "ms", tags)
}

// Close flushes queued lines and closes the socket. Safe to call twice.
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	c.closing.Do(func() {
		close(c.done)
		<-c.stopped
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *Client) emit(name, value, kind string, tags map[string]string) {
	if !c.Enabled() {
		return
	}
	line := c.format(name, value, kind, tags)
	if line == "" {
		return
	}
	select {
	case <-c.done:
	case c.lines <- line:
	default:
		c.dropped.Add(1)
	}
}

// format renders one DogStatsD line, or "" for a blank name.
func (c *Client) format(name, value, kind string, tags map[string]string) string {
	metric := metricName(c.prefix, name)
	if metric == "" {
		return ""
	}
	return metric + ":" + value + "|" + kind + tagSuffix(c.tags, tags)
}

func (c *Client) loop() {
	defer close(c.stopped)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	var buf bytes.Buffer
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		if _, err := c.conn.Write(buf.Bytes()); err != nil {
			c.logger.Debug("statsd write failed", "bytes", buf.Len(), "error", err)
		}
		buf.Reset()
	}
	add := func(line string) {
		if buf.Len() > 0 && buf.Len()+1+len(line) > maxPacketSize {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)
	}

	for {
		select {
		case line := <-c.lines:
			add(line)
		case <-ticker.C:
			flush()
		case <-c.done:
			for {
				select {
				case line := <-c.lines:
					add(line)
				default:
					flush()
					return
				}
			}
		}
	}
}

var nameReplacer = strings.NewReplacer(" ", "_", "/", "_", ":", "_", "|", "_", "@", "_")

// metricName joins prefix and name, collapsing empty segments.
func metricName(prefix, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	var parts []string
	for _, p := range strings.Split(prefix+"."+nameReplacer.Replace(name), ".") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

var tagReplacer = strings.NewReplacer(",", "_", "|", "_", "#", "_")

// tagSuffix merges global and per-call tags, per-call winning, sorted by key.
func tagSuffix(global, local map[string]string) string {
	merged := cleanTags(global)
	for k, v := range cleanTags(local) {
		merged[k] = v
	}
	if len(merged) == 0 {
		return ""
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("|#")
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		if v := merged[k]; v != "" {
			b.WriteByte(':')
			b.WriteString(v)
		}
	}
	return b.String()
}

func cleanTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		if key := strings.TrimSpace(k); key != "" {
			out[tagReplacer.Replace(key)] = tagReplacer.Replace(strings.TrimSpace(v))
		}
	}
	return out
}
