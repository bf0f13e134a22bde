// Package testutil holds shared fixtures for tests that need Postgres or Redis.
//
// Database tests skip unless a server answers at TEST_DB_HOST:TEST_DB_PORT.
// Set TEST_REQUIRE_DB (or TEST_REQUIRE_INFRA) in CI to fail instead.
package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	// Registers the pgx database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/tradedispatch/dispatch-api/internal/migrate"
)

// TestDBConfig locates the test Postgres server.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig reads TEST_DB_*; the port defaults to the docker-compose
// test profile (55432).
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     envOr("TEST_DB_HOST", "localhost"),
		Port:     envOr("TEST_DB_PORT", "55432"),
		User:     envOr("TEST_DB_USER", "dispatch"),
		Password: envOr("TEST_DB_PASSWORD", "dispatch"),
		DBName:   envOr("TEST_DB_NAME", "dispatch"),
	}
}

// DSN renders the config with optional extra query parameters.
func (c TestDBConfig) DSN(params url.Values) string {
	q := url.Values{"sslmode": {envOr("TEST_DB_SSL_MODE", "disable")}}
	for k, v := range params {
		q[k] = v
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// tablesInDeleteOrder lists tables children first so foreign keys never block a wipe.
var tablesInDeleteOrder = []string{
	"outreach_recipients",
	"work_order_outreach",
	"sla_alerts",
	"sla_timers",
	"cold_leads",
	"enrichment_targets",
	"leads",
	"outbound_replies",
	"technicians",
	"jobs",
}

// SetupTestDB connects to the shared test database, migrates it and wipes
// every table. The connection closes when the test ends.
func SetupTestDB(t testing.TB) *sql.DB {
	t.Helper()
	db := openDB(t, DefaultTestDBConfig().DSN(nil))
	migrateDB(t, db)
	wipe(t, db)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SetupEphemeralDB migrates a fresh schema that is dropped after the test.
// Tests using it can run in parallel with each other.
func SetupEphemeralDB(t testing.TB) *sql.DB {
	t.Helper()
	cfg := DefaultTestDBConfig()
	admin := openDB(t, cfg.DSN(nil))
	schema := schemaName()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		t.Fatalf("create schema %s: %v", schema, err)
	}

	db := openDB(t, cfg.DSN(url.Values{"search_path": {schema + ",public"}}))
	t.Cleanup(func() {
		_ = db.Close()
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dropCancel()
		if _, err := admin.ExecContext(dropCtx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		_ = admin.Close()
	})
	migrateDB(t, db)
	return db
}

// WithAutoDB runs fn against an ephemeral schema when TEST_DB_EPHEMERAL is
// set, otherwise against the shared database.
func WithAutoDB(t testing.TB, fn func(*sql.DB)) {
	t.Helper()
	if envBool("TEST_DB_EPHEMERAL") {
		fn(SetupEphemeralDB(t))
		return
	}
	fn(SetupTestDB(t))
}

// openDB skips, or fails under TEST_REQUIRE_DB, when the server is unreachable.
func openDB(t testing.TB, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", dsn)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err != nil {
			_ = db.Close()
		}
	}
	if err != nil {
		unavailable(t, requireDB(), "test database not available: %v", err)
	}
	return db
}

func migrateDB(t testing.TB, db *sql.DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrate.Run(ctx, db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
}

func wipe(t testing.TB, db *sql.DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, table := range tablesInDeleteOrder {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("wipe %s: %v", table, err)
		}
	}
}

func schemaName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "t_" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return "t_" + hex.EncodeToString(b)
}

// SetupTestRedis returns a client on a Redis DB reserved for this test.
// The address comes from REDIS_ADDR, else the first of redis:6379,
// localhost:6379 and localhost:56379 that answers.
func SetupTestRedis(t testing.TB) *redis.Client {
	t.Helper()
	addr := findRedis()
	if addr == "" {
		unavailable(t, requireRedis(), "redis not available for testing")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: reserveRedisDB(t, addr)})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush test redis db: %v", err)
	}
	return client
}

func findRedis() string {
	candidates := []string{"redis:6379", "localhost:6379", "localhost:56379"}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		candidates = []string{addr}
	}
	for _, addr := range candidates {
		if pingRedis(addr) {
			return addr
		}
	}
	return ""
}

func pingRedis(addr string) bool {
	c := redis.NewClient(&redis.Options{Addr: addr})
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return c.Ping(ctx).Err() == nil
}

// reserveRedisDB claims one of DBs 1..15 with a SETNX key in DB 0, so
// packages testing in parallel never flush each other's data. TEST_REDIS_DB
// pins the index.
func reserveRedisDB(t testing.TB, addr string) int {
	t.Helper()
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}

	meta := redis.NewClient(&redis.Options{Addr: addr})
	owner := strconv.Itoa(os.Getpid()) + ":" + strconv.FormatInt(time.Now().UnixNano(), 10)
	for i := 1; i <= 15; i++ {
		key := "dispatch:testutil:db_lock:" + strconv.Itoa(i)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		ok, err := meta.SetNX(ctx, key, owner, 30*time.Minute).Result()
		cancel()
		if err != nil || !ok {
			continue
		}
		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = meta.Del(ctx, key).Err()
			_ = meta.Close()
		})
		return i
	}
	_ = meta.Close()
	return 1
}

func unavailable(t testing.TB, required bool, format string, args ...any) {
	t.Helper()
	if required {
		t.Fatalf(format, args...)
	}
	t.Skipf(format, args...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// TestTime is the fixed clock reading shared by fixtures.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func StringPtr(s string) *string     { return &s }
func BoolPtr(b bool) *bool           { return &b }
func IntPtr(i int) *int              { return &i }
func TimePtr(t time.Time) *time.Time { return &t }
