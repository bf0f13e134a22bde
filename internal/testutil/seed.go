package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"
)

// SeedJob inserts a job row and returns its id.
func SeedJob(t testing.TB, db *sql.DB, trade, urgency string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id string
	err := db.QueryRowContext(ctx, `
		INSERT INTO jobs (trade, urgency, description, address, city, state, zip, budget)
		VALUES ($1, $2, 'seeded job', '123 Main St', 'Austin', 'TX', '78701', 250)
		RETURNING id`, trade, urgency).Scan(&id)
	if err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return id
}

// TechnicianSeed describes a technician row.
type TechnicianSeed struct {
	Name     string
	Email    *string
	SignedUp *bool
	Trade    string
	State    string
}

// SeedTechnician inserts a technician row and returns its id.
func SeedTechnician(t testing.TB, db *sql.DB, seed TechnicianSeed) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if seed.State == "" {
		seed.State = "TX"
	}
	var id string
	err := db.QueryRowContext(ctx, `
		INSERT INTO technicians (name, email, signed_up, trade, state)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`, seed.Name, seed.Email, seed.SignedUp, seed.Trade, seed.State).Scan(&id)
	if err != nil {
		t.Fatalf("seed technician: %v", err)
	}
	return id
}

// SeedEnrichmentTarget inserts a pending enrichment target and returns its id.
func SeedEnrichmentTarget(t testing.TB, db *sql.DB, business, website, trade string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id string
	err := db.QueryRowContext(ctx, `
		INSERT INTO enrichment_targets (business_name, contact_name, website, trade)
		VALUES ($1, 'Pat Owner', NULLIF($2, ''), $3)
		RETURNING id`, business, website, trade).Scan(&id)
	if err != nil {
		t.Fatalf("seed enrichment target: %v", err)
	}
	return id
}

// SeedReply inserts a pending outbound reply and returns its id.
func SeedReply(t testing.TB, db *sql.DB, to string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id string
	err := db.QueryRowContext(ctx, `
		INSERT INTO outbound_replies (to_email, subject, body)
		VALUES ($1, 'Re: your job', 'Thanks, we are on it.')
		RETURNING id`, to).Scan(&id)
	if err != nil {
		t.Fatalf("seed reply: %v", err)
	}
	return id
}
