package devseed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// SQLTarget writes fixtures straight into Postgres. Rows that already exist are left alone.
type SQLTarget struct {
	DB *sql.DB
}

var _ Target = (*SQLTarget)(nil)

// NewSQLTarget returns a Target backed by db.
func NewSQLTarget(db *sql.DB) *SQLTarget {
	return &SQLTarget{DB: db}
}

func (t *SQLTarget) exec(ctx context.Context, what, id, query string, args ...any) (string, error) {
	if _, err := t.DB.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert %s %s: %w", what, id, err)
	}
	return id, nil
}

// AddJob inserts job unless its id is already present.
func (t *SQLTarget) AddJob(ctx context.Context, job model.Job) (string, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	return t.exec(ctx, "job", job.ID, `
		INSERT INTO jobs (id, trade, urgency, description, raw_text, address, city, state, zip,
			latitude, longitude, budget, scheduled_for)
		VALUES ($1, $2, COALESCE(NULLIF($3, ''), 'standard'), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING`,
		job.ID, job.Trade, job.Urgency, job.Description, job.RawText, job.Address, job.City, job.State, job.Zip,
		job.Latitude, job.Longitude, job.Budget, job.ScheduledFor)
}

// AddTechnician inserts tech unless its id is already present.
func (t *SQLTarget) AddTechnician(ctx context.Context, tech model.Technician) (string, error) {
	if tech.ID == "" {
		tech.ID = uuid.NewString()
	}
	radius := tech.RadiusMi
	if radius <= 0 {
		radius = 50
	}
	return t.exec(ctx, "technician", tech.ID, `
		INSERT INTO technicians (id, name, email, signed_up, trade, city, state, latitude, longitude, service_radius_mi)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`,
		tech.ID, tech.Name, tech.Email, tech.SignedUp, tech.Trade, tech.City, tech.State,
		tech.Latitude, tech.Longitude, radius)
}

// AddTarget inserts an enrichment target unless its id is already present.
func (t *SQLTarget) AddTarget(ctx context.Context, target model.EnrichmentTarget) (string, error) {
	if target.ID == "" {
		target.ID = uuid.NewString()
	}
	return t.exec(ctx, "enrichment target", target.ID, `
		INSERT INTO enrichment_targets (id, business_name, contact_name, website, trade)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		target.ID, target.BusinessName, target.ContactName, target.Website, target.Trade)
}

// AddReply inserts a pending reply unless its id is already present.
func (t *SQLTarget) AddReply(ctx context.Context, reply model.OutboundReply) (string, error) {
	if reply.ID == "" {
		reply.ID = uuid.NewString()
	}
	return t.exec(ctx, "reply", reply.ID, `
		INSERT INTO outbound_replies (id, to_email, subject, body)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`,
		reply.ID, reply.ToEmail, reply.Subject, reply.Body)
}
