package bootstrap

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/tradedispatch/dispatch-api/internal/adapters/memstore"
	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/data"
	"github.com/tradedispatch/dispatch-api/internal/devseed"
)

// Repositories groups the stores backing service ports; no business rules here.
type Repositories struct {
	Jobs       core.JobRepository
	SLA        core.SLARepository
	Outreach   core.OutreachRepository
	Enrichment core.EnrichmentRepository
	Leads      core.LeadRepository
	Replies    core.ReplyRepository

	// Cache is nil when Redis is unavailable; locks and geocode caching are skipped.
	Cache core.CacheRepository

	// Seed receives demo fixtures.
	Seed devseed.Target

	// Memory is set when the process runs without Postgres.
	Memory *memstore.Store

	// Probes ping the backing stores for readiness, keyed by name.
	Probes map[string]func(context.Context) error
}

// StoreName reports which store backs the repositories.
func (r *Repositories) StoreName() string {
	if r.Memory != nil {
		return "memory"
	}
	return "postgres"
}

// BuildRepositories returns Postgres repositories, or a shared in-memory store when db is nil.
func BuildRepositories(db *sql.DB, redisClient redis.UniversalClient) *Repositories {
	var repos *Repositories
	if db == nil {
		store := memstore.New(memstore.Options{})
		repos = &Repositories{
			Jobs:       store.Jobs(),
			SLA:        store.SLA(),
			Outreach:   store.Outreach(),
			Enrichment: store.Enrichment(),
			Leads:      store.Leads(),
			Replies:    store.Replies(),
			Seed:       store,
			Memory:     store,
		}
	} else {
		repos = &Repositories{
			Jobs:       data.NewJobRepo(db),
			SLA:        data.NewSLARepo(db, data.SLARepoOptions{}),
			Outreach:   data.NewOutreachRepo(db),
			Enrichment: data.NewEnrichmentRepo(db, data.EnrichmentRepoOptions{}),
			Leads:      data.NewLeadRepo(db, data.LeadRepoOptions{}),
			Replies:    data.NewReplyRepo(db),
			Seed:       devseed.NewSQLTarget(db),
			Probes:     map[string]func(context.Context) error{"postgres": db.PingContext},
		}
	}
	if redisClient != nil {
		repos.Cache = data.NewRedisCacheRepo(redisClient)
		if repos.Probes == nil {
			repos.Probes = make(map[string]func(context.Context) error, 1)
		}
		repos.Probes["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return repos
}
