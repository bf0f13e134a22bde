package memstore

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/data"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

const (
	earthRadiusMi     = 3958.8
	defaultRadiusMi   = 50
	maxCandidateCount = 100
)

// AddJob stores job and returns its id. An empty id is generated; an existing
// id is left untouched.
func (s *Store) AddJob(_ context.Context, job model.Job) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.ID == "" {
		job.ID = newID()
	}
	if _, ok := s.jobs[job.ID]; ok {
		return job.ID, nil
	}
	if job.Status == "" {
		job.Status = model.JobStatusOpen
	}
	if job.Urgency == "" {
		job.Urgency = "standard"
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = s.clock.Now()
	}
	s.jobs[job.ID] = &job
	return job.ID, nil
}

// AddTechnician stores tech and returns its id.
func (s *Store) AddTechnician(_ context.Context, tech model.Technician) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tech.ID == "" {
		tech.ID = newID()
	}
	for _, existing := range s.techs {
		if existing.ID == tech.ID {
			return tech.ID, nil
		}
	}
	if tech.RadiusMi <= 0 {
		tech.RadiusMi = defaultRadiusMi
	}
	if tech.CreatedAt.IsZero() {
		tech.CreatedAt = s.clock.Now()
	}
	s.techs = append(s.techs, &tech)
	return tech.ID, nil
}

// GetByID returns a copy of the job.
func (s JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, data.ErrJobNotFound
	}
	out := *job
	return &out, nil
}

// FindMatchingTechnicians returns technicians of the job's trade inside their
// service radius, or in the job's state when either side lacks coordinates.
func (s JobRepo) FindMatchingTechnicians(ctx context.Context, jobID string) ([]model.Candidate, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, nil
	}

	var out []model.Candidate
	for _, t := range s.techs {
		if !strings.EqualFold(t.Trade, job.Trade) {
			continue
		}
		dist, known := distance(job, t)
		switch {
		case known && dist > t.RadiusMi:
			continue
		case !known && job.State != "" && !strings.EqualFold(t.State, job.State):
			continue
		}
		out = append(out, model.Candidate{
			TechnicianID: t.ID,
			Name:         t.Name,
			Email:        t.Email,
			SignedUp:     t.SignedUp,
			Trade:        t.Trade,
			DistanceMi:   dist,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceMi != out[j].DistanceMi {
			return out[i].DistanceMi < out[j].DistanceMi
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > maxCandidateCount {
		out = out[:maxCandidateCount]
	}
	return out, nil
}

// distance is the great-circle distance in miles. known is false when either side has no coordinates.
func distance(job *model.Job, t *model.Technician) (float64, bool) {
	if job.Latitude == nil || job.Longitude == nil || t.Latitude == nil || t.Longitude == nil {
		return 0, false
	}
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	lat1, lat2 := rad(*job.Latitude), rad(*t.Latitude)
	dLat := lat2 - lat1
	dLon := rad(*t.Longitude - *job.Longitude)
	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	return earthRadiusMi * 2 * math.Asin(math.Sqrt(h)), true
}

// ApplyParse writes parsed fields onto the job. Blank fields keep the stored value.
func (s JobRepo) ApplyParse(ctx context.Context, params core.ApplyJobParseParams) (*model.Job, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[params.JobID]
	if !ok {
		return nil, data.ErrJobNotFound
	}

	p := params.Parsed
	job.RawText = ptr(params.RawText)
	setIfPresent(&job.Trade, p.TradeNeeded)
	setIfPresent(&job.Urgency, p.Urgency)
	setIfPresent(&job.Description, p.Description)
	setIfPresent(&job.Address, p.Address)
	if g := params.Geo; g != nil {
		setIfPresent(&job.City, g.City)
		setIfPresent(&job.State, g.State)
		setIfPresent(&job.Zip, g.Zip)
		job.Latitude = ptr(g.Latitude)
		job.Longitude = ptr(g.Longitude)
	}
	out := *job
	return &out, nil
}

func setIfPresent(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
