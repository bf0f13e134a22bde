package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/jobtext"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	apperrors "github.com/tradedispatch/dispatch-api/internal/errors"
)

// JobParseServiceOptions groups dependencies for JobParseService.
type JobParseServiceOptions struct {
	Jobs     core.JobRepository // Required: job store
	Geocoder core.Geocoder      // Optional: geocoding chain, usually cached
	Parser   *jobtext.Parser    // Optional: defaults to the embedded vocabulary
	Logger   *slog.Logger       // Optional: structured logger
}

// JobParseService turns a free-text request into structured job fields.
type JobParseService struct {
	jobs     core.JobRepository
	geocoder core.Geocoder
	parser   *jobtext.Parser
	logger   *slog.Logger
}

// NewJobParseService constructs a new JobParseService.
func NewJobParseService(opts JobParseServiceOptions) (*JobParseService, error) {
	if opts.Jobs == nil {
		return nil, errors.New("JobRepository is required")
	}
	parser := opts.Parser
	if parser == nil {
		parser = jobtext.NewParser(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JobParseService{
		jobs:     opts.Jobs,
		geocoder: opts.Geocoder,
		parser:   parser,
		logger:   logger.With("component", "job_parse_service"),
	}, nil
}

// Parse classifies rawText, geocodes the extracted address and stores both on the job.
// A geocoding failure leaves geo_data empty rather than failing the request.
func (s *JobParseService) Parse(ctx context.Context, jobID, rawText string) (*model.ParseJobResult, error) {
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return nil, apperrors.ValidationField("raw_text", "raw_text is required")
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}

	parsed := s.parser.Parse(rawText)
	geo := s.geocode(ctx, geocodeQuery(parsed, job))

	if _, err := s.jobs.ApplyParse(ctx, core.ApplyJobParseParams{
		JobID:   job.ID,
		RawText: rawText,
		Parsed:  parsed,
		Geo:     geo,
	}); err != nil {
		return nil, fmt.Errorf("store parsed job: %w", err)
	}

	return &model.ParseJobResult{JobID: job.ID, ParsedData: parsed, GeoData: geo}, nil
}

func (s *JobParseService) geocode(ctx context.Context, query string) *model.GeoResult {
	if s.geocoder == nil || query == "" {
		return nil
	}
	geo, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		s.logger.WarnContext(ctx, "geocode failed", "provider", s.geocoder.Name(), "error", err)
		return nil
	}
	return geo
}

// geocodeQuery prefers the address found in the text and falls back to the job's stored location.
func geocodeQuery(parsed model.ParsedJob, job *model.Job) string {
	if parsed.Address != "" {
		return parsed.Address
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{job.Address, job.City, job.State, job.Zip} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
