// Package mocks provides gomock implementations of the dispatch service ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	jobs := mocks.NewMockJobRepository(ctrl)
//	jobs.EXPECT().GetByID(gomock.Any(), "job-123").Return(job, nil)
package mocks

// Repository ports: JobRepository, SLARepository, OutreachRepository,
// EnrichmentRepository, LeadRepository, ReplyRepository.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=repositories_mock.go github.com/tradedispatch/dispatch-api/internal/core JobRepository,SLARepository,OutreachRepository,EnrichmentRepository,LeadRepository,ReplyRepository

// Provider ports. EmailIntel is composed from the four enrichment mocks in tests.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=providers_mock.go github.com/tradedispatch/dispatch-api/internal/core WarmMailer,PlainMailer,ColdOutreach,EmailFinder,DomainSearcher,EmailVerifier,AccountChecker,Geocoder
