package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/data"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	apperrors "github.com/tradedispatch/dispatch-api/internal/errors"
	"github.com/tradedispatch/dispatch-api/internal/mocks"
	"github.com/tradedispatch/dispatch-api/internal/testutil"
)

func newJobParseForTest(t *testing.T) (*JobParseService, *mocks.MockJobRepository, *mocks.MockGeocoder) {
	t.Helper()
	ctrl := gomock.NewController(t)
	jobs := mocks.NewMockJobRepository(ctrl)
	geo := mocks.NewMockGeocoder(ctrl)
	svc, err := NewJobParseService(JobParseServiceOptions{Jobs: jobs, Geocoder: geo, Logger: discardLogger()})
	require.NoError(t, err)
	return svc, jobs, geo
}

func TestJobParse_ParsesGeocodesAndStores(t *testing.T) {
	svc, jobs, geo := newJobParseForTest(t)
	ctx := context.Background()
	raw := "AC repair needed at 123 Main St, Austin, TX tomorrow morning"
	point := &model.GeoResult{Latitude: 30.27, Longitude: -97.74, City: "Austin", State: "TX", Provider: "nominatim"}

	jobs.EXPECT().GetByID(ctx, "job-1").Return(testutil.NewJob("job-1").Build(), nil)
	geo.EXPECT().Geocode(ctx, "123 Main St, Austin, TX").Return(point, nil)
	jobs.EXPECT().ApplyParse(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p core.ApplyJobParseParams) (*model.Job, error) {
			assert.Equal(t, raw, p.RawText)
			assert.Equal(t, "hvac", p.Parsed.TradeNeeded)
			assert.Same(t, point, p.Geo)
			return testutil.NewJob("job-1").Build(), nil
		})

	res, err := svc.Parse(ctx, "job-1", "  "+raw+"  ")
	require.NoError(t, err)
	assert.Equal(t, "job-1", res.JobID)
	assert.Equal(t, "hvac", res.ParsedData.TradeNeeded)
	assert.Equal(t, "tomorrow morning", res.ParsedData.ScheduleHint)
	assert.Same(t, point, res.GeoData)
}

func TestJobParse_GeocodeFailureLeavesGeoEmpty(t *testing.T) {
	svc, jobs, geo := newJobParseForTest(t)

	jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(testutil.NewJob("job-1").Build(), nil)
	geo.EXPECT().Geocode(gomock.Any(), gomock.Any()).Return(nil, errors.New("quota"))
	geo.EXPECT().Name().Return("chain(nominatim)")
	jobs.EXPECT().ApplyParse(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p core.ApplyJobParseParams) (*model.Job, error) {
			assert.Nil(t, p.Geo)
			return &model.Job{ID: "job-1"}, nil
		})

	res, err := svc.Parse(context.Background(), "job-1", "Leaking toilet at 4500 W Oak Ave, San Jose, CA 95112")
	require.NoError(t, err)
	assert.Nil(t, res.GeoData)
}

func TestJobParse_FallsBackToJobAddress(t *testing.T) {
	svc, jobs, geo := newJobParseForTest(t)

	jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(testutil.NewJob("job-1").Build(), nil)
	geo.EXPECT().Geocode(gomock.Any(), "123 Main St, Austin, TX, 78701").Return(nil, nil)
	jobs.EXPECT().ApplyParse(gomock.Any(), gomock.Any()).Return(&model.Job{ID: "job-1"}, nil)

	_, err := svc.Parse(context.Background(), "job-1", "Outlet stopped working")
	require.NoError(t, err)
}

func TestJobParse_Validation(t *testing.T) {
	svc, jobs, _ := newJobParseForTest(t)

	_, err := svc.Parse(context.Background(), "job-1", "   ")
	assert.True(t, apperrors.IsValidation(err))

	jobs.EXPECT().GetByID(gomock.Any(), "gone").Return(nil, data.ErrJobNotFound)
	_, err = svc.Parse(context.Background(), "gone", "AC broken")
	assert.ErrorIs(t, err, data.ErrJobNotFound)
}

func TestJobParse_WithoutGeocoder(t *testing.T) {
	ctrl := gomock.NewController(t)
	jobs := mocks.NewMockJobRepository(ctrl)
	svc, err := NewJobParseService(JobParseServiceOptions{Jobs: jobs, Logger: discardLogger()})
	require.NoError(t, err)

	jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(testutil.NewJob("job-1").Build(), nil)
	jobs.EXPECT().ApplyParse(gomock.Any(), gomock.Any()).Return(&model.Job{ID: "job-1"}, nil)

	res, err := svc.Parse(context.Background(), "job-1", "Outlet stopped working")
	require.NoError(t, err)
	assert.Nil(t, res.GeoData)
}
