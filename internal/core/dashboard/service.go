package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/healthdash/healthdash-go/internal/adapters/backend"
	"github.com/healthdash/healthdash-go/internal/config"
	"github.com/healthdash/healthdash-go/internal/core/metrics"
	"github.com/healthdash/healthdash-go/internal/database/models"
	"github.com/healthdash/healthdash-go/internal/database/repositories"
	apperrors "github.com/healthdash/healthdash-go/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Service is the data core consumed by the dashboard pages. It owns the
// session cache and coordinates the gateway, the mock provider and the
// snapshot store.
type Service struct {
	cache     *SessionCache
	client    backend.Client
	snapshots repositories.SnapshotRepository
	mock      *metrics.MockProvider
	logger    *logrus.Logger
	cfg       *config.Config
}

// NewService wires the dashboard data core. The cache starts from the
// mock provider's compiled-in dataset.
func NewService(
	client backend.Client,
	snapshots repositories.SnapshotRepository,
	mock *metrics.MockProvider,
	cfg *config.Config,
	logger *logrus.Logger,
) *Service {
	return &Service{
		cache:     NewSessionCache(mock.DefaultViewModel()),
		client:    client,
		snapshots: snapshots,
		mock:      mock,
		logger:    logger,
		cfg:       cfg,
	}
}

// Cache exposes the session cache for subscription and direct reads
func (s *Service) Cache() *SessionCache {
	return s.cache
}

// hasActiveDataset reports whether a real backend dataset is active.
// Mock upload ids have no server-side data behind them, so accessors
// treat them like "no dataset" and serve cached series.
func (s *Service) hasActiveDataset() (string, bool) {
	id := s.cache.CurrentDataID()
	if id == "" || metrics.IsMockDataID(id) {
		return id, false
	}
	return id, true
}

// GetMetrics returns the KPI card values. A user with a saved snapshot
// gets it restored first; otherwise an active dataset is refreshed from
// the backend, and with neither the cached (mock) KPIs are served.
func (s *Service) GetMetrics(ctx context.Context, userID string) (metrics.KPI, error) {
	if userID != "" {
		if vm, err := s.LoadUserData(ctx, userID); err == nil && vm != nil {
			return vm.Metrics, nil
		}
	}

	if id, ok := s.hasActiveDataset(); ok {
		payload, err := s.client.FetchSummary(ctx, id)
		if err != nil {
			s.logger.WithError(err).WithField("data_id", id).Warn("Metrics fetch failed, serving cached values")
			return s.cache.Snapshot().Metrics, nil
		}
		vm := metrics.Transform(payload)
		s.cache.Activate(id, UpdateFromViewModel(vm))
		return vm.Metrics, nil
	}

	return s.cache.Snapshot().Metrics, nil
}

// GetTrendData returns the steps series, refreshed from the backend
// when a dataset is active.
func (s *Service) GetTrendData(ctx context.Context) (metrics.Series, error) {
	return s.seriesFor(ctx, metrics.MetricSteps)
}

// GetHeartRateData returns the heart-rate series
func (s *Service) GetHeartRateData(ctx context.Context) (metrics.Series, error) {
	return s.seriesFor(ctx, metrics.MetricHeartRate)
}

// GetSleepData returns the sleep series
func (s *Service) GetSleepData(ctx context.Context) (metrics.Series, error) {
	return s.seriesFor(ctx, metrics.MetricSleep)
}

// GetWaterData returns the water series, in liters
func (s *Service) GetWaterData(ctx context.Context) (metrics.Series, error) {
	return s.seriesFor(ctx, metrics.MetricWater)
}

// seriesFor implements the shared accessor pattern: short-circuit to the
// cached series when no dataset is active, otherwise refetch the flat
// timeseries, extract this kind's slice and merge it back. Each call
// fetches independently; concurrent accessors write disjoint fields.
func (s *Service) seriesFor(ctx context.Context, kind metrics.MetricKind) (metrics.Series, error) {
	id, ok := s.hasActiveDataset()
	if !ok {
		return s.cachedSeries(kind), nil
	}

	readings, err := s.client.FetchTimeseries(ctx, id)
	if err != nil {
		// Only possible in strict-read mode
		return nil, apperrors.WithDetails(apperrors.ErrDataFetch, err.Error())
	}

	series := metrics.FilterSeries(readings, kind)

	u := Update{}
	switch kind {
	case metrics.MetricSteps:
		u.TrendData = &series
	case metrics.MetricHeartRate:
		u.HeartRateData = &series
	case metrics.MetricSleep:
		u.SleepData = &series
	case metrics.MetricWater:
		u.WaterData = &series
	}
	s.cache.Merge(u)

	return series, nil
}

func (s *Service) cachedSeries(kind metrics.MetricKind) metrics.Series {
	snapshot := s.cache.Snapshot()
	switch kind {
	case metrics.MetricSteps:
		return snapshot.TrendData
	case metrics.MetricHeartRate:
		return snapshot.HeartRateData
	case metrics.MetricSleep:
		return snapshot.SleepData
	case metrics.MetricWater:
		return snapshot.WaterData
	default:
		return nil
	}
}

// GetDiseaseData returns the wellness distribution slices. With an
// active dataset the distribution is recomputed from a fresh
// timeseries; an empty fetch keeps the cached slices.
func (s *Service) GetDiseaseData(ctx context.Context) ([]metrics.PieSlice, error) {
	id, ok := s.hasActiveDataset()
	if !ok {
		return s.cache.Snapshot().DiseaseData, nil
	}

	readings, err := s.client.FetchTimeseries(ctx, id)
	if err != nil {
		return nil, apperrors.WithDetails(apperrors.ErrDataFetch, err.Error())
	}
	if len(readings) == 0 {
		return s.cache.Snapshot().DiseaseData, nil
	}

	slices := metrics.Distribution(readings)
	s.cache.Merge(Update{DiseaseData: &slices})
	return slices, nil
}

// GetAgeGroups returns the demographic chart data, mock-backed
func (s *Service) GetAgeGroups(ctx context.Context) ([]metrics.AgeGroup, error) {
	return s.cache.Snapshot().AgeGroups, nil
}

// GetInsights returns the narrative insights, mock-backed
func (s *Service) GetInsights(ctx context.Context) ([]metrics.Insight, error) {
	return s.cache.Snapshot().Insights, nil
}

// UploadOutcome reports an accepted upload. PersistErr carries a failed
// best-effort snapshot write; the upload itself still succeeded.
type UploadOutcome struct {
	Success    bool   `json:"success"`
	DataID     string `json:"data_id"`
	FileName   string `json:"fileName"`
	Message    string `json:"message,omitempty"`
	PersistErr error  `json:"-"`
}

// UploadFile sends a CSV to the backend, activates the resulting
// dataset and persists a per-user snapshot. When the liveness probe
// fails the configured fallback either serves a mock upload or surfaces
// a network error. The cache is only touched once the transformed model
// for the new dataset is ready, so a failed upload never leaves a
// half-activated state.
func (s *Service) UploadFile(ctx context.Context, filename string, file io.Reader, userID string) (*UploadOutcome, error) {
	if err := s.client.Health(ctx); err != nil {
		if s.cfg.Fallback.MockOnUnavailable {
			s.logger.Warn("Backend unavailable, serving mock upload")
			return s.mockUpload(filename), nil
		}
		return nil, apperrors.WithDetails(apperrors.ErrNetworkUnavailable, "backend health probe failed")
	}

	result, err := s.client.Upload(ctx, filename, file)
	if err != nil {
		var uploadErr *backend.UploadError
		if errors.As(err, &uploadErr) {
			return nil, apperrors.WithDetails(apperrors.ErrUploadRejected, uploadErr.Body)
		}
		if backend.IsConnectionError(err) {
			return nil, apperrors.WithDetails(apperrors.ErrNetworkUnavailable, err.Error())
		}
		return nil, apperrors.WithDetails(apperrors.ErrUploadRejected, err.Error())
	}

	payload, err := s.client.FetchSummary(ctx, result.DataID)
	if err != nil {
		// Leave the cache on the previous dataset rather than pairing
		// the new id with stale data
		return nil, apperrors.WithDetails(apperrors.ErrDataFetch, err.Error())
	}

	vm := metrics.Transform(payload)
	s.cache.Activate(result.DataID, UpdateFromViewModel(vm))

	outcome := &UploadOutcome{
		Success:  true,
		DataID:   result.DataID,
		FileName: result.FileName,
	}
	outcome.PersistErr = s.persistSnapshot(ctx, userID, result.DataID, result.FileName)

	return outcome, nil
}

// mockUpload activates a synthetic dataset in place of a backend one
func (s *Service) mockUpload(filename string) *UploadOutcome {
	id := metrics.MockUploadID()
	trend := s.mock.SyntheticSeries(metrics.MetricSteps, s.syntheticDays())
	kpi := s.mock.DefaultViewModel().Metrics

	s.cache.Activate(id, Update{
		Metrics:   &kpi,
		TrendData: &trend,
	})

	return &UploadOutcome{
		Success:  true,
		DataID:   id,
		FileName: filename,
		Message:  "Mock upload (backend unavailable)",
	}
}

func (s *Service) syntheticDays() int {
	if s.cfg.Fallback.SyntheticDays > 0 {
		return s.cfg.Fallback.SyntheticDays
	}
	return 30
}

// persistSnapshot writes the post-upload snapshot. Best effort: a
// failure is logged and reported on the outcome's side channel, never
// escalated — the in-memory model stays authoritative for the session.
func (s *Service) persistSnapshot(ctx context.Context, userID, dataID, fileName string) error {
	snapshot := s.cache.Snapshot()
	payload, err := json.Marshal(snapshot)
	if err != nil {
		err = fmt.Errorf("failed to serialize snapshot: %w", err)
		s.logger.WithError(err).Warn("Snapshot write skipped")
		return apperrors.WithDetails(
			apperrors.New(apperrors.CodePersistenceWriteFailed, "Failed to persist snapshot"), err.Error())
	}

	record := &models.Snapshot{
		Key:        models.SnapshotKey(userID),
		UserID:     userID,
		DataID:     dataID,
		FileName:   fileName,
		Payload:    payload,
		UploadDate: time.Now(),
	}
	if err := s.snapshots.Upsert(ctx, record); err != nil {
		s.logger.WithError(err).WithField("key", record.Key).Warn("Snapshot write failed")
		return apperrors.WithDetails(
			apperrors.New(apperrors.CodePersistenceWriteFailed, "Failed to persist snapshot"), err.Error())
	}

	s.logger.WithFields(logrus.Fields{
		"key":     record.Key,
		"data_id": dataID,
	}).Debug("Snapshot persisted")
	return nil
}

// LoadUserData restores a user's saved snapshot into the session cache.
// The saved fields are merged without activating the persisted dataset
// id: the backend keeps datasets in process memory, so after a restart
// the id is dead and refetching it would wipe the restored series. The
// id is reported on the returned ViewModel only, and accessors serve
// the restored data locally. A missing snapshot returns (nil, nil): no
// saved data is a normal state, not an error.
func (s *Service) LoadUserData(ctx context.Context, userID string) (*metrics.ViewModel, error) {
	key := models.SnapshotKey(userID)

	record, err := s.snapshots.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", key, err)
	}
	if record == nil {
		return nil, nil
	}

	var vm metrics.ViewModel
	if err := json.Unmarshal(record.Payload, &vm); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Saved snapshot is unreadable, ignoring")
		return nil, nil
	}

	// Only restore snapshots that actually carry KPI data
	if vm.Metrics == (metrics.KPI{}) {
		return nil, nil
	}

	s.cache.Merge(UpdateFromViewModel(&vm))
	vm.CurrentDataID = record.DataID

	s.logger.WithFields(logrus.Fields{
		"key":     key,
		"data_id": record.DataID,
	}).Info("Restored saved dashboard snapshot")

	return &vm, nil
}

// ClearCurrentData resets the cache to the compiled-in mock dataset and
// deactivates the current dataset.
func (s *Service) ClearCurrentData() {
	s.cache.Reset(s.mock.DefaultViewModel())
}

// ExportWeeklyReport writes the plain-text weekly summary for the
// current KPIs. Purely local, no backend round trip.
func (s *Service) ExportWeeklyReport(w io.Writer) error {
	kpi := s.cache.Snapshot().Metrics

	_, err := fmt.Fprintf(w,
		"Weekly Health Report\n\nSteps: %d\nHeart Rate: %d\nSleep: %.1f\nHydration: %d\n",
		kpi.AvgSteps, kpi.AvgHeartRate, kpi.AvgSleep, kpi.AvgWater,
	)
	if err != nil {
		return fmt.Errorf("failed to write weekly report: %w", err)
	}
	return nil
}
