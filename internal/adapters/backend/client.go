package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/healthdash/healthdash-go/internal/config"
	"github.com/healthdash/healthdash-go/internal/core/metrics"
	"github.com/sirupsen/logrus"
)

// Client defines the operations of the remote health-data API
type Client interface {
	// Health probes backend liveness; any failure means "backend down"
	Health(ctx context.Context) error

	// FetchSummary retrieves the full processed payload for a dataset
	FetchSummary(ctx context.Context, dataID string) (*metrics.SummaryPayload, error)

	// FetchTimeseries retrieves the flat reading list for a dataset.
	// In the default lenient mode any failure degrades to an empty
	// slice; strict mode surfaces the error instead.
	FetchTimeseries(ctx context.Context, dataID string) ([]metrics.MetricReading, error)

	// FetchAnomalies retrieves the flagged irregularities for a dataset
	FetchAnomalies(ctx context.Context, dataID string) ([]metrics.AnomalyEntry, error)

	// Upload sends a CSV to the backend and returns the new dataset id
	Upload(ctx context.Context, filename string, file io.Reader) (*UploadResult, error)
}

// UploadResult is the upload endpoint's success payload
type UploadResult struct {
	Status   string `json:"status,omitempty"`
	DataID   string `json:"data_id"`
	FileName string `json:"fileName,omitempty"`
}

// restClient implements Client over plain HTTP
type restClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger

	strictReads bool
	maxRetries  int
	retryDelay  time.Duration
}

// NewClient creates a REST client from configuration
func NewClient(cfg config.BackendConfig, logger *logrus.Logger) Client {
	timeout, err := time.ParseDuration(cfg.RequestTimeout)
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}
	retryDelay, err := time.ParseDuration(cfg.RetryDelay)
	if err != nil || retryDelay <= 0 {
		retryDelay = time.Second
	}

	return &restClient{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:      logger,
		strictReads: cfg.StrictReads,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  retryDelay,
	}
}

// Health probes GET /health
func (c *restClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Debug("Health probe failed")
		return ErrBackendUnavailable
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithField("status_code", resp.StatusCode).Debug("Health probe returned non-success")
		return ErrBackendUnavailable
	}
	return nil
}

// FetchSummary retrieves GET /data/{id}/summary
func (c *restClient) FetchSummary(ctx context.Context, dataID string) (*metrics.SummaryPayload, error) {
	c.logger.WithField("data_id", dataID).Debug("Fetching dataset summary")

	data, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/data/%s/summary", dataID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch summary for dataset %s: %w", dataID, err)
	}

	var payload metrics.SummaryPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.logger.WithError(err).WithField("data_id", dataID).Warn("Summary decode failed")
		return nil, fmt.Errorf("summary for dataset %s: %w", dataID, ErrInvalidResponse)
	}

	c.logger.WithFields(logrus.Fields{
		"data_id":  dataID,
		"readings": len(payload.Timeseries),
	}).Debug("Retrieved dataset summary")

	return &payload, nil
}

// FetchTimeseries retrieves GET /data/{id}/trends
func (c *restClient) FetchTimeseries(ctx context.Context, dataID string) ([]metrics.MetricReading, error) {
	c.logger.WithField("data_id", dataID).Debug("Fetching dataset timeseries")

	data, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/data/%s/trends", dataID))
	if err != nil {
		return c.lenientReadFailure(dataID, "timeseries", err)
	}

	var readings []metrics.MetricReading
	if err := json.Unmarshal(data, &readings); err != nil {
		return c.lenientReadFailure(dataID, "timeseries", err)
	}

	return readings, nil
}

// FetchAnomalies retrieves GET /data/{id}/anomalies
func (c *restClient) FetchAnomalies(ctx context.Context, dataID string) ([]metrics.AnomalyEntry, error) {
	c.logger.WithField("data_id", dataID).Debug("Fetching dataset anomalies")

	data, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/data/%s/anomalies", dataID))
	if err != nil {
		if c.strictReads {
			return nil, fmt.Errorf("failed to fetch anomalies for dataset %s: %w", dataID, err)
		}
		c.logger.WithError(err).WithField("data_id", dataID).Warn("Anomaly fetch failed, returning empty")
		return []metrics.AnomalyEntry{}, nil
	}

	var anomalies []metrics.AnomalyEntry
	if err := json.Unmarshal(data, &anomalies); err != nil {
		if c.strictReads {
			return nil, fmt.Errorf("failed to decode anomalies for dataset %s: %w", dataID, err)
		}
		c.logger.WithError(err).WithField("data_id", dataID).Warn("Anomaly decode failed, returning empty")
		return []metrics.AnomalyEntry{}, nil
	}
	return anomalies, nil
}

// lenientReadFailure implements the read-path failure policy: callers
// treat empty as "no data yet", so failures are logged and swallowed
// unless strict reads are enabled.
func (c *restClient) lenientReadFailure(dataID, what string, err error) ([]metrics.MetricReading, error) {
	if c.strictReads {
		return nil, fmt.Errorf("failed to fetch %s for dataset %s: %w", what, dataID, err)
	}
	c.logger.WithError(err).WithFields(logrus.Fields{
		"data_id": dataID,
		"what":    what,
	}).Warn("Read failed, returning empty")
	return []metrics.MetricReading{}, nil
}

// Upload POSTs a multipart CSV to /upload
func (c *restClient) Upload(ctx context.Context, filename string, file io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to buffer upload file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.WithField("file", filename).Info("Uploading dataset")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ErrBackendUnavailable
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewBackendError(resp.StatusCode, "Failed to read upload response", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UploadError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &UploadError{StatusCode: resp.StatusCode, Body: "unparseable upload response"}
	}
	if result.DataID == "" {
		return nil, &UploadError{StatusCode: resp.StatusCode, Body: "no data_id in upload response"}
	}
	if result.FileName == "" {
		result.FileName = filename
	}

	c.logger.WithFields(logrus.Fields{
		"file":    filename,
		"data_id": result.DataID,
	}).Info("Upload accepted")

	return &result, nil
}

// doRequest performs a GET-style request with retry and backoff for
// transient failures. 4xx responses are not retried.
func (c *restClient) doRequest(ctx context.Context, method, path string) ([]byte, error) {
	url := c.baseURL + path

	var lastErr error
	retryDelay := c.retryDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
			retryDelay *= 2
		}

		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = NewBackendError(0, "HTTP request failed", map[string]interface{}{
				"error":   err.Error(),
				"url":     url,
				"attempt": attempt + 1,
			})
			c.logger.WithError(err).WithField("attempt", attempt+1).Debug("Request failed, will retry")
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = NewBackendError(0, "Failed to read response body", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return respBody, nil
		}

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrDatasetNotFound
		}

		if resp.StatusCode >= 500 {
			lastErr = NewBackendError(resp.StatusCode, "Server error", map[string]interface{}{
				"response": string(respBody),
			})
			continue
		}

		// Client error, no point retrying
		return nil, NewBackendError(resp.StatusCode, "Client error", map[string]interface{}{
			"response": string(respBody),
		})
	}

	return nil, lastErr
}
