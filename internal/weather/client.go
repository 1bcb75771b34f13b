// Package weather implements the CWA (Central Weather Administration)
// 36-hour forecast lookup used for weather queries.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// forecastDataset is the CWA 36-hour city/county forecast dataset.
const forecastDataset = "F-C0032-001"

var (
	// ErrUnavailable indicates a transport-level failure: the request could
	// not be made, timed out, or returned a non-success HTTP status.
	ErrUnavailable = errors.New("weather service unavailable")

	// ErrServiceAnomaly indicates the provider answered but flagged the
	// response as unsuccessful.
	ErrServiceAnomaly = errors.New("weather service reported failure")

	// ErrBadPayload indicates the provider response did not have the
	// expected shape.
	ErrBadPayload = errors.New("malformed weather payload")
)

// LocationNotFoundError indicates the requested location is not present in
// the provider's location list. It carries the original, non-normalized
// input for the user-facing message.
type LocationNotFoundError struct {
	Input string
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("no forecast data for location %q", e.Input)
}

// Forecast holds the extracted first-time-slot values of the five forecast
// elements for a single location.
type Forecast struct {
	LocationName string
	StartTime    string
	EndTime      string
	Condition    string
	RainChance   string
	MinTemp      string
	MaxTemp      string
	Comfort      string
}

// Client defines the interface for forecast lookups used by the intent
// router. Failures are reported as typed errors so the caller can map them
// to user-facing messages.
type Client interface {
	Forecast(ctx context.Context, location string) (*Forecast, error)
}

type httpClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a CWA forecast client. baseURL is the API root
// (e.g. https://opendata.cwa.gov.tw/api); timeout bounds the whole HTTP
// exchange.
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &httpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With("component", "weather_client"),
	}
}

// CWA response shape: records.location[].weatherElement[].time[].parameter.
type apiResponse struct {
	Success string `json:"success"`
	Records struct {
		Location []apiLocation `json:"location"`
	} `json:"records"`
}

type apiLocation struct {
	LocationName   string       `json:"locationName"`
	WeatherElement []apiElement `json:"weatherElement"`
}

type apiElement struct {
	ElementName string    `json:"elementName"`
	Time        []apiTime `json:"time"`
}

type apiTime struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Parameter struct {
		ParameterName string `json:"parameterName"`
	} `json:"parameter"`
}

// Forecast normalizes the location name, queries the forecast dataset, and
// extracts the first time slot of each of the five weather elements.
func (c *httpClient) Forecast(ctx context.Context, location string) (*Forecast, error) {
	canonical := Normalize(location)

	endpoint := fmt.Sprintf("%s/v1/rest/datastore/%s", c.baseURL, forecastDataset)
	query := url.Values{}
	query.Set("Authorization", c.apiKey)
	query.Set("format", "JSON")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build forecast request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "Forecast request failed", "location", canonical, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.WarnContext(ctx, "Error closing forecast response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.ErrorContext(ctx, "Forecast request returned non-success status",
			"location", canonical, "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.ErrorContext(ctx, "Failed to decode forecast response", "location", canonical, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	if payload.Success != "true" {
		c.logger.WarnContext(ctx, "Forecast response flagged unsuccessful", "success", payload.Success)
		return nil, ErrServiceAnomaly
	}

	for _, loc := range payload.Records.Location {
		if loc.LocationName == canonical {
			return extractForecast(loc)
		}
	}

	c.logger.InfoContext(ctx, "Location not present in forecast data", "input", location, "normalized", canonical)
	return nil, &LocationNotFoundError{Input: location}
}

// extractForecast pulls the first time slot of the Wx, PoP, MinT, MaxT, and
// CI elements. Any missing element or empty time series is a payload error.
func extractForecast(loc apiLocation) (*Forecast, error) {
	elements := make(map[string]apiElement, len(loc.WeatherElement))
	for _, e := range loc.WeatherElement {
		elements[e.ElementName] = e
	}

	first := func(name string) (apiTime, error) {
		e, ok := elements[name]
		if !ok || len(e.Time) == 0 {
			return apiTime{}, fmt.Errorf("%w: missing element %s", ErrBadPayload, name)
		}
		return e.Time[0], nil
	}

	wx, err := first("Wx")
	if err != nil {
		return nil, err
	}
	pop, err := first("PoP")
	if err != nil {
		return nil, err
	}
	minT, err := first("MinT")
	if err != nil {
		return nil, err
	}
	maxT, err := first("MaxT")
	if err != nil {
		return nil, err
	}
	ci, err := first("CI")
	if err != nil {
		return nil, err
	}

	return &Forecast{
		LocationName: loc.LocationName,
		StartTime:    wx.StartTime,
		EndTime:      wx.EndTime,
		Condition:    wx.Parameter.ParameterName,
		RainChance:   pop.Parameter.ParameterName,
		MinTemp:      minT.Parameter.ParameterName,
		MaxTemp:      maxT.Parameter.ParameterName,
		Comfort:      ci.Parameter.ParameterName,
	}, nil
}
