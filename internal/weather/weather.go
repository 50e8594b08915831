// Package weather reads current conditions for one location from the
// weatherbit API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "https://api.weatherbit.io/v2.0/current"
	DefaultCity     = "Rio de Janeiro"
	DefaultCountry  = "BR"

	// Unavailable deliberately omits the underlying error.
	Unavailable = "As informações meteorológicas estão indisponíveis no momento."
)

// Getter is the HTTP surface the fetcher needs.
type Getter interface {
	GetJSON(ctx context.Context, endpoint string, query url.Values, headers map[string]string, out any) error
}

// Report holds the fields of the first observation.
type Report struct {
	City        string
	Country     string
	Temperature string
	Description string
}

// Sentence renders the report for the briefing.
func (r Report) Sentence() string {
	return fmt.Sprintf("Atualmente, o clima em %s, %s é %s°C com %s.",
		r.City, r.Country, r.Temperature, r.Description)
}

type observation struct {
	CityName    string      `json:"city_name"`
	CountryCode string      `json:"country_code"`
	Temp        json.Number `json:"temp"`
	Weather     struct {
		Description string `json:"description"`
	} `json:"weather"`
}

type response struct {
	Data []observation `json:"data"`
}

// Fetcher retrieves current conditions for a fixed city.
type Fetcher struct {
	getter   Getter
	endpoint string
	apiKey   string
	city     string
	country  string
	logger   *zap.Logger
}

// NewFetcher builds a Fetcher. An empty endpoint falls back to DefaultEndpoint.
func NewFetcher(getter Getter, endpoint, apiKey, city, country string, logger *zap.Logger) *Fetcher {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		getter:   getter,
		endpoint: endpoint,
		apiKey:   apiKey,
		city:     city,
		country:  country,
		logger:   logger,
	}
}

// Fetch returns the first observation for the configured location.
func (f *Fetcher) Fetch(ctx context.Context) (Report, error) {
	params := url.Values{}
	params.Set("city", f.city)
	params.Set("country", f.country)
	params.Set("key", f.apiKey)

	var resp response
	if err := f.getter.GetJSON(ctx, f.endpoint, params, nil, &resp); err != nil {
		return Report{}, fmt.Errorf("fetch weather: %w", err)
	}
	if len(resp.Data) == 0 {
		return Report{}, ErrNoData
	}

	obs := resp.Data[0]
	return Report{
		City:        obs.CityName,
		Country:     obs.CountryCode,
		Temperature: obs.Temp.String(),
		Description: obs.Weather.Description,
	}, nil
}

// Summary renders the current conditions, or Unavailable on any failure.
func (f *Fetcher) Summary(ctx context.Context) string {
	report, err := f.Fetch(ctx)
	if err != nil {
		f.logger.Warn("weather unavailable",
			zap.String("city", f.city),
			zap.String("country", f.country),
			zap.Error(err),
		)
		return Unavailable
	}
	return report.Sentence()
}
