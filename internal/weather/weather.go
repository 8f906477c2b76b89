package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/3sol-fa/RoofConstructionManager/pkg/domain"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("weather api key not configured")

// Config wires the weather service.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	RedisAddr  string
	RedisPass  string
	CacheTTL   time.Duration
	Lat        float64
	Lng        float64
}

// Service fetches current conditions and caches them in Redis so the
// dashboard does not hammer the upstream API.
type Service struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *redis.Client
	cacheTTL   time.Duration
	lat        float64
	lng        float64
}

// New creates the service. RedisAddr empty disables caching.
func New(cfg Config) *Service {
	s := &Service{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
		cacheTTL:   cfg.CacheTTL,
		lat:        cfg.Lat,
		lng:        cfg.Lng,
	}
	if s.baseURL == "" {
		s.baseURL = defaultBaseURL
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = time.Hour
	}
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		s.cache = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.RedisPass})
	}
	return s
}

type owmResponse struct {
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
}

// Current returns the weather report for a named location, served from cache
// when a fresh entry exists.
func (s *Service) Current(ctx context.Context, location string) (domain.WeatherReport, error) {
	if s.apiKey == "" {
		return domain.WeatherReport{}, ErrNotConfigured
	}
	location = strings.TrimSpace(location)
	if location == "" {
		location = "default"
	}

	if cached, ok := s.fromCache(ctx, location); ok {
		return cached, nil
	}

	report, err := s.fetch(ctx, location)
	if err != nil {
		return domain.WeatherReport{}, err
	}
	s.toCache(ctx, location, report)
	return report, nil
}

func (s *Service) fetch(ctx context.Context, location string) (domain.WeatherReport, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", s.lat))
	q.Set("lon", fmt.Sprintf("%f", s.lng))
	q.Set("appid", s.apiKey)
	q.Set("units", "imperial")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("build weather request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.WeatherReport{}, fmt.Errorf("weather api status %d", resp.StatusCode)
	}

	var body owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.WeatherReport{}, fmt.Errorf("decode weather response: %w", err)
	}

	condition := ""
	if len(body.Weather) > 0 {
		condition = body.Weather[0].Main
	}
	return domain.WeatherReport{
		Location:      location,
		Lat:           s.lat,
		Lng:           s.lng,
		Temperature:   body.Main.Temp,
		Humidity:      body.Main.Humidity,
		WindSpeed:     body.Wind.Speed,
		Precipitation: body.Rain.OneHour,
		Condition:     condition,
		WorkCondition: classifyWorkCondition(condition, body.Wind.Speed),
		Timestamp:     time.Now().UTC(),
	}, nil
}

// classifyWorkCondition maps conditions to roofing-work safety: rain or wind
// over 20 mph is unsafe, clouds or wind over 15 mph warrants caution.
func classifyWorkCondition(condition string, windSpeed float64) domain.WorkCondition {
	switch {
	case condition == "Rain" || windSpeed > 20:
		return domain.WorkUnsafe
	case condition == "Clouds" || windSpeed > 15:
		return domain.WorkCaution
	default:
		return domain.WorkGood
	}
}

func cacheKey(location string) string {
	return "sitehub:weather:" + location
}

func (s *Service) fromCache(ctx context.Context, location string) (domain.WeatherReport, bool) {
	if s.cache == nil {
		return domain.WeatherReport{}, false
	}
	raw, err := s.cache.Get(ctx, cacheKey(location)).Bytes()
	if err != nil {
		return domain.WeatherReport{}, false
	}
	var report domain.WeatherReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return domain.WeatherReport{}, false
	}
	return report, true
}

func (s *Service) toCache(ctx context.Context, location string, report domain.WeatherReport) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(location), raw, s.cacheTTL).Err(); err != nil {
		slog.Warn("weather cache write failed", "err", err)
	}
}
