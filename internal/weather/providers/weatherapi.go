package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/i474232898/weather-bot/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultWeatherAPIURL is the public WeatherAPI.com endpoint root.
const DefaultWeatherAPIURL = "http://api.weatherapi.com"

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	lang    string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewWeatherAPIProvider creates a provider for the current.json endpoint.
// An empty baseURL uses DefaultWeatherAPIURL and an empty lang uses "ru".
func NewWeatherAPIProvider(cfg HTTPClientConfig, baseURL, apiKey, lang string) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = DefaultWeatherAPIURL
	}
	if lang == "" {
		lang = "ru"
	}

	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		lang:    lang,
		client:  cfg.Client,
		circuit: newBreaker("weatherapi", cfg.Breaker),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPIPayload struct {
	Location *struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Lat       float64 `json:"lat"`
		Lon       float64 `json:"lon"`
		Localtime string  `json:"localtime"`
	} `json:"location"`
	Current *struct {
		TempC     float64 `json:"temp_c"`
		WindKph   float64 `json:"wind_kph"`
		Humidity  int     `json:"humidity"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *weatherAPIPayload) providerError() *weather.ProviderError {
	if p.Error == nil || p.Error.Message == "" {
		return nil
	}
	return &weather.ProviderError{Code: p.Error.Code, Message: p.Error.Message}
}

// decodeProviderError extracts the error object from a raw body, if any.
func decodeProviderError(body []byte) *weather.ProviderError {
	var payload weatherAPIPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	return payload.providerError()
}

// Current fetches current conditions for a free-text location.
// An error object in the body is returned as *weather.ProviderError.
func (p *WeatherAPIProvider) Current(ctx context.Context, location string) (weather.Report, error) {
	if p.apiKey == "" {
		return weather.Report{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", location)
		values.Set("lang", p.lang)

		u := fmt.Sprintf("%s/v1/current.json?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		var serr *statusError
		if errors.As(err, &serr) {
			if perr := decodeProviderError(serr.Body); perr != nil {
				return weather.Report{}, perr
			}
		}
		return weather.Report{}, fmt.Errorf("weatherapi request: %w", err)
	}
	defer resp.Body.Close()

	var payload weatherAPIPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Report{}, fmt.Errorf("weatherapi decode (status %d): %w", resp.StatusCode, err)
	}

	if perr := payload.providerError(); perr != nil {
		return weather.Report{}, perr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return weather.Report{}, fmt.Errorf("weatherapi unexpected status code: %d", resp.StatusCode)
	}
	if payload.Location == nil || payload.Current == nil {
		return weather.Report{}, fmt.Errorf("weatherapi response missing location or current block")
	}

	return weather.Report{
		Name:         payload.Location.Name,
		Country:      payload.Location.Country,
		Lat:          payload.Location.Lat,
		Lon:          payload.Location.Lon,
		LocalTime:    payload.Location.Localtime,
		TemperatureC: payload.Current.TempC,
		Condition:    payload.Current.Condition.Text,
		WindKph:      payload.Current.WindKph,
		HumidityPct:  payload.Current.Humidity,
	}, nil
}
