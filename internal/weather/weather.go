// Package weather fetches current conditions from the OpenWeatherMap API
// and normalizes them into a Report.
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
	"strings"
)

const (
	ProviderName   = "openweathermap"
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// absoluteZero is 0°C expressed in Kelvin.
	absoluteZero = 273.15
)

var (
	// ErrCityNotFound is returned when the provider does not know the requested location.
	ErrCityNotFound = errors.New("city not found")
	// ErrFetchFailed covers transport failures, unexpected statuses and malformed responses.
	ErrFetchFailed = errors.New("weather fetch failed")
)

// Report is the normalized result of a single lookup.
type Report struct {
	City      string
	Kelvin    float64
	Celsius   float64
	Condition string
}

// Fahrenheit returns the temperature in degrees Fahrenheit.
func (r *Report) Fahrenheit() float64 {
	return CelsiusToFahrenheit(r.Celsius)
}

// Format renders the report for the given units, e.g. "Berlin: 12.3°C, light rain".
func (r *Report) Format(units Units) string {
	if units == Imperial {
		return fmt.Sprintf("%s: %.1f°F, %s", r.City, r.Fahrenheit(), r.Condition)
	}
	return fmt.Sprintf("%s: %.1f°C, %s", r.City, r.Celsius, r.Condition)
}

func (r *Report) String() string {
	return r.Format(Metric)
}

// KelvinToCelsius converts a Kelvin reading to degrees Celsius.
func KelvinToCelsius(k float64) float64 {
	return k - absoluteZero
}

// CelsiusToFahrenheit converts degrees Celsius to degrees Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the OpenWeatherMap current weather endpoint.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new weather client. Empty options fall back to defaults.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// currentResponse is the subset of the /weather payload we read.
// cod is a number on success and a string ("404") on errors.
type currentResponse struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
	Name    string          `json:"name"`
	Main    *struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

func (r *currentResponse) code() string {
	return strings.Trim(string(r.Cod), `"`)
}

// Current fetches the current weather for city.
// It returns an error wrapping ErrCityNotFound or ErrFetchFailed.
func (c *Client) Current(ctx context.Context, city string) (*Report, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("%w: empty location", ErrCityNotFound)
	}

	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", c.token)
	endpoint := c.baseURL + "/weather?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching weather", "city", city)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending request: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrFetchFailed, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrCityNotFound, city)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: API error (status %d): %s", ErrFetchFailed, resp.StatusCode, truncate(string(body), 200))
	}

	var result currentResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: parsing response: %w", ErrFetchFailed, err)
	}
	if result.code() == "404" {
		return nil, fmt.Errorf("%w: %s", ErrCityNotFound, city)
	}
	if result.Main == nil || result.Main.Temp == nil {
		return nil, fmt.Errorf("%w: response has no temperature", ErrFetchFailed)
	}
	if len(result.Weather) == 0 {
		return nil, fmt.Errorf("%w: response has no conditions", ErrFetchFailed)
	}

	name := result.Name
	if name == "" {
		name = city
	}
	condition := result.Weather[0].Description
	if condition == "" {
		condition = strings.ToLower(result.Weather[0].Main)
	}

	kelvin := *result.Main.Temp
	report := &Report{
		City:      name,
		Kelvin:    kelvin,
		Celsius:   KelvinToCelsius(kelvin),
		Condition: condition,
	}
	c.logger.Debug("weather fetched", "city", report.City, "celsius", report.Celsius, "condition", report.Condition)
	return report, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
