package sources

import (
	"net/url"
	"time"
)

// Config holds the external endpoints the refresh pipeline reads from.
type Config struct {
	// CountriesURL returns the list of country facts.
	CountriesURL string `mapstructure:"countries_url" default:""`
	// RatesURL returns an object with a "rates" map of currency code to rate.
	RatesURL string `mapstructure:"rates_url" default:""`
	// Fields is sent as the "fields" query parameter of the countries request.
	Fields string `mapstructure:"fields" default:"name,capital,region,population,flag,flags,currencies"`
	// TimeoutSeconds is the budget shared by both fetches.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
}

// Timeout returns the fetch budget, defaulting to 15 seconds.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks that both endpoints are absolute http(s) URLs.
func (c Config) Validate() error {
	if err := validateURL("sources.countries_url", c.CountriesURL); err != nil {
		return err
	}
	return validateURL("sources.rates_url", c.RatesURL)
}

func validateURL(field, raw string) error {
	if raw == "" {
		return &ConfigurationError{Field: field, Message: "is required"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &ConfigurationError{Field: field, Value: raw, Message: "is not a valid URL", Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ConfigurationError{Field: field, Value: raw, Message: "must use http or https"}
	}
	if u.Host == "" {
		return &ConfigurationError{Field: field, Value: raw, Message: "must include a host"}
	}
	return nil
}
