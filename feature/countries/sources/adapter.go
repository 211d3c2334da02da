package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
)

// maxBodyBytes caps a single external response.
const maxBodyBytes = 32 << 20

// Payload is the pair of datasets a refresh run works from.
type Payload struct {
	Countries []RawCountry
	Rates     RateTable
}

// Fetcher retrieves both external datasets.
type Fetcher interface {
	Fetch(ctx context.Context) (*Payload, error)
}

// Adapter fetches country facts and exchange rates over HTTP.
type Adapter struct {
	client       *http.Client
	countriesURL string
	ratesURL     string
	timeout      time.Duration
	logger       *zap.Logger
}

// NewAdapter validates the configuration and builds an adapter. A nil client
// gets a transport with dial and header timeouts matching the fetch budget.
func NewAdapter(cfg Config, client *http.Client, logger *zap.Logger) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	countriesURL, err := withFields(cfg.CountriesURL, cfg.Fields)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout()
	if client == nil {
		client = newHTTPClient(timeout)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Adapter{
		client:       client,
		countriesURL: countriesURL,
		ratesURL:     cfg.RatesURL,
		timeout:      timeout,
		logger:       logger,
	}, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

func withFields(raw, fields string) (string, error) {
	if fields == "" {
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", &ConfigurationError{Field: "sources.countries_url", Value: raw, Message: "is not a valid URL", Err: err}
	}
	q := u.Query()
	q.Set("fields", fields)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// CountriesURL returns the country request URL including the fields query.
func (a *Adapter) CountriesURL() string {
	return a.countriesURL
}

// RatesURL returns the exchange-rate request URL.
func (a *Adapter) RatesURL() string {
	return a.ratesURL
}

// Fetch retrieves both datasets concurrently under one deadline and waits for
// both to finish. It succeeds only when both are valid; otherwise it returns a
// single *ExternalFetchFailed naming the failing endpoint (countries first).
func (a *Adapter) Fetch(ctx context.Context) (*Payload, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var (
		countries    []RawCountry
		rates        RateTable
		countriesErr error
		ratesErr     error
		wg           sync.WaitGroup
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		countries, countriesErr = a.fetchCountries(ctx)
	}()

	go func() {
		defer wg.Done()
		rates, ratesErr = a.fetchRates(ctx)
	}()

	wg.Wait()

	switch {
	case countriesErr != nil && ratesErr != nil:
		var failed *ExternalFetchFailed
		if errors.As(countriesErr, &failed) {
			return nil, &ExternalFetchFailed{
				Source:     failed.Source,
				Endpoint:   failed.Endpoint,
				StatusCode: failed.StatusCode,
				Err:        errors.Join(failed.Err, ratesErr),
			}
		}
		return nil, countriesErr
	case countriesErr != nil:
		return nil, countriesErr
	case ratesErr != nil:
		return nil, ratesErr
	}

	return &Payload{Countries: countries, Rates: rates}, nil
}

func (a *Adapter) fetchCountries(ctx context.Context) ([]RawCountry, error) {
	body, err := a.get(ctx, SourceCountries, a.countriesURL)
	if err != nil {
		return nil, err
	}
	countries, err := DecodeCountries(body)
	if err != nil {
		return nil, &ExternalFetchFailed{Source: SourceCountries, Endpoint: a.countriesURL, Err: err}
	}
	return countries, nil
}

func (a *Adapter) fetchRates(ctx context.Context) (RateTable, error) {
	body, err := a.get(ctx, SourceRates, a.ratesURL)
	if err != nil {
		return nil, err
	}
	rates, err := DecodeRates(body)
	if err != nil {
		return nil, &ExternalFetchFailed{Source: SourceRates, Endpoint: a.ratesURL, Err: err}
	}
	return rates, nil
}

func (a *Adapter) get(ctx context.Context, source Source, endpoint string) ([]byte, error) {
	start := time.Now()
	fail := func(status int, err error) error {
		a.logger.Warn("External fetch failed",
			zap.String("source", string(source)),
			zap.String("endpoint", endpoint),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return &ExternalFetchFailed{Source: source, Endpoint: endpoint, StatusCode: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fail(0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fail(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fail(resp.StatusCode, fmt.Errorf("failed to read body: %w", err))
	}
	if len(body) > maxBodyBytes {
		return nil, fail(resp.StatusCode, fmt.Errorf("response exceeds %d bytes", maxBodyBytes))
	}

	a.logger.Debug("External fetch complete",
		zap.String("source", string(source)),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	return body, nil
}
