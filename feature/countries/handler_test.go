package countries_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"country-cache/core/artifact"
	"country-cache/core/database"
	"country-cache/feature/countries"
	"country-cache/feature/countries/models"
	"country-cache/feature/countries/normalize"
	"country-cache/feature/countries/refresh"
	"country-cache/feature/countries/sources"
	"country-cache/feature/countries/store"
	"country-cache/feature/countries/summary"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const countriesJSON = `[
	{"name":"Nigeria","capital":"Abuja","region":"Africa","population":206139589,
	 "currencies":[{"code":"NGN","name":"Nigerian naira"}],"flags":{"png":"https://flags.example/ng.png"}},
	{"name":{"common":"Ghana"},"capital":["Accra"],"region":"Africa","population":31072940,
	 "currencies":{"GHS":{"name":"Ghanaian cedi"}}},
	{"name":"Germany","region":"Europe","population":83240525,"currencies":[{"code":"EUR"}]},
	{"name":"Nowhere","region":"Europe"}
]`

type fetcherFunc func(ctx context.Context) (*sources.Payload, error)

func (f fetcherFunc) Fetch(ctx context.Context) (*sources.Payload, error) { return f(ctx) }

type fixture struct {
	app   *fiber.App
	store *store.Store
}

func newFixture(t *testing.T, fetcher sources.Fetcher) fixture {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	st := store.New(db, 100)
	require.NoError(t, st.AutoMigrate())

	artifacts, err := artifact.NewFileStore(t.TempDir())
	require.NoError(t, err)
	pub := summary.NewPublisher(st, artifacts, "summary", logger, summary.PNGRenderer{}, summary.XLSXRenderer{})
	sync := refresh.NewSynchronizer(fetcher, st, pub, logger,
		refresh.WithMultiplier(normalize.MultiplierFunc(func() int { return 1000 })))

	app := fiber.New()
	feature := countries.NewFeature(sync, st, artifacts, "summary", logger)
	require.NoError(t, feature.Load(app))
	return fixture{app: app, store: st}
}

func okFetcher(t *testing.T) sources.Fetcher {
	raw, err := sources.DecodeCountries([]byte(countriesJSON))
	require.NoError(t, err)
	p := &sources.Payload{Countries: raw, Rates: sources.RateTable{"NGN": 1600, "EUR": 0.92}}
	return fetcherFunc(func(context.Context) (*sources.Payload, error) { return p, nil })
}

func do(t *testing.T, app *fiber.App, method, target string) (int, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil), 5000)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestRefreshAndLookup(t *testing.T) {
	f := newFixture(t, okFetcher(t))

	status, body := do(t, f.app, "POST", "/countries/refresh")
	require.Equal(t, fiber.StatusOK, status, string(body))

	var res countries.RefreshResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "Refresh successful", res.Message)
	assert.Equal(t, 3, res.CountriesProcessed)
	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, int64(3), res.TotalCountries)
	assert.WithinDuration(t, time.Now(), res.LastRefreshedAt, time.Minute)

	for _, name := range []string{"nigeria", "NIGERIA", "Nigeria"} {
		status, body = do(t, f.app, "GET", "/countries/"+name)
		require.Equal(t, fiber.StatusOK, status, name)

		var c models.Country
		require.NoError(t, json.Unmarshal(body, &c))
		assert.Equal(t, "Nigeria", c.Name)
		require.NotNil(t, c.Capital)
		assert.Equal(t, "Abuja", *c.Capital)
		require.NotNil(t, c.ExchangeRate)
		assert.Equal(t, 1600.0, *c.ExchangeRate)
		assert.Equal(t, float64(206139589)*1000/1600, c.EstimatedGDP)
	}

	status, body = do(t, f.app, "GET", "/countries/ghana")
	require.Equal(t, fiber.StatusOK, status)
	var ghana models.Country
	require.NoError(t, json.Unmarshal(body, &ghana))
	assert.Nil(t, ghana.ExchangeRate)
	assert.Zero(t, ghana.EstimatedGDP)

	status, _ = do(t, f.app, "DELETE", "/countries/GHANA")
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = do(t, f.app, "GET", "/countries/Ghana")
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = do(t, f.app, "DELETE", "/countries/ghana")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestList(t *testing.T) {
	f := newFixture(t, okFetcher(t))
	status, _ := do(t, f.app, "POST", "/countries/refresh")
	require.Equal(t, fiber.StatusOK, status)

	t.Run("Region Filter", func(t *testing.T) {
		status, body := do(t, f.app, "GET", "/countries?region=africa&sort=population_desc")
		require.Equal(t, fiber.StatusOK, status)
		var items []models.Country
		require.NoError(t, json.Unmarshal(body, &items))
		require.Len(t, items, 2)
		assert.Equal(t, "Nigeria", items[0].Name)
		assert.Equal(t, "Ghana", items[1].Name)
	})

	t.Run("Paging", func(t *testing.T) {
		status, body := do(t, f.app, "GET", "/countries?sort=gdp_desc&page=2&limit=2")
		require.Equal(t, fiber.StatusOK, status)
		var items []models.Country
		require.NoError(t, json.Unmarshal(body, &items))
		require.Len(t, items, 1)
		assert.Equal(t, "Ghana", items[0].Name)
	})

	t.Run("Sort None", func(t *testing.T) {
		status, body := do(t, f.app, "GET", "/countries?sort=none")
		require.Equal(t, fiber.StatusOK, status, string(body))
		var items []models.Country
		require.NoError(t, json.Unmarshal(body, &items))
		assert.Len(t, items, 3)
	})

	t.Run("Empty Result Is Array", func(t *testing.T) {
		status, body := do(t, f.app, "GET", "/countries?currency=XYZ")
		require.Equal(t, fiber.StatusOK, status)
		assert.JSONEq(t, "[]", string(body))
	})

	for _, target := range []string{
		"/countries?sort=name",
		"/countries?page=0",
		"/countries?page=abc",
		"/countries?limit=1001",
	} {
		status, _ := do(t, f.app, "GET", target)
		assert.Equal(t, fiber.StatusBadRequest, status, target)
	}
}

func TestRefreshExternalFailure(t *testing.T) {
	failing := fetcherFunc(func(context.Context) (*sources.Payload, error) {
		return nil, &sources.ExternalFetchFailed{
			Source:   sources.SourceRates,
			Endpoint: "https://rates.example/latest",
			Err:      context.DeadlineExceeded,
		}
	})
	f := newFixture(t, failing)

	status, body := do(t, f.app, "POST", "/countries/refresh")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.JSONEq(t, `{"error":"External data source unavailable","details":"https://rates.example/latest"}`, string(body))

	total, err := f.store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRefreshNoValidData(t *testing.T) {
	raw, err := sources.DecodeCountries([]byte(`[{"name":"A"},{"population":3}]`))
	require.NoError(t, err)
	f := newFixture(t, fetcherFunc(func(context.Context) (*sources.Payload, error) {
		return &sources.Payload{Countries: raw}, nil
	}))

	status, body := do(t, f.app, "POST", "/countries/refresh")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"No valid country data found"}`, string(body))
}

func TestArtifacts(t *testing.T) {
	f := newFixture(t, okFetcher(t))

	status, body := do(t, f.app, "GET", "/countries/image")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Summary image not found"}`, string(body))

	status, _ = do(t, f.app, "POST", "/countries/refresh")
	require.Equal(t, fiber.StatusOK, status)

	resp, err := f.app.Test(httptest.NewRequest("GET", "/countries/image", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
	img, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(img[:4]))

	resp, err = f.app.Test(httptest.NewRequest("GET", "/countries/report", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "spreadsheetml")
}
