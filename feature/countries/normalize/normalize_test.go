package normalize

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"country-cache/feature/countries/sources"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var runAt = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func fixed(n int) Multiplier {
	return MultiplierFunc(func() int { return n })
}

func decodeOne(t *testing.T, record string) sources.RawCountry {
	t.Helper()
	countries, err := sources.DecodeCountries([]byte("[" + record + "]"))
	require.NoError(t, err)
	require.Len(t, countries, 1)
	return countries[0]
}

func TestNormalize_FullRecord(t *testing.T) {
	raw := decodeOne(t, `{
	  "name": {"common": "Japan"},
	  "capital": ["Tokyo", "Kyoto"],
	  "region": "Asia",
	  "population": 125000000,
	  "currencies": {"JPY": {"name": "Japanese yen"}},
	  "flags": {"png": "https://flags.example/jp.png", "svg": "https://flags.example/jp.svg"}
	}`)
	rates := sources.RateTable{"JPY": 150}

	row, err := Normalize(raw, rates, runAt, fixed(1200))
	require.NoError(t, err)

	assert.Equal(t, "Japan", row.Name)
	assert.Equal(t, "japan", row.NameKey)
	assert.Equal(t, "Tokyo", *row.Capital)
	assert.Equal(t, "Asia", *row.Region)
	assert.Equal(t, int64(125000000), row.Population)
	assert.Equal(t, "JPY", *row.CurrencyCode)
	require.NotNil(t, row.ExchangeRate)
	assert.Equal(t, 150.0, *row.ExchangeRate)
	assert.Equal(t, 125000000.0*1200/150, row.EstimatedGDP)
	assert.Equal(t, "https://flags.example/jp.png", *row.FlagURL)
	assert.Equal(t, runAt, row.LastRefreshedAt)
}

func TestNormalize_FlagFallbacks(t *testing.T) {
	svg := decodeOne(t, `{"name": "A", "population": 1, "flags": {"svg": "https://f/a.svg"}}`)
	row, err := Normalize(svg, nil, runAt, fixed(1000))
	require.NoError(t, err)
	assert.Equal(t, "https://f/a.svg", *row.FlagURL)

	legacy := decodeOne(t, `{"name": "B", "population": 1, "flag": "https://f/b.svg"}`)
	row, err = Normalize(legacy, nil, runAt, fixed(1000))
	require.NoError(t, err)
	assert.Equal(t, "https://f/b.svg", *row.FlagURL)

	none := decodeOne(t, `{"name": "C", "population": 1}`)
	row, err = Normalize(none, nil, runAt, fixed(1000))
	require.NoError(t, err)
	assert.Nil(t, row.FlagURL)
	assert.Nil(t, row.Capital)
	assert.Nil(t, row.Region)
}

func TestNormalize_NoUsableRate(t *testing.T) {
	tests := []struct {
		name   string
		record string
		rates  sources.RateTable
	}{
		{"UnknownCode", `{"name": "X", "population": 10, "currencies": [{"code": "XXX"}]}`, sources.RateTable{"USD": 1}},
		{"ZeroRate", `{"name": "X", "population": 10, "currencies": [{"code": "ZZZ"}]}`, sources.RateTable{"ZZZ": 0}},
		{"NoCurrency", `{"name": "Antarctica", "population": 1000}`, sources.RateTable{"USD": 1}},
		{"EmptyCurrencyList", `{"name": "X", "population": 10, "currencies": []}`, sources.RateTable{"USD": 1}},
		{"OverflowingRate", `{"name": "Tiny", "population": 9000000000, "currencies": [{"code": "TNY"}]}`, sources.RateTable{"TNY": 1e-320}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := Normalize(decodeOne(t, tt.record), tt.rates, runAt, fixed(1500))
			require.NoError(t, err)
			assert.Nil(t, row.ExchangeRate)
			assert.Equal(t, 0.0, row.EstimatedGDP)
		})
	}
}

func TestNormalize_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		record string
		reason Reason
	}{
		{"NoName", `{"population": 10}`, ReasonMissingName},
		{"BlankName", `{"name": "  ", "population": 10}`, ReasonMissingName},
		{"NestedWithoutCommon", `{"name": {"official": "X"}, "population": 10}`, ReasonMissingName},
		{"NoPopulation", `{"name": "X"}`, ReasonMissingPopulation},
		{"NullPopulation", `{"name": "X", "population": null}`, ReasonMissingPopulation},
		{"TextPopulation", `{"name": "X", "population": "lots"}`, ReasonInvalidPopulation},
		{"ZeroPopulation", `{"name": "X", "population": 0}`, ReasonNonPositive},
		{"NegativePopulation", `{"name": "X", "population": -4}`, ReasonNonPositive},
		{"FractionalPopulation", `{"name": "X", "population": 10.5}`, ReasonFractional},
		{"NotAnObject", `"X"`, ReasonMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(decodeOne(t, tt.record), nil, runAt, fixed(1000))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrRejected))

			var rej *Rejection
			require.ErrorAs(t, err, &rej)
			assert.Equal(t, tt.reason, rej.Reason)
		})
	}
}

func TestNormalize_GDPBounds(t *testing.T) {
	faker := gofakeit.New(7)

	for i := 0; i < 200; i++ {
		population := int64(faker.Number(1, 1_500_000_000))
		rate := faker.Float64Range(0.01, 20000)
		record, err := json.Marshal(map[string]any{
			"name":       faker.Country(),
			"population": population,
			"currencies": []map[string]string{{"code": "AAA"}},
		})
		require.NoError(t, err)

		row, err := Normalize(decodeOne(t, string(record)), sources.RateTable{"AAA": rate}, runAt, RandomMultiplier)
		require.NoError(t, err)

		low := float64(population) * MinMultiplier / rate
		high := float64(population) * MaxMultiplier / rate
		assert.GreaterOrEqual(t, row.EstimatedGDP, low*(1-1e-12))
		assert.LessOrEqual(t, row.EstimatedGDP, high*(1+1e-12))
	}
}

func TestRandomMultiplier_Range(t *testing.T) {
	for i := 0; i < 5000; i++ {
		m := RandomMultiplier.Draw()
		assert.GreaterOrEqual(t, m, MinMultiplier)
		assert.LessOrEqual(t, m, MaxMultiplier)
	}
}

func TestAll(t *testing.T) {
	body := `[
	  {"name": "Japan", "population": 1, "currencies": [{"code": "JPY"}]},
	  {"name": "Peru", "population": 0},
	  {"name": "JAPAN", "population": 2, "currencies": [{"code": "JPY"}]},
	  {"population": 5},
	  {"name": "Chile", "population": 3}
	]`
	countries, err := sources.DecodeCountries([]byte(body))
	require.NoError(t, err)

	batch := All(&sources.Payload{Countries: countries, Rates: sources.RateTable{"JPY": 100}}, runAt, fixed(1000))

	require.Len(t, batch.Rows, 2)
	assert.Len(t, batch.Rejections, 2)

	// The later duplicate wins but keeps the first position.
	assert.Equal(t, "JAPAN", batch.Rows[0].Name)
	assert.Equal(t, int64(2), batch.Rows[0].Population)
	assert.Equal(t, "Chile", batch.Rows[1].Name)
	assert.Equal(t, "Peru", batch.Rejections[0].Name)
}
