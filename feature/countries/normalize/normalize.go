package normalize

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"country-cache/core/utils"
	"country-cache/feature/countries/models"
	"country-cache/feature/countries/sources"
)

// Bounds of the synthetic GDP multiplier, inclusive.
const (
	MinMultiplier = 1000
	MaxMultiplier = 2000
)

// ErrRejected marks a raw record dropped during normalization.
var ErrRejected = errors.New("record rejected")

// Reason says why a record was rejected.
type Reason string

const (
	ReasonMalformed         Reason = "malformed record"
	ReasonMissingName       Reason = "missing name"
	ReasonMissingPopulation Reason = "missing population"
	ReasonInvalidPopulation Reason = "non-numeric population"
	ReasonNonPositive       Reason = "population not positive"
	ReasonFractional        Reason = "population not a whole number"
	ReasonOutOfRange        Reason = "population out of range"
)

// Rejection is returned for a record that cannot become a row.
type Rejection struct {
	Name   string
	Reason Reason
}

// Error implements the error interface
func (r *Rejection) Error() string {
	if r.Name == "" {
		return fmt.Sprintf("record rejected: %s", r.Reason)
	}
	return fmt.Sprintf("record %q rejected: %s", r.Name, r.Reason)
}

// Is implements errors.Is support
func (r *Rejection) Is(target error) bool {
	return target == ErrRejected
}

// Multiplier draws the synthetic GDP factor for one row.
type Multiplier interface {
	Draw() int
}

// MultiplierFunc adapts a function to Multiplier.
type MultiplierFunc func() int

// Draw calls f.
func (f MultiplierFunc) Draw() int { return f() }

// RandomMultiplier draws uniformly from [MinMultiplier, MaxMultiplier]. The value is
// intentional variance, not an economic model.
var RandomMultiplier Multiplier = MultiplierFunc(func() int {
	return MinMultiplier + rand.IntN(MaxMultiplier-MinMultiplier+1)
})

// Normalize maps one raw record and the rate table to a canonical row.
// It has no side effects; a *Rejection error means the record is skipped.
func Normalize(raw sources.RawCountry, rates sources.RateTable, runAt time.Time, mult Multiplier) (models.Country, error) {
	if raw.DecodeErr != nil {
		return models.Country{}, &Rejection{Reason: ReasonMalformed}
	}

	name := raw.Name.Value
	if name == "" {
		return models.Country{}, &Rejection{Reason: ReasonMissingName}
	}

	population, reason := population(raw.Population)
	if reason != "" {
		return models.Country{}, &Rejection{Name: name, Reason: reason}
	}

	row := models.Country{
		Name:            name,
		NameKey:         models.Key(name),
		Capital:         utils.StringPtr(raw.Capital.First()),
		Region:          utils.StringPtr(raw.Region.Value),
		Population:      population,
		CurrencyCode:    utils.StringPtr(raw.Currencies.Primary()),
		FlagURL:         flagURL(raw),
		LastRefreshedAt: runAt,
	}

	if row.CurrencyCode != nil {
		if rate, ok := rates.Lookup(*row.CurrencyCode); ok {
			gdp := float64(population) * float64(mult.Draw()) / rate
			// A rate small enough to overflow the estimate is not usable.
			if !math.IsInf(gdp, 0) && !math.IsNaN(gdp) {
				row.ExchangeRate = &rate
				row.EstimatedGDP = gdp
			}
		}
	}
	// EstimatedGDP stays exactly 0 when no usable rate exists.

	return row, nil
}

func population(f sources.PopulationField) (int64, Reason) {
	if f.Shape == sources.ShapeAbsent {
		return 0, ReasonMissingPopulation
	}
	n, ok := f.Number()
	if !ok {
		return 0, ReasonInvalidPopulation
	}
	if n <= 0 {
		return 0, ReasonNonPositive
	}
	if n != math.Trunc(n) {
		return 0, ReasonFractional
	}
	if n >= 1<<63 {
		return 0, ReasonOutOfRange
	}
	return int64(n), ""
}

func flagURL(raw sources.RawCountry) *string {
	if p := utils.StringPtr(raw.Flags.PNG); p != nil {
		return p
	}
	if p := utils.StringPtr(raw.Flags.SVG); p != nil {
		return p
	}
	return utils.StringPtr(raw.Flag.Value)
}

// Batch is the outcome of normalizing a whole payload.
type Batch struct {
	Rows       []models.Country
	Rejections []*Rejection
}

// All normalizes every record. Records sharing a case-insensitive name collapse
// to the last occurrence so one upsert statement never conflicts with itself.
func All(payload *sources.Payload, runAt time.Time, mult Multiplier) Batch {
	var batch Batch
	index := make(map[string]int, len(payload.Countries))

	for _, raw := range payload.Countries {
		row, err := Normalize(raw, payload.Rates, runAt, mult)
		if err != nil {
			var rej *Rejection
			if errors.As(err, &rej) {
				batch.Rejections = append(batch.Rejections, rej)
			}
			continue
		}
		if i, seen := index[row.NameKey]; seen {
			batch.Rows[i] = row
			continue
		}
		index[row.NameKey] = len(batch.Rows)
		batch.Rows = append(batch.Rows, row)
	}
	return batch
}
