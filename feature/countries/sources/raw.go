package sources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"country-cache/core/utils"

	"github.com/iancoleman/orderedmap"
)

// Shape classifies the JSON shape a raw field arrived in. Decoding classifies
// each field once; normalization only ever looks at the decoded result.
type Shape uint8

const (
	ShapeAbsent Shape = iota
	ShapeScalar
	ShapeList
	ShapeObject
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeList:
		return "list"
	case ShapeObject:
		return "object"
	default:
		return "absent"
	}
}

func shapeOf(data []byte) Shape {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ShapeAbsent
	}
	switch trimmed[0] {
	case '[':
		return ShapeList
	case '{':
		return ShapeObject
	default:
		return ShapeScalar
	}
}

// RawCountry is one decoded record of the country facts payload.
// Field decoders never fail: an unexpected shape decodes to an empty value
// so one odd record cannot break the whole batch.
type RawCountry struct {
	Name       NameField       `json:"name"`
	Capital    CapitalField    `json:"capital"`
	Region     TextField       `json:"region"`
	Population PopulationField `json:"population"`
	Currencies CurrencyField   `json:"currencies"`
	Flags      FlagSet         `json:"flags"`
	Flag       TextField       `json:"flag"`

	// DecodeErr is set when the record itself was not a JSON object.
	DecodeErr error `json:"-"`
}

// NameField holds a name sent either as a plain string or as {"common": ...}.
type NameField struct {
	Shape Shape
	Value string
}

func (f *NameField) UnmarshalJSON(data []byte) error {
	f.Shape = shapeOf(data)
	switch f.Shape {
	case ShapeScalar:
		var s string
		if json.Unmarshal(data, &s) == nil {
			f.Value = strings.TrimSpace(s)
		}
	case ShapeObject:
		var nested struct {
			Common any `json:"common"`
		}
		if json.Unmarshal(data, &nested) == nil {
			f.Value = strings.TrimSpace(utils.ToString(nested.Common))
		}
	}
	return nil
}

// TextField is an optional string; non-string scalars are kept in text form.
type TextField struct {
	Shape Shape
	Value string
}

func (f *TextField) UnmarshalJSON(data []byte) error {
	f.Shape = shapeOf(data)
	if f.Shape == ShapeScalar {
		var v any
		if json.Unmarshal(data, &v) == nil {
			f.Value = strings.TrimSpace(utils.ToString(v))
		}
	}
	return nil
}

// CapitalField holds a capital sent as a string or as a list of strings.
type CapitalField struct {
	Shape  Shape
	Values []string
}

func (f *CapitalField) UnmarshalJSON(data []byte) error {
	f.Shape = shapeOf(data)
	switch f.Shape {
	case ShapeScalar:
		var v any
		if json.Unmarshal(data, &v) == nil {
			f.Values = []string{strings.TrimSpace(utils.ToString(v))}
		}
	case ShapeList:
		var list []any
		if json.Unmarshal(data, &list) == nil {
			for _, item := range list {
				f.Values = append(f.Values, strings.TrimSpace(utils.ToString(item)))
			}
		}
	}
	return nil
}

// First returns the first capital, or "" when none was sent.
func (f CapitalField) First() string {
	if len(f.Values) == 0 {
		return ""
	}
	return f.Values[0]
}

// CurrencyField holds currency codes from either a list of {"code": ...}
// entries or an object keyed by code. Object key order is preserved.
type CurrencyField struct {
	Shape Shape
	Codes []string
}

func (f *CurrencyField) UnmarshalJSON(data []byte) error {
	f.Shape = shapeOf(data)
	switch f.Shape {
	case ShapeList:
		var list []json.RawMessage
		if json.Unmarshal(data, &list) != nil {
			return nil
		}
		for _, item := range list {
			var entry struct {
				Code any `json:"code"`
			}
			code := ""
			if shapeOf(item) == ShapeObject && json.Unmarshal(item, &entry) == nil {
				code = strings.TrimSpace(utils.ToString(entry.Code))
			}
			f.Codes = append(f.Codes, code)
		}
	case ShapeObject:
		om := orderedmap.New()
		if json.Unmarshal(data, om) != nil {
			return nil
		}
		for _, key := range om.Keys() {
			f.Codes = append(f.Codes, strings.TrimSpace(key))
		}
	}
	return nil
}

// Primary returns the code of the first currency entry, or "".
func (f CurrencyField) Primary() string {
	if len(f.Codes) == 0 {
		return ""
	}
	return strings.ToUpper(f.Codes[0])
}

// PopulationField holds the raw population scalar before coercion.
type PopulationField struct {
	Shape Shape
	Raw   any
}

func (f *PopulationField) UnmarshalJSON(data []byte) error {
	f.Shape = shapeOf(data)
	if f.Shape == ShapeScalar {
		var v any
		if json.Unmarshal(data, &v) == nil {
			f.Raw = v
		}
	}
	return nil
}

// Number coerces the population to a float64; false when it is not numeric.
func (f PopulationField) Number() (float64, bool) {
	if f.Shape != ShapeScalar {
		return 0, false
	}
	return utils.ToFloat64(f.Raw)
}

// FlagSet holds the flag image links.
type FlagSet struct {
	Shape Shape
	PNG   string
	SVG   string
}

func (f *FlagSet) UnmarshalJSON(data []byte) error {
	f.Shape = shapeOf(data)
	if f.Shape == ShapeObject {
		var links map[string]any
		if json.Unmarshal(data, &links) == nil {
			f.PNG = strings.TrimSpace(utils.ToString(links["png"]))
			f.SVG = strings.TrimSpace(utils.ToString(links["svg"]))
		}
	}
	return nil
}

// DecodeCountries decodes the country facts payload. The payload must be a JSON
// array; a record that is not an object is kept with DecodeErr set so the
// normalizer can reject and count it.
func DecodeCountries(body []byte) ([]RawCountry, error) {
	if shapeOf(body) != ShapeList {
		return nil, fmt.Errorf("invalid countries response: expected a JSON array")
	}

	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("invalid countries response: %w", err)
	}

	countries := make([]RawCountry, len(records))
	for i, record := range records {
		if shapeOf(record) != ShapeObject {
			countries[i].DecodeErr = fmt.Errorf("record %d is a %s, not an object", i, shapeOf(record))
			continue
		}
		if err := json.Unmarshal(record, &countries[i]); err != nil {
			countries[i] = RawCountry{DecodeErr: fmt.Errorf("record %d: %w", i, err)}
		}
	}
	return countries, nil
}

// RateTable maps upper-case currency codes to their exchange rate.
type RateTable map[string]float64

// Lookup returns the rate for code when one exists and is positive.
func (t RateTable) Lookup(code string) (float64, bool) {
	if code == "" {
		return 0, false
	}
	rate, ok := t[strings.ToUpper(code)]
	if !ok || rate <= 0 {
		return 0, false
	}
	return rate, true
}

// DecodeRates decodes an exchange-rate payload. It must carry a "rates" object;
// entries that are not numeric are dropped.
func DecodeRates(body []byte) (RateTable, error) {
	var envelope struct {
		Rates json.RawMessage `json:"rates"`
	}
	if shapeOf(body) != ShapeObject {
		return nil, fmt.Errorf("invalid exchange response: expected a JSON object")
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("invalid exchange response: %w", err)
	}
	if shapeOf(envelope.Rates) != ShapeObject {
		return nil, fmt.Errorf("invalid exchange response: missing rates object")
	}

	var raw map[string]any
	if err := json.Unmarshal(envelope.Rates, &raw); err != nil {
		return nil, fmt.Errorf("invalid exchange response: %w", err)
	}

	table := make(RateTable, len(raw))
	for code, value := range raw {
		if rate, ok := utils.ToFloat64(value); ok {
			table[strings.ToUpper(strings.TrimSpace(code))] = rate
		}
	}
	return table, nil
}
