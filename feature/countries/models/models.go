package models

import (
	"strings"
	"time"
)

// Country is one row of the countries reference table.
type Country struct {
	ID uint `gorm:"column:id;primaryKey" json:"id"`
	// Name keeps the display casing received from the source.
	Name string `gorm:"column:name;size:191;not null" json:"name"`
	// NameKey is the lower-cased name, the case-insensitive identity of the row.
	NameKey         string    `gorm:"column:name_key;size:191;not null;uniqueIndex:idx_countries_name_key" json:"-"`
	Capital         *string   `gorm:"column:capital;size:191" json:"capital"`
	Region          *string   `gorm:"column:region;size:64;index" json:"region"`
	Population      int64     `gorm:"column:population;not null" json:"population"`
	CurrencyCode    *string   `gorm:"column:currency_code;size:16;index" json:"currency_code"`
	ExchangeRate    *float64  `gorm:"column:exchange_rate" json:"exchange_rate"`
	EstimatedGDP    float64   `gorm:"column:estimated_gdp;not null;default:0" json:"estimated_gdp"`
	FlagURL         *string   `gorm:"column:flag_url;size:512" json:"flag_url"`
	LastRefreshedAt time.Time `gorm:"column:last_refreshed_at;not null;index" json:"last_refreshed_at"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"-"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"-"`
}

// TableName overrides the table name.
func (Country) TableName() string {
	return "countries"
}

// Key returns the case-insensitive identity for a country name.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MutableColumns are the columns rewritten when an upsert hits an existing row.
var MutableColumns = []string{
	"name",
	"capital",
	"region",
	"population",
	"currency_code",
	"exchange_rate",
	"estimated_gdp",
	"flag_url",
	"last_refreshed_at",
	"updated_at",
}

// Status is the aggregate reported by GET /status.
type Status struct {
	TotalCountries  int64      `json:"total_countries"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
}
