// Package summary renders the post-refresh artifacts: a PNG image and an XLSX
// report listing the total and the top countries by estimated GDP.
package summary
