// Package utils provides common utility functions for the country cache.
// It includes helpers for coercing loosely typed JSON values and building
// optional string fields.
package utils
