// Package status serves the cache aggregate at GET /status.
package status
