package status_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"country-cache/feature/countries/models"
	"country-cache/feature/status"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) Status(ctx context.Context) (models.Status, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Status), args.Error(1)
}

func get(t *testing.T, reporter status.Reporter) (int, string) {
	t.Helper()
	app := fiber.New()
	require.NoError(t, status.NewFeature(reporter, zap.NewNop()).Load(app))

	resp, err := app.Test(httptest.NewRequest("GET", "/status", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHandleStatus(t *testing.T) {
	t.Run("Before First Refresh", func(t *testing.T) {
		m := new(mockReporter)
		m.On("Status", mock.Anything).Return(models.Status{}, nil)

		code, body := get(t, m)
		assert.Equal(t, fiber.StatusOK, code)
		assert.JSONEq(t, `{"total_countries":0,"last_refreshed_at":null}`, body)
	})

	t.Run("After Refresh", func(t *testing.T) {
		at := time.Date(2025, 10, 22, 18, 0, 0, 0, time.UTC)
		m := new(mockReporter)
		m.On("Status", mock.Anything).Return(models.Status{TotalCountries: 250, LastRefreshedAt: &at}, nil)

		code, body := get(t, m)
		assert.Equal(t, fiber.StatusOK, code)
		assert.JSONEq(t, `{"total_countries":250,"last_refreshed_at":"2025-10-22T18:00:00Z"}`, body)
	})

	t.Run("Store Error", func(t *testing.T) {
		m := new(mockReporter)
		m.On("Status", mock.Anything).Return(models.Status{}, errors.New("db down"))

		code, body := get(t, m)
		assert.Equal(t, fiber.StatusInternalServerError, code)
		assert.JSONEq(t, `{"error":"Internal server error"}`, body)
	})
}
