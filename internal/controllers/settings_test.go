package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gamelogger/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Theme() (models.Theme, error) {
	args := m.Called()
	return args.Get(0).(models.Theme), args.Error(1)
}

func (m *MockSettingsService) SetTheme(theme models.Theme) error {
	return m.Called(theme).Error(0)
}

func settingsRouter(c *SettingsController) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/settings/theme", c.GetTheme)
	r.Put("/api/settings/theme", c.SetTheme)
	return r
}

func TestSettingsController_GetTheme(t *testing.T) {
	svc := new(MockSettingsService)
	svc.On("Theme").Return(models.ThemeDark, nil)

	router := settingsRouter(NewSettingsController(svc, discardLogger()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings/theme", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"theme":"dark"}`, rec.Body.String())
}

func TestSettingsController_SetTheme(t *testing.T) {
	svc := new(MockSettingsService)
	svc.On("SetTheme", models.ThemeLight).Return(nil)

	router := settingsRouter(NewSettingsController(svc, discardLogger()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings/theme", strings.NewReader(`{"theme":"light"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestSettingsController_SetTheme_Invalid(t *testing.T) {
	svc := new(MockSettingsService)
	router := settingsRouter(NewSettingsController(svc, discardLogger()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings/theme", strings.NewReader(`{"theme":"sepia"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "SetTheme", mock.Anything)
}
