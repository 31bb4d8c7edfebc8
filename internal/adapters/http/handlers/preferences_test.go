package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Infernape3000/Tenacio/internal/adapters/store"
	"github.com/Infernape3000/Tenacio/internal/app"
)

func newPreferencesRouter(t *testing.T) *gin.Engine {
	t.Helper()

	handler := NewPreferencesHandler(app.NewPreferencesStore(store.NewMemoryStore()))

	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterPreferencesRoutes(api)

	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestPreferencesHandler_Get_Defaults(t *testing.T) {
	router := newPreferencesRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/preferences", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp PreferencesPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Role)
	assert.False(t, resp.ConsentGiven)
}

func TestPreferencesHandler_PutThenGet(t *testing.T) {
	router := newPreferencesRouter(t)

	w := doJSON(router, http.MethodPut, "/api/v1/preferences", `{"role":"Student","consentGiven":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/preferences", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp PreferencesPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Student", resp.Role)
	assert.True(t, resp.ConsentGiven)
}

func TestPreferencesHandler_Put_UnknownRole(t *testing.T) {
	router := newPreferencesRouter(t)

	w := doJSON(router, http.MethodPut, "/api/v1/preferences", `{"role":"Wizard","consentGiven":false}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestPreferencesHandler_Put_MalformedBody(t *testing.T) {
	router := newPreferencesRouter(t)

	w := doJSON(router, http.MethodPut, "/api/v1/preferences", `{"role":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreferencesHandler_ListRoles(t *testing.T) {
	router := newPreferencesRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/preferences/roles", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp RolesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Roles, "Student")
	assert.Contains(t, resp.Roles, "Professional")
}
