package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"foodcourt/internal/handler"
	"foodcourt/internal/server"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(api *echo.Group, _ handler.Guards) {
	api.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	api.GET("/panic", func(c echo.Context) error { panic("boom") })
	api.POST("/echo", func(c echo.Context) error {
		var v map[string]string
		if err := c.Bind(&v); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, v)
	})
}

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := server.New(zerolog.Nop(), server.Options{BodySize: "1K"})
	server.RegisterRoutes(e, handler.Guards{}, pingRoutes{})
	return e
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	e := newServer(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestRegisteredRoutesLiveUnderAPI(t *testing.T) {
	e := newServer(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestErrorEnvelope(t *testing.T) {
	e := newServer(t)

	notFound := httptest.NewRecorder()
	e.ServeHTTP(notFound, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, notFound.Code)
	body := decode(t, notFound)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Not Found", body["message"])

	// panicはRecoverで500
	panicked := httptest.NewRecorder()
	e.ServeHTTP(panicked, httptest.NewRequest(http.MethodGet, "/api/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, panicked.Code)
	assert.Equal(t, "internal error", decode(t, panicked)["message"])
}

func TestBodyLimit(t *testing.T) {
	e := newServer(t)

	big := `{"k":"` + strings.Repeat("a", 2048) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/echo", bytes.NewBufferString(big))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
