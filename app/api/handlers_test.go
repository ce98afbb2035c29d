package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sahaya/app/client/gemini"
	"sahaya/app/config"
	"sahaya/app/service/area"
	"sahaya/app/service/assistant"
	"sahaya/app/service/history"
	"sahaya/app/service/resolver"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	di := do.New()
	t.Cleanup(func() {
		_ = di.Shutdown()
	})

	cfg := &config.Config{
		Server: config.Server{Addr: "127.0.0.1:0"},
		Gemini: config.Gemini{
			BaseURL: "http://127.0.0.1:1",
			Models:  []string{"gemini-test"},
		},
		Safety: config.Safety{
			Mode:         assistant.ModelTypeRules,
			TrustedZones: []string{"chandigarh university"},
		},
	}
	do.ProvideValue(di, cfg)

	do.Provide(di, gemini.NewClient)
	do.Provide(di, resolver.New)
	do.Provide(di, history.New)
	do.Provide(di, area.New)
	do.Provide(di, assistant.New)
	do.Provide(di, New)

	return do.MustInvoke[*Server](di)
}

func doJSON(t *testing.T, s *Server, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	return resp.StatusCode, parsed
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	status, body := doJSON(t, s, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["service"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestStatus(t *testing.T) {
	s := newTestServer(t)

	status, body := doJSON(t, s, http.MethodGet, "/api/status", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "1.0.0", body["version"])
}

func TestChatEmptyMessage(t *testing.T) {
	s := newTestServer(t)

	status, body := doJSON(t, s, http.MethodPost, "/api/ai/chat", `{"message":"   "}`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestChatMissingBody(t *testing.T) {
	s := newTestServer(t)

	status, body := doJSON(t, s, http.MethodPost, "/api/ai/chat", `{}`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

func TestChatRoutesKeyword(t *testing.T) {
	s := newTestServer(t)

	status, body := doJSON(t, s, http.MethodPost, "/api/ai/chat", `{"message":"I am scared of walking home"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, assistant.ModelTypeRules, body["model_type"])
	assert.Contains(t, body["response"], "scared")
}

func TestSupport(t *testing.T) {
	s := newTestServer(t)

	status, body := doJSON(t, s, http.MethodPost, "/api/ai/support", `{"concern":"walking alone at night"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["response"])
}

func TestSupportMissingConcern(t *testing.T) {
	s := newTestServer(t)

	status, body := doJSON(t, s, http.MethodPost, "/api/ai/support", `{}`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

func TestThreatAssessment(t *testing.T) {
	s := newTestServer(t)

	status, body := doJSON(t, s, http.MethodPost, "/api/ai/threat-assessment", `{"threat":"someone is following me"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["emergency"])
	assert.NotEmpty(t, body["response"])
}

func TestAreaSafetyNamedVariant(t *testing.T) {
	s := newTestServer(t)

	status, body := doJSON(t, s, http.MethodPost, "/api/ai/area-safety",
		`{"area_name":"Market Street","time_of_day":"9:00 PM"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(85), body["safety_score"])
	assert.NotEmpty(t, body["ai_analysis"])
	assert.Nil(t, body["area_analysis"])
}

func TestAreaSafetyTrustedZone(t *testing.T) {
	s := newTestServer(t)

	status, body := doJSON(t, s, http.MethodPost, "/api/ai/area-safety",
		`{"area_name":"Chandigarh University Campus","time_of_day":"11:00 PM"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(98), body["safety_score"])
}

func TestAreaSafetyCoordinateVariant(t *testing.T) {
	s := newTestServer(t)

	status, body := doJSON(t, s, http.MethodPost, "/api/ai/area-safety",
		`{"latitude":30.76,"longitude":76.57}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["ai_analysis"])

	analysis, ok := body["area_analysis"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, analysis["analysis"], "(30.76, 76.57)")

	location, ok := analysis["location"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(500), location["radius"])
}

func TestAreaSafetyMissingEverything(t *testing.T) {
	s := newTestServer(t)

	status, body := doJSON(t, s, http.MethodPost, "/api/ai/area-safety", `{}`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

func TestHistoryFlow(t *testing.T) {
	s := newTestServer(t)

	status, body := doJSON(t, s, http.MethodGet, "/api/chat/history", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["count"])

	_, _ = doJSON(t, s, http.MethodPost, "/api/ai/chat", `{"message":"I need help"}`)

	status, body = doJSON(t, s, http.MethodGet, "/api/chat/history", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)

	first := messages[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "I need help", first["content"])

	second := messages[1].(map[string]any)
	assert.Equal(t, "assistant", second["role"])

	status, body = doJSON(t, s, http.MethodPost, "/api/chat/clear", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, body = doJSON(t, s, http.MethodGet, "/api/chat/history", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["count"])
}

func TestStats(t *testing.T) {
	s := newTestServer(t)

	_, _ = doJSON(t, s, http.MethodPost, "/api/ai/chat", `{"message":"I need help"}`)

	status, body := doJSON(t, s, http.MethodGet, "/api/chat/stats", "")
	assert.Equal(t, http.StatusOK, status)

	stats, ok := body["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), stats["total_messages"])
	assert.Equal(t, float64(1), stats["user_messages"])
	assert.Equal(t, float64(1), stats["ai_messages"])
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	status, body := doJSON(t, s, http.MethodGet, "/api/nope", "")

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
}
