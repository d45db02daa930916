package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobly/jobs-service/internal/auth"
)

// captureLogs routes the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func logLines(t *testing.T, buf *bytes.Buffer) map[string]map[string]any {
	t.Helper()
	lines := map[string]map[string]any{}
	sc := bufio.NewScanner(buf)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		lines[rec["msg"].(string)] = rec
	}
	return lines
}

func TestStack_PanicLogCarriesRequestID(t *testing.T) {
	buf := captureLogs(t)
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	req := request("")
	req.Header.Set("X-Request-ID", "req-7")
	rr := httptest.NewRecorder()
	Stack(panicky, &stubValidator{}).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "req-7", rr.Header().Get("X-Request-ID"))

	lines := logLines(t, buf)
	require.Contains(t, lines, "panic recovered")
	assert.Equal(t, "req-7", lines["panic recovered"]["request_id"])
	require.Contains(t, lines, "request")
	assert.Equal(t, "req-7", lines["request"]["request_id"])
	assert.EqualValues(t, http.StatusInternalServerError, lines["request"]["status"])
}

func TestStack_Authenticates(t *testing.T) {
	h := &captureHandler{}
	v := &stubValidator{claims: &auth.Claims{Username: "admin", IsAdmin: true}}

	req := request("Bearer tok")
	Stack(h, v).ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, h.called)
	require.NotNil(t, GetClaims(h.ctx))
	assert.Equal(t, "admin", GetClaims(h.ctx).Username)
	assert.NotEmpty(t, GetRequestID(h.ctx))
}
