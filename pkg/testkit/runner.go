package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Setup builds the handler a scenario runs against.
type Setup func(t *testing.T, s *Scenario) http.Handler

// RunDir runs every *.json scenario in dir, in name order, as a subtest.
func RunDir(t *testing.T, dir string, setup Setup) {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "testkit: no scenario files in %s", dir)
	sort.Strings(paths)

	for _, path := range paths {
		s, err := LoadScenario(path)
		if !assert.NoError(t, err) {
			continue
		}
		t.Run(s.Name, func(t *testing.T) {
			Run(t, setup(t, s), s)
		})
	}
}

// Run fires s at handler and checks the status code and, if set, the body.
func Run(t *testing.T, handler http.Handler, s *Scenario) *httptest.ResponseRecorder {
	t.Helper()

	rec := Do(handler, s.RequestMethod, s.RequestURL, s.RequestBody, s.Headers)

	assert.Equal(t, s.ExpectedCode, rec.Code, "[%s] status code, body: %s", s.Name, rec.Body.String())
	if len(s.ResponseBody) > 0 {
		AssertJSON(t, s.ResponseBody, rec.Body.Bytes(), "[%s] response body", s.Name)
	}
	return rec
}

// Do serves one request against handler. A non-empty body is sent as JSON.
func Do(handler http.Handler, method, url string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	if len(body) > 0 {
		r = bytes.NewReader(body)
	}
	req := httptest.NewRequest(strings.ToUpper(method), url, r)
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}
