// Package testkit drives HTTP API tests from JSON scenario files and opens
// throwaway migrated databases for them.
//
// Scenario files live next to the tests:
//
//	testdata/
//	  place_order_ok.json
//	  place_order_insufficient.json
//
// and are run as subtests:
//
//	testkit.RunDir(t, "testdata", func(t *testing.T, s *testkit.Scenario) http.Handler {
//	    db := testkit.OpenDB(t)
//	    // load s.Fixtures into db
//	    return handlerOver(db)
//	})
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Scenario is one request and its expected response.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Fixtures is opaque to testkit; the setup callback decides its shape.
	Fixtures json.RawMessage `json:"fixtures"`

	RequestMethod string            `json:"requestMethod"`
	RequestURL    string            `json:"requestUrl"`
	RequestBody   json.RawMessage   `json:"requestBody"`
	Headers       map[string]string `json:"headers"`

	ExpectedCode int             `json:"expectedCode"`
	ResponseBody json.RawMessage `json:"responseBody"` // compared as JSON when set

	path string
}

// Path is the file the scenario was loaded from.
func (s *Scenario) Path() string { return s.path }

// LoadScenario reads and checks one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := &Scenario{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("testkit: parse %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	if s.RequestMethod == "" || s.RequestURL == "" {
		return nil, fmt.Errorf("testkit: %s: requestMethod and requestUrl are required", path)
	}
	if s.ExpectedCode == 0 {
		return nil, fmt.Errorf("testkit: %s: expectedCode is required", path)
	}
	s.path = path
	return s, nil
}
