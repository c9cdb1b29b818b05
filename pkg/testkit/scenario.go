// Package testkit runs REST API scenarios described in JSON files against an
// http.Handler. A file holds an ordered list of steps that share one
// environment, so later steps see the rows earlier ones created:
//
//	[
//	  {"name": "add to cart", "method": "POST", "url": "/api/cart", "as": "customer",
//	   "body": {"productId": 1, "quantity": 2}, "expectedCode": 201,
//	   "capture": {"itemId": "data.item.id"}},
//	  {"name": "remove it", "method": "DELETE", "url": "/api/cart", "as": "customer",
//	   "body": {"itemId": "{{itemId}}"}, "expectedCode": 200}
//	]
//
// Usage:
//
//	testkit.RunDir(t, "testdata", func(t *testing.T) testkit.Env { ... })
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario is one request and what it must produce.
type Scenario struct {
	Name   string            `json:"name"`
	Method string            `json:"method"`
	URL    string            `json:"url"`
	As     string            `json:"as"` // key into Env.Tokens; empty sends no token
	Header map[string]string `json:"headers"`
	Body   json.RawMessage   `json:"body"`

	ExpectedCode int             `json:"expectedCode"`
	Expect       json.RawMessage `json:"expect"` // matched as a subset of the response

	// Capture stores response values under a name for {{name}} substitution
	// in later URLs and bodies. Paths are dotted, e.g. "data.orderId".
	Capture map[string]string `json:"capture"`

	Mocks []MockStep `json:"mocks"`
}

// MockStep configures a registered Mocker for one scenario.
type MockStep struct {
	Method string `json:"method"`
	Error  string `json:"error"` // non-empty makes the mocked call fail
	Times  int    `json:"times"` // expected calls; 0 means at least one
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.URL == "" {
		return fmt.Errorf("url is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.Method == "" {
		s.Method = "GET"
	}
	s.Method = strings.ToUpper(s.Method)
	for i, m := range s.Mocks {
		if m.Method == "" {
			return fmt.Errorf("mocks[%d].method is required", i)
		}
	}
	return nil
}

// Load reads the scenario list in path.
func Load(path string) ([]*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", path, err)
	}
	var list []*Scenario
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", path, err)
	}
	for i, s := range list {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("testkit: %s step %d: %w", filepath.Base(path), i, err)
		}
	}
	return list, nil
}
