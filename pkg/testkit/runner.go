package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Env is what one scenario file runs against.
type Env struct {
	Handler http.Handler
	Tokens  map[string]string // "as" value to bearer token
}

// Setup builds a fresh Env for each scenario file.
type Setup func(t *testing.T) Env

// RunDir runs every *.json file in dir as a subtest with its own Env.
func RunDir(t *testing.T, dir string, setup Setup) {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, files, "testkit: no scenario files in %q", dir)

	for _, path := range files {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".json"), func(t *testing.T) {
			RunFile(t, path, setup(t))
		})
	}
}

// RunFile runs the steps of one scenario file in order. A failing step
// stops the file since later steps usually depend on it.
func RunFile(t *testing.T, path string, env Env) {
	t.Helper()
	list, err := Load(path)
	require.NoError(t, err)

	vars := captures{}
	for _, s := range list {
		if !t.Run(s.Name, func(t *testing.T) { runScenario(t, env, s, vars) }) {
			return
		}
	}
}

// captures holds values taken from earlier responses, both as text for URLs
// and headers and as raw JSON for request bodies.
type captures map[string]captured

type captured struct {
	text string
	raw  string
}

func (c captures) set(name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c[name] = captured{text: scalar(v), raw: string(raw)}
	return nil
}

func (c captures) expand(s string) string {
	for k, v := range c {
		s = strings.ReplaceAll(s, "{{"+k+"}}", v.text)
	}
	return s
}

// body swaps a whole quoted "{{name}}" for the captured JSON value, so
// numbers stay numbers and strings stay quoted, then expands the rest.
func (c captures) body(raw string) string {
	for k, v := range c {
		raw = strings.ReplaceAll(raw, `"{{`+k+`}}"`, v.raw)
	}
	return c.expand(raw)
}

func runScenario(t *testing.T, env Env, s *Scenario, vars captures) {
	resetMockers()
	t.Cleanup(resetMockers)
	for _, step := range s.Mocks {
		mk, err := lookup(step.Method)
		require.NoError(t, err)
		mk.prepare(step)
	}

	var body io.Reader
	if len(s.Body) > 0 {
		body = strings.NewReader(vars.body(string(s.Body)))
	}

	req := httptest.NewRequest(s.Method, vars.expand(s.URL), body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.As != "" {
		tok, ok := env.Tokens[s.As]
		require.True(t, ok, "no token for %q", s.As)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	for k, v := range s.Header {
		req.Header.Set(k, vars.expand(v))
	}

	rec := httptest.NewRecorder()
	env.Handler.ServeHTTP(rec, req)

	require.Equal(t, s.ExpectedCode, rec.Code, "body: %s", rec.Body.String())

	var actual any
	if len(s.Expect) > 0 || len(s.Capture) > 0 {
		require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&actual),
			"response is not JSON: %s", rec.Body.String())
	}

	if len(s.Expect) > 0 {
		var expected any
		require.NoError(t, json.Unmarshal([]byte(vars.expand(string(s.Expect))), &expected))
		for _, d := range Diff("", expected, actual) {
			t.Error(d)
		}
	}

	for name, path := range s.Capture {
		v, ok := lookupPath(actual, path)
		require.True(t, ok, "capture %q: %q not in response", name, path)
		require.NoError(t, vars.set(name, v), "capture %q", name)
	}

	for _, step := range s.Mocks {
		mk, _ := lookup(step.Method)
		if step.Times > 0 {
			assert.Equal(t, step.Times, mk.Calls(), "mock %q calls", step.Method)
		} else {
			assert.Positive(t, mk.Calls(), "mock %q was never called", step.Method)
		}
	}
}
