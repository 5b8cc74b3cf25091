package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI from source and returns stdout, failing on error.
func run(t testing.TB, stdin string, args ...string) string {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../.."}, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run(), "CLI command failed: %s", stderr.String())
	return stdout.String()
}

func mustMarshal(t testing.TB, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

// TestEndToEnd_NestedEdits edits a value three JSON strings deep and checks
// the result with encoding/json, one level at a time.
func TestEndToEnd_NestedEdits(t *testing.T) {
	settings := mustMarshal(t, map[string]any{"retries": 3, "hosts": []string{"a", "b"}})
	service := mustMarshal(t, map[string]any{"name": "api", "settings": settings})
	doc := mustMarshal(t, map[string]any{
		"service": service,
		"created_at": "2023-05-20T14:56:23Z",
		"id":      12345,
	})

	out := run(t, doc, "set", "--via", "service", "--via", "settings", "hosts[2]", `"c"`)

	var root map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	assert.Equal(t, float64(12345), root["id"])

	var svc map[string]any
	require.NoError(t, json.Unmarshal([]byte(root["service"].(string)), &svc))
	assert.Equal(t, "api", svc["name"])

	var set map[string]any
	require.NoError(t, json.Unmarshal([]byte(svc["settings"].(string)), &set))
	assert.Equal(t, []any{"a", "b", "c"}, set["hosts"])
	assert.Equal(t, float64(3), set["retries"])
}

// TestEndToEnd_KeyOrderPreserved checks that objects keep their member order
func TestEndToEnd_KeyOrderPreserved(t *testing.T) {
	out := run(t, `{"z":1,"a":{"y":2,"b":3},"m":"{\"q\":1,\"c\":2}"}`, "--compact", "set", "--via", "m", "c", "20")
	assert.Equal(t, `{"z":1,"a":{"y":2,"b":3},"m":"{\"q\":1,\"c\":20}"}`+"\n", out)
}

// TestEndToEnd_BigIntegers checks that integers beyond 2^53 survive unchanged
func TestEndToEnd_BigIntegers(t *testing.T) {
	doc := `{"safe":9007199254740991,"unsafe":9007199254740993,"huge":-123456789012345678901234567890,"float":1e21}`
	out := run(t, doc, "--compact")
	assert.Equal(t, `{"safe":9007199254740991,"unsafe":9007199254740993,"huge":-123456789012345678901234567890,"float":1e+21}`+"\n", out)
}

// generateLargeJSON generates a large JSON document with the specified number of items
func generateLargeJSON(t testing.TB, itemCount int) string {
	// Seed random for reproducible results
	rng := rand.New(rand.NewSource(42))

	items := make([]map[string]any, itemCount)
	for i := 0; i < itemCount; i++ {
		meta := mustMarshal(t, map[string]any{
			"source":   "test",
			"priority": rng.Intn(5) + 1,
			"score":    rng.Float64(),
		})
		items[i] = map[string]any{
			"id":          i + 1,
			"name":        fmt.Sprintf("Item %d", i+1),
			"description": fmt.Sprintf("This is item number %d in the test dataset", i+1),
			"created_at":  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(rng.Intn(10000)) * time.Hour).Format(time.RFC3339),
			"price":       rng.Float64() * 1000,
			"quantity":    rng.Intn(100),
			"active":      rng.Intn(2) == 1,
			"tags":        []string{"tag1", "tag2", "tag3"}[0 : rng.Intn(3)+1],
			"metadata":    meta,
		}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	require.NoError(t, err)
	return string(data)
}

// TestEndToEnd_RoundTrip formats a generated document both ways and checks
// encoding/json reads back the same data each time.
func TestEndToEnd_RoundTrip(t *testing.T) {
	doc := generateLargeJSON(t, 200)
	file := filepath.Join(t.TempDir(), "large.json")
	require.NoError(t, os.WriteFile(file, []byte(doc), 0o644))

	var want any
	require.NoError(t, json.Unmarshal([]byte(doc), &want))

	for _, args := range [][]string{{"-i", file}, {"--compact", "fmt", "-i", file}} {
		out := run(t, "", args...)
		var got any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, want, got)
	}

	pretty := run(t, "", "-i", file)
	again := run(t, pretty)
	assert.Equal(t, pretty, again, "pretty output is a fixed point")
}

// TestEndToEnd_Scan checks the JSON report of a generated document
func TestEndToEnd_Scan(t *testing.T) {
	doc := generateLargeJSON(t, 5)

	var report struct {
		Values  int            `json:"values"`
		Depth   int            `json:"max_depth"`
		Kinds   map[string]int `json:"kinds"`
		Strings []struct {
			Path  []any  `json:"path"`
			Class string `json:"class"`
		} `json:"strings"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, doc, "scan", "--json")), &report))

	assert.Equal(t, 3, report.Depth)
	assert.Equal(t, 5, report.Kinds["object"])

	classes := map[string]int{}
	for _, s := range report.Strings {
		classes[s.Class]++
	}
	assert.Equal(t, 5, classes["json"], "every metadata string holds JSON")
	assert.Equal(t, 5, classes["timestamp"])
}

// TestEndToEnd_EdgeCases tests various edge cases
func TestEndToEnd_EdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		json     string
		expected string
		isError  bool
	}{
		{name: "EmptyObject", json: `{}`, expected: "{}"},
		{name: "EmptyArray", json: `[]`, expected: "[]"},
		{name: "SingleString", json: `"just a string"`, expected: `"just a string"`},
		{name: "SingleNumber", json: `42`, expected: "42"},
		{name: "NegativeZero", json: `-0`, expected: "0"},
		{name: "Exponent", json: `1.5E-7`, expected: "1.5e-7"},
		{name: "SingleBoolean", json: `true`, expected: "true"},
		{name: "SingleNull", json: `null`, expected: "null"},
		{name: "UnicodeEscapes", json: `"caf\u00e9 \ud83d\ude00"`, expected: "\"café \U0001F600\""},
		{name: "ControlCharacter", json: `"a\u0001b"`, expected: `"a\u0001b"`},
		{name: "DeeplyNestedArray", json: `[[[[[[42]]]]]]`, expected: "[[[[[[42]]]]]]"},
		{name: "InvalidJSON", json: `{"name": "Invalid JSON",}`, isError: true},
		{name: "TrailingData", json: `[1] 2`, isError: true},
		{name: "LeadingZero", json: `012`, isError: true},
		{name: "BadEscape", json: `"\x"`, isError: true},
		{name: "UnterminatedString", json: `"abc`, isError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := exec.Command("go", "run", "../..", "--compact")
			cmd.Stdin = strings.NewReader(tc.json)
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr
			err := cmd.Run()

			if tc.isError {
				assert.Error(t, err, "Expected an error for %s", tc.name)
				assert.Contains(t, stderr.String(), "JSON parsing error")
				return
			}
			require.NoError(t, err, "CLI command failed: %s", stderr.String())
			assert.Equal(t, tc.expected+"\n", stdout.String())
		})
	}
}

// TestEndToEnd_SampleDocument edits a doubly embedded flag in the sample user
// document and checks the untouched parts survive byte for byte.
func TestEndToEnd_SampleDocument(t *testing.T) {
	sample := filepath.Join("..", "..", "testdata", "samples", "user.json")

	out := run(t, "", "--compact", "set", "-i", sample, "--via", "user.preferences", "--via", "notifications", "push", "true")

	assert.Contains(t, out, `"id":12345678901234567890`)
	assert.Contains(t, out, `"preferences":"{\"theme\":\"dark\",\"timezone\":\"America/Los_Angeles\",\"notifications\":\"{\\\"email\\\":true,\\\"push\\\":true}\"}"`)
	assert.Contains(t, out, `"social":"{\"github\":\"johndoe\",\"twitter\":\"@johndoe\",\"linkedin\":\"in/johndoe\"}"`)

	copied := run(t, "", "copy", "-i", sample, "--via", "user.preferences", "--full-path", "timezone")
	assert.Equal(t, "user.preferences.timezone\n", copied)
}
