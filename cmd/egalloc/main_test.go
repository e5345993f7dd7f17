package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/fairdiv/egalitarian"
)

func fixture(name string) string {
	return filepath.Join("..", "..", "instance", "testdata", name)
}

// execute runs egalloc with args and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func decodeAll(t *testing.T, s string) []map[string]any {
	t.Helper()
	dec := yaml.NewDecoder(bytes.NewBufferString(s))
	var docs []map[string]any
	for {
		var doc map[string]any
		if dec.Decode(&doc) != nil {
			return docs
		}
		docs = append(docs, doc)
	}
}

func TestSolve_SingleFile(t *testing.T) {
	out, _, err := execute(t, "solve", fixture("siblings.yaml"))
	require.NoError(t, err)

	docs := decodeAll(t, out)
	require.Len(t, docs, 1)
	assert.Equal(t, "siblings", docs[0]["name"])
	assert.Equal(t, 15, docs[0]["min_value"])
	assert.Equal(t, "ana", docs[0]["weakest_player"])
	assert.Equal(t, true, docs[0]["exact"])
}

func TestSolve_FlagsOverrideFile(t *testing.T) {
	out, _, err := execute(t, "solve", "--branching", "weakest-first", fixture("siblings.yaml"))
	require.NoError(t, err)
	docs := decodeAll(t, out)
	require.Len(t, docs, 1)
	assert.Equal(t, 13, docs[0]["min_value"])
	assert.Equal(t, false, docs[0]["exact"])

	out, _, err = execute(t, "solve", "--branching", "full", fixture("weakest_first.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 15, decodeAll(t, out)[0]["min_value"])
}

func TestSolve_NoPruningStillOptimal(t *testing.T) {
	out, _, err := execute(t, "solve", "--no-dedup", "--no-bound", fixture("siblings.yaml"))
	require.NoError(t, err)

	doc := decodeAll(t, out)[0]
	assert.Equal(t, 15, doc["min_value"])
	stats := doc["stats"].(map[string]any)
	assert.Equal(t, 63, stats["nodes"])
	assert.Equal(t, 32, stats["leaves"])
}

func TestSolve_ExactOverridesFileHeuristics(t *testing.T) {
	out, _, err := execute(t, "solve", fixture("heuristic_on.yaml"))
	require.NoError(t, err)
	doc := decodeAll(t, out)[0]
	assert.Equal(t, false, doc["exact"])
	assert.LessOrEqual(t, doc["min_value"].(int), 15)

	out, _, err = execute(t, "solve", "--exact", fixture("heuristic_on.yaml"))
	require.NoError(t, err)
	doc = decodeAll(t, out)[0]
	assert.Equal(t, true, doc["exact"])
	assert.Equal(t, 15, doc["min_value"])
	stats := doc["stats"].(map[string]any)
	assert.Equal(t, 0, stats["heuristic_prunes"])
}

func TestSolve_ExactConflicts(t *testing.T) {
	_, _, err := execute(t, "solve", "--exact", "--branching", "weakest-first", fixture("siblings.yaml"))
	assert.ErrorContains(t, err, "exact")

	_, _, err = execute(t, "solve", "--exact", "--heuristic-margin", "0.2", fixture("siblings.yaml"))
	assert.ErrorContains(t, err, "exact")
}

func TestSolve_BatchKeepsArgumentOrder(t *testing.T) {
	out, _, err := execute(t, "solve", "-j", "2",
		fixture("shares.json"), fixture("siblings.yaml"), fixture("weakest_first.yaml"))
	require.NoError(t, err)

	docs := decodeAll(t, out)
	require.Len(t, docs, 3)
	assert.Equal(t, "shares", docs[0]["name"])
	assert.Equal(t, 3.25, docs[0]["min_value"])
	assert.Equal(t, "siblings", docs[1]["name"])
	assert.Equal(t, "weakest_first", docs[2]["name"])
}

func TestSolve_FailedSearchIsReported(t *testing.T) {
	out, _, err := execute(t, "solve", fixture("siblings.yaml"), fixture("ragged.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 instances failed")

	docs := decodeAll(t, out)
	require.Len(t, docs, 2)
	assert.Contains(t, docs[1]["error"], "differ in length")
}

func TestSolve_LoadErrorStopsBatch(t *testing.T) {
	out, _, err := execute(t, "solve", fixture("nope.yaml"))
	require.Error(t, err)
	assert.Empty(t, out)

	_, _, err = execute(t, "solve")
	assert.Error(t, err, "at least one file")
}

func TestSolve_BadFlags(t *testing.T) {
	_, _, err := execute(t, "solve", "--branching", "sideways", fixture("siblings.yaml"))
	assert.ErrorIs(t, err, egalitarian.ErrBadOption)

	_, _, err = execute(t, "solve", "--heuristic-margin", "1.5", fixture("siblings.yaml"))
	assert.ErrorIs(t, err, egalitarian.ErrBadOption)

	_, _, err = execute(t, "--log-format", "xml", "solve", fixture("siblings.yaml"))
	assert.ErrorContains(t, err, "log-format")

	_, _, err = execute(t, "--log-level", "loud", "solve", fixture("siblings.yaml"))
	assert.ErrorContains(t, err, "log-level")

	_, _, err = execute(t, "--trace", "jaeger", "solve", fixture("siblings.yaml"))
	assert.ErrorContains(t, err, "--trace")
}

func TestCompare_ReportsDivergence(t *testing.T) {
	out, _, err := execute(t, "compare", fixture("siblings.yaml"))
	require.NoError(t, err)

	docs := decodeAll(t, out)
	require.Len(t, docs, 1)
	assert.Equal(t, 15, docs[0]["optimum"])

	modes := docs[0]["modes"].([]any)
	require.Len(t, modes, 3)
	exact := modes[0].(map[string]any)
	wf := modes[1].(map[string]any)
	hb := modes[2].(map[string]any)

	assert.Equal(t, "exact", exact["mode"])
	assert.Equal(t, false, exact["below_optimum"])
	assert.Equal(t, "weakest-first", wf["mode"])
	assert.Equal(t, 13, wf["min_value"])
	assert.Equal(t, true, wf["below_optimum"])
	assert.Equal(t, "heuristic-bound", hb["mode"])
	assert.Equal(t, 15, hb["min_value"])
	assert.Equal(t, false, hb["below_optimum"])
}

func TestCompare_IgnoresFileBranching(t *testing.T) {
	out, _, err := execute(t, "compare", fixture("weakest_first.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 15, decodeAll(t, out)[0]["optimum"])
}

func TestLogging_JSONWithRunID(t *testing.T) {
	_, stderr, err := execute(t, "--log-format", "json", "--log-level", "debug",
		"solve", fixture("siblings.yaml"))
	require.NoError(t, err)

	assert.Contains(t, stderr, `"run_id":`)
	assert.Contains(t, stderr, `"msg":"egalitarian search started"`)
	assert.Contains(t, stderr, `"instance":"siblings"`)
	assert.Contains(t, stderr, `"msg":"instance solved"`)
}

func TestLogging_InfoHidesEngineDebug(t *testing.T) {
	_, stderr, err := execute(t, "solve", fixture("siblings.yaml"))
	require.NoError(t, err)

	assert.Contains(t, stderr, "run_id=")
	assert.NotContains(t, stderr, "egalitarian search started")
}

func TestTracing_Stdout(t *testing.T) {
	_, stderr, err := execute(t, "--trace", "stdout", "solve", "-j", "1", fixture("siblings.yaml"))
	require.NoError(t, err)

	assert.Contains(t, stderr, "egalloc.solve")
	assert.Contains(t, stderr, "egalitarian.search")
}

func TestMetricsOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.prom")
	_, _, err := execute(t, "--metrics-out", path, "solve", fixture("siblings.yaml"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fairdiv_search_total")
	assert.Contains(t, string(data), `result="ok"`)
	assert.Contains(t, string(data), "fairdiv_search_duration_seconds_bucket")
}
