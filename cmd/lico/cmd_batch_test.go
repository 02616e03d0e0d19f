package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain guards every test in this package against leaked goroutines,
// in particular the errgroup workers batchCmd's RunE spawns per fixture
// file: a bug that let one outlive g.Wait() would otherwise pass
// silently since nothing else in this package observes goroutine exit.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFixture(t *testing.T, dir, name, json string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(json), 0o644))
	return path
}

func TestBatchRunEEvaluatesAllFixturesConcurrently(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFixture(t, dir, "a.json", `{"tail": {"kind": "int", "text": "7"}}`),
		writeFixture(t, dir, "b.json", `{"tail": {"kind": "int", "text": "9"}}`),
		writeFixture(t, dir, "c.json", `{"tail": {"kind": "string", "text": "\"ok\""}}`),
	}

	batchConcurrency = 2
	err := batchCmd.RunE(batchCmd, paths)
	assert.NoError(t, err)
}

func TestBatchRunEReportsPerFileErrorsWithoutAbortingOthers(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFixture(t, dir, "good.json", `{"tail": {"kind": "int", "text": "1"}}`),
		writeFixture(t, dir, "bad.json", `{"tail": {"kind": "nonsense"}}`),
	}

	batchConcurrency = 4
	err := batchCmd.RunE(batchCmd, paths)
	assert.Error(t, err)
}
