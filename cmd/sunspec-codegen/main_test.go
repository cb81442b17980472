package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prikmeter/sunspec-go/pkg/compiler"
	"github.com/prikmeter/sunspec-go/pkg/regmap"
)

func modelJSON(id int, label string) string {
	return fmt.Sprintf(`{
  "id": %d,
  "group": {
    "name": "model_%d",
    "label": %q,
    "desc": "Test model %d",
    "points": [
      {"name": "ID", "type": "uint16", "size": 1, "value": %d, "mandatory": "M", "static": "S"},
      {"name": "L", "type": "uint16", "size": 1, "value": 2, "mandatory": "M", "static": "S"},
      {"name": "V", "label": "Voltage", "type": "uint16", "size": 1, "sf": "V_SF", "units": "V"},
      {"name": "V_SF", "type": "sunssf", "size": 1}
    ]
  }
}`, id, id, label, id, id)
}

func writeModels(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestRun_CPP(t *testing.T) {
	dir := writeModels(t, map[string]string{
		"model_10.json": modelJSON(10, "Ten"),
		"model_2.json":  modelJSON(2, "Two"),
		"model_1.json":  modelJSON(1, "One"),
		"README.md":     "not a model",
	})
	out := filepath.Join(t.TempDir(), "src", "SunSpecModels.h")

	var stderr bytes.Buffer
	err := run(&options{modelsDir: dir, outFile: out}, &stderr)
	require.NoError(t, err)
	assert.Empty(t, stderr.String(), "nothing above error level is logged by default")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	output := string(data)

	assert.Contains(t, output, "from 3 model definitions")
	assert.Contains(t, output, "class One : public SunSpecModel<1, 4> {")
	assert.Contains(t, output, "inline float voltage() const { return parse_uint16_sunssf(2, 3); }")

	one := strings.Index(output, "class One ")
	two := strings.Index(output, "class Two ")
	ten := strings.Index(output, "class Ten ")
	assert.True(t, one < two && two < ten, "records must follow the natural file order")
}

func TestRun_FailuresStillWriteOutput(t *testing.T) {
	dir := writeModels(t, map[string]string{
		"model_1.json": modelJSON(1, "One"),
		"model_2.json": `{"id": 2, "group": `,
		"model_3.json": strings.Replace(modelJSON(3, "Three"), `"sf": "V_SF"`, `"sf": "Missing_SF"`, 1),
		"model_4.json": strings.Replace(modelJSON(4, "Four"), `"points": [`, `"groups": [{"name": "curve", "points": []}], "points": [`, 1),
	})
	out := filepath.Join(t.TempDir(), "SunSpecModels.h")

	var stderr bytes.Buffer
	err := run(&options{modelsDir: dir, outFile: out, verbose: 1}, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 4 model definitions failed")
	assert.ErrorIs(t, err, compiler.ErrInconsistent)

	logs := stderr.String()
	assert.Contains(t, logs, "model_2.json")
	assert.Contains(t, logs, "model_3.json")
	assert.Contains(t, logs, "level=WARN msg=\"model skipped\"")

	data, readErr := os.ReadFile(out)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "class One ")
	assert.NotContains(t, string(data), "class Three ")
	assert.NotContains(t, string(data), "class Four ")
}

func TestRun_Regmap(t *testing.T) {
	dir := writeModels(t, map[string]string{
		"model_1.json": modelJSON(1, "One"),
	})
	out := filepath.Join(t.TempDir(), "regmap.cbor")

	require.NoError(t, run(&options{modelsDir: dir, outFile: out}, &bytes.Buffer{}))

	m, err := regmap.Load(out)
	require.NoError(t, err)
	rec, ok := m.Record(1)
	require.True(t, ok)
	assert.Equal(t, "One", rec.Name)
	assert.Equal(t, 4, rec.Size)
}

func TestRun_Errors(t *testing.T) {
	var stderr bytes.Buffer

	err := run(&options{modelsDir: filepath.Join(t.TempDir(), "missing"), outFile: "out.h"}, &stderr)
	assert.Error(t, err)

	err = run(&options{modelsDir: t.TempDir(), outFile: "out.txt"}, &stderr)
	assert.Error(t, err)
}

func TestRun_EmptyDirWarns(t *testing.T) {
	out := filepath.Join(t.TempDir(), "SunSpecModels.h")
	var stderr bytes.Buffer

	require.NoError(t, run(&options{modelsDir: t.TempDir(), outFile: out, verbose: 1}, &stderr))
	assert.Contains(t, stderr.String(), "no model definitions found")
	assert.FileExists(t, out)
}

func TestRootCmd_Flags(t *testing.T) {
	dir := writeModels(t, map[string]string{
		"model_1.json": modelJSON(1, "One"),
	})
	out := filepath.Join(t.TempDir(), "models.md")

	var stderr bytes.Buffer
	cmd := newRootCmd(&stderr)
	cmd.SetArgs([]string{"--models-dir", dir, "--out-file", out, "-vvv"})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, out)
	assert.Contains(t, stderr.String(), "level=DEBUG")

	cmd = newRootCmd(&stderr)
	cmd.SetArgs([]string{"unexpected"})
	assert.Error(t, cmd.Execute())
}

func TestRootCmd_Defaults(t *testing.T) {
	cmd := newRootCmd(&bytes.Buffer{})

	modelsDir, err := cmd.Flags().GetString("models-dir")
	require.NoError(t, err)
	assert.Equal(t, defaultModelsDir, modelsDir)

	outFile, err := cmd.Flags().GetString("out-file")
	require.NoError(t, err)
	assert.Equal(t, defaultOutFile, outFile)

	verbose, err := cmd.Flags().GetCount("verbose")
	require.NoError(t, err)
	assert.Equal(t, 0, verbose)
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		verbose int
		want    slog.Level
	}{
		{0, slog.LevelError},
		{1, slog.LevelWarn},
		{2, slog.LevelInfo},
		{3, slog.LevelDebug},
		{7, slog.LevelDebug},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levelFor(tt.verbose), "verbose=%d", tt.verbose)
	}
}
