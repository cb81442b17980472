package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prikmeter/sunspec-go/pkg/compiler"
	"github.com/prikmeter/sunspec-go/pkg/modeldef"
	"github.com/prikmeter/sunspec-go/pkg/regmap"
)

func writeMap(t *testing.T) string {
	t.Helper()
	m := &modeldef.Model{
		ID: 101,
		Group: modeldef.Group{
			Name:  "inverter",
			Label: "Inverter",
			Points: []modeldef.Point{
				{Name: "ID", Type: "uint16", Size: 1},
				{Name: "L", Type: "uint16", Size: 1},
				{Name: "Hz", Label: "Frequency", Type: "uint16", Size: 1, SF: modeldef.SFRef("Hz_SF"), Units: "Hz"},
				{Name: "Hz_SF", Type: "sunssf", Size: 1},
				{Name: "SN", Label: "Serial Number", Type: "string", Size: 2},
				{Name: "St", Label: "Operating State", Type: "enum16", Size: 1},
			},
		},
	}
	res := compiler.New(nil).Compile([]*modeldef.Model{m})
	require.Empty(t, res.Failures)

	data, err := regmap.Marshal(regmap.FromResult(res))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "regmap.cbor")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestParseRegisters(t *testing.T) {
	regs, err := ParseRegisters("101, 0x0006\n5002 0XFFFE\t0x4142,0")
	require.NoError(t, err)
	assert.Equal(t, []uint16{101, 6, 5002, 0xFFFE, 0x4142, 0}, regs)

	regs, err = ParseRegisters("  \n")
	require.NoError(t, err)
	assert.Empty(t, regs)

	_, err = ParseRegisters("1 70000")
	assert.Error(t, err)
	_, err = ParseRegisters("1 -2")
	assert.Error(t, err)
	_, err = ParseRegisters("0xZZ")
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	mapPath := writeMap(t)
	dump := "101 6 5002 0xFFFE 0x4142 0x4300 4"

	var stdout, stderr bytes.Buffer
	err := run(&options{mapFile: mapPath}, strings.NewReader(dump), &stdout, &stderr)
	require.NoError(t, err)

	want := "# Inverter (model 101)\n" +
		"frequency = 50.02 Hz\n" +
		"serialNumber = \"ABC\"\n" +
		"operatingState = 4\n"
	assert.Equal(t, want, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRun_ModelFlag(t *testing.T) {
	mapPath := writeMap(t)

	var stdout, stderr bytes.Buffer
	err := run(&options{mapFile: mapPath, model: 101}, strings.NewReader("1 6 5002 0xFFFE 0 0 4"), &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "operatingState = 4")
	assert.Contains(t, stderr.String(), "first register does not hold the model ID")
}

func TestRun_Errors(t *testing.T) {
	mapPath := writeMap(t)
	var stdout, stderr bytes.Buffer

	err := run(&options{mapFile: mapPath}, strings.NewReader("101 6 5002"), &stdout, &stderr)
	assert.Error(t, err, "short dump")

	err = run(&options{mapFile: mapPath}, strings.NewReader("202 6 0 0 0 0 0"), &stdout, &stderr)
	assert.Error(t, err, "unknown model")

	err = run(&options{mapFile: mapPath}, strings.NewReader(""), &stdout, &stderr)
	assert.Error(t, err, "empty dump")

	err = run(&options{mapFile: filepath.Join(t.TempDir(), "missing.cbor")}, strings.NewReader("101"), &stdout, &stderr)
	assert.Error(t, err, "missing map")
}

func TestRootCmd_File(t *testing.T) {
	mapPath := writeMap(t)
	dumpPath := filepath.Join(t.TempDir(), "dump.txt")
	require.NoError(t, os.WriteFile(dumpPath, []byte("101,6,5002,0xFFFE,0x4142,0x4300,4\n"), 0o644))

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &stdout, &stderr)
	cmd.SetArgs([]string{"--map", mapPath, dumpPath})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "frequency = 50.02 Hz")

	stdout.Reset()
	cmd = newRootCmd(strings.NewReader("101 6 5002 0xFFFE 0 0 4"), &stdout, &stderr)
	cmd.SetArgs([]string{"--map", mapPath, "-"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "serialNumber = \"\"")
}
