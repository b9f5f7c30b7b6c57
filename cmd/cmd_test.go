package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RyanBlaney/mapdata/dataset"
	"github.com/RyanBlaney/mapdata/features"
	"github.com/RyanBlaney/mapdata/hitsound"
	"github.com/RyanBlaney/mapdata/notes"
	"github.com/RyanBlaney/mapdata/pipeline"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parsedCommand builds a command with the root's flags and parses args into it
func parsedCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "mapdata"}
	addConfigFlags(cmd)
	addPrepareFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapdata.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"divisor": 8, "workers": 2, "map_list": "file.txt"}`), 0o644))

	t.Setenv("MAPDATA_DIVISOR", "2")
	t.Setenv("MAPDATA_WORKERS", "6")

	cfg, err := loadConfig(parsedCommand(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Divisor, "env overrides file")
	assert.Equal(t, 6, cfg.Workers)
	assert.Equal(t, "file.txt", cfg.MapList, "file overrides defaults")

	cfg, err = loadConfig(parsedCommand(t, "--config", path, "--divisor", "3", "-w", "1"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Divisor, "flags override env")
	assert.Equal(t, 1, cfg.Workers)
}

func TestLoadConfigDefaultsIgnoreUnsetFlags(t *testing.T) {
	cfg, err := loadConfig(parsedCommand(t))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Divisor)
	assert.Equal(t, "maplist.txt", cfg.MapList)
	assert.Equal(t, "mapdata", cfg.OutputDir)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	_, err := loadConfig(parsedCommand(t, "--divisor", "0"))
	assert.Error(t, err)

	_, err = loadConfig(parsedCommand(t, "--config", filepath.Join(t.TempDir(), "missing.json")))
	assert.Error(t, err)
}

func TestInspectCommand(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "0.npz")
	table := &hitsound.Table{Meter: 4, Divisor: 4, Values: make([][]float64, hitsound.NumGroups)}
	for g := range table.Values {
		table.Values[g] = make([]float64, table.Width())
	}
	lst := make([][notes.RowWidth]float64, 3)
	require.NoError(t, dataset.Save(filename, lst, features.NewTensor(3, 7, 32), nil, table))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"inspect", filename})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "lst          <f8 [3 14]")
	assert.Contains(t, out.String(), "wav          <f8 [3 7 2 32]")
	assert.Contains(t, out.String(), "flow         <f8 [0 9]")
	assert.Contains(t, out.String(), "hs           <f8 [4 17]")
}

func TestInspectCommandRows(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "0.npz")
	table := &hitsound.Table{Meter: 4, Divisor: 4, Values: make([][]float64, hitsound.NumGroups)}
	for g := range table.Values {
		table.Values[g] = make([]float64, table.Width())
	}
	lst := make([][notes.RowWidth]float64, 3)
	for i := range lst {
		lst[i][0] = float64(i)
		lst[i][1] = 1000 + 125*float64(i)
	}
	require.NoError(t, dataset.Save(filename, lst, features.NewTensor(3, 7, 2), nil, table))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"inspect", "--rows", "2", filename})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		inspectRows = 0
	})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "     0 [0 1000 0 0 0 0 0 0 0 0 0 0 0 0]")
	assert.Contains(t, out.String(), "     1 [1 1125 0 0 0 0 0 0 0 0 0 0 0 0]")
	assert.NotContains(t, out.String(), "[2 1250")
	assert.True(t, strings.HasSuffix(out.String(), "wav          <f8 [3 7 2 2]\n"), "4-D arrays print no rows")
}

func TestPrepareStopsOnMissingDependency(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "maplist.txt")
	require.NoError(t, os.WriteFile(list, []byte(filepath.Join(dir, "a.osu")+"\n"), 0o644))
	out := filepath.Join(dir, "mapdata")

	t.Setenv("MAPDATA_NODE_PATH", filepath.Join(dir, "no-such-node"))
	cmd := parsedCommand(t, "--map-list", list, "--output-dir", out)
	cmd.SetContext(context.Background())

	err := runPrepare(cmd)
	var missing *pipeline.MissingDependencyError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, "node", missing.Name)
	assert.NoDirExists(t, out, "no beatmap is processed")
}

func TestLoadConfigColorMode(t *testing.T) {
	_, err := loadConfig(parsedCommand(t, "--color", "never"))
	assert.NoError(t, err)

	_, err = loadConfig(parsedCommand(t, "--color", "rainbow"))
	assert.Error(t, err)
}
