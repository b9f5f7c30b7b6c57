package beatmap

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/mapdata/logging"
)

// Converter turns a beatmap file into its parsed JSON model
type Converter interface {
	Convert(ctx context.Context, path string) (*Beatmap, error)
}

// ConversionError reports a converter process that failed or printed output
type ConversionError struct {
	Path   string
	Output string
	Err    error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("map convert failure for %s", e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// ConverterConfig configures the external converter process
type ConverterConfig struct {
	NodePath string `json:"node_path"`
	Script   string `json:"script"`   // load_map.js
	WorkDir  string `json:"work_dir"` // directory holding the script and its node_modules
}

// DefaultConverterConfig returns default converter configuration
func DefaultConverterConfig() *ConverterConfig {
	return &ConverterConfig{
		NodePath: "node", // Assume in PATH
		Script:   "load_map.js",
	}
}

// NodeConverter runs the node based .osu to JSON converter
type NodeConverter struct {
	config *ConverterConfig
}

// NewNodeConverter creates a converter; nil config means defaults
func NewNodeConverter(config *ConverterConfig) *NodeConverter {
	if config == nil {
		config = DefaultConverterConfig()
	}
	return &NodeConverter{config: config}
}

// Convert runs `node load_map.js jq <path> <out.json>` and reads the result.
// Any output from the process counts as a failure.
func (c *NodeConverter) Convert(ctx context.Context, path string) (*Beatmap, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "beatmap_converter",
		"function":  "Convert",
		"path":      path,
	})

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("beatmap not readable: %w", err)
	}

	tmp, err := os.CreateTemp("", "mapdata-*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp json: %w", err)
	}
	tmpName := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpName)

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	cmd := exec.CommandContext(ctx, c.config.NodePath, c.config.Script, "jq", absPath, tmpName)
	cmd.Dir = c.config.WorkDir

	logger.Debug("Running converter", logging.Fields{
		"command": fmt.Sprintf("%s %s jq %s %s", c.config.NodePath, c.config.Script, absPath, tmpName),
	})

	output, err := cmd.CombinedOutput()
	trimmed := strings.TrimSpace(string(output))
	if err != nil || trimmed != "" {
		convErr := &ConversionError{Path: path, Output: trimmed, Err: err}
		logger.Error(convErr, "Converter failed")
		return nil, convErr
	}

	data, err := os.ReadFile(tmpName)
	if err != nil {
		return nil, &ConversionError{Path: path, Err: err}
	}

	bm, err := Decode(data)
	if err != nil {
		return nil, &ConversionError{Path: path, Err: err}
	}
	bm.Path = path
	return bm, nil
}

// JSONConverter reads beatmaps that were already converted to JSON
type JSONConverter struct{}

// Convert reads and decodes path
func (JSONConverter) Convert(ctx context.Context, path string) (*Beatmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("beatmap not readable: %w", err)
	}
	bm, err := Decode(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if err != nil {
		return nil, &ConversionError{Path: path, Err: err}
	}
	bm.Path = path
	return bm, nil
}

// AutoConverter reads .json files directly and hands everything else to the node converter
type AutoConverter struct {
	Node Converter
	JSON Converter
}

// NewAutoConverter creates an AutoConverter around a node converter
func NewAutoConverter(config *ConverterConfig) *AutoConverter {
	return &AutoConverter{
		Node: NewNodeConverter(config),
		JSON: JSONConverter{},
	}
}

func (a *AutoConverter) Convert(ctx context.Context, path string) (*Beatmap, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return a.JSON.Convert(ctx, path)
	}
	return a.Node.Convert(ctx, path)
}
