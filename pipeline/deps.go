package pipeline

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/RyanBlaney/mapdata/beatmap"
	"github.com/RyanBlaney/mapdata/logging"
)

// AvailabilityChecker reports whether a tool can run, as transcode.Decoder does for ffmpeg
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context) error
}

// CheckDependencies probes the converter runtime and the audio tools before a batch.
// The first failure is returned as a *MissingDependencyError.
func CheckDependencies(ctx context.Context, converter *beatmap.ConverterConfig, audio AvailabilityChecker) error {
	logger := logging.WithFields(logging.Fields{
		"component": "dependency_check",
		"function":  "CheckDependencies",
	})

	if err := exec.CommandContext(ctx, converter.NodePath, "--version").Run(); err != nil {
		return &MissingDependencyError{Name: "node", Err: fmt.Errorf("%s --version: %w", converter.NodePath, err)}
	}
	logger.Debug("node available", logging.Fields{"path": converter.NodePath})

	if converter.WorkDir != "" {
		modules := filepath.Join(converter.WorkDir, "node_modules")
		if info, err := os.Stat(modules); err != nil || !info.IsDir() {
			if err == nil {
				err = fmt.Errorf("not a directory")
			}
			return &MissingDependencyError{Name: "node_modules", Err: fmt.Errorf("%s: %w", modules, err)}
		}
	}

	if audio != nil {
		if err := audio.CheckAvailability(ctx); err != nil {
			return &MissingDependencyError{Name: "ffmpeg", Err: err}
		}
		logger.Debug("ffmpeg and ffprobe available")
	}

	return nil
}
