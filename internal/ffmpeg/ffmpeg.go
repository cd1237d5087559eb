// Package ffmpeg locates the merge tool used by yt-dlp to join video and audio
// streams and verifies it before a download starts.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// Executable names
const (
	Command        = "ffmpeg"
	CommandWindows = "ffmpeg.exe"
	VersionFlag    = "-version"
)

// ErrNotFound is returned when no usable ffmpeg binary exists
var ErrNotFound = errors.New("ffmpeg not found")

var versionPattern = regexp.MustCompile(`version\s+([^\s,]+)`)

// BinaryName returns the platform specific executable name
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return CommandWindows
	}
	return Command
}

// Locate resolves the merge tool path. An explicitly configured path wins,
// then a binary next to the running executable, then PATH.
func Locate(configured string) (string, error) {
	if configured != "" {
		if err := Check(configured); err != nil {
			return "", err
		}
		return filepath.Abs(configured)
	}

	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), BinaryName())
		if Check(candidate) == nil {
			return candidate, nil
		}
	}

	path, err := exec.LookPath(BinaryName())
	if err != nil {
		return "", fmt.Errorf("%w in PATH: %v", ErrNotFound, err)
	}
	return path, nil
}

// Check verifies that path points to an existing regular file
func Check(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty path", ErrNotFound)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w at %s: %v", ErrNotFound, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}
	return nil
}

// Version runs the binary and extracts its version string
func Version(ctx context.Context, path string) (string, error) {
	out, err := exec.CommandContext(ctx, path, VersionFlag).Output()
	if err != nil {
		return "", fmt.Errorf("failed to get ffmpeg version: %w", err)
	}
	return parseVersion(string(out)), nil
}

// parseVersion extracts "N.N" from "ffmpeg version N.N ..." first line
func parseVersion(output string) string {
	firstLine, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	if m := versionPattern.FindStringSubmatch(firstLine); len(m) > 1 {
		return m[1]
	}
	return strings.TrimSpace(firstLine)
}
