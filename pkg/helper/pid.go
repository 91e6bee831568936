package helper

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultPIDPath = "/var/run/casedesk-apiserver.pid"

// GetPIDPath returns the path to the PID file.
//
// Absolute paths are returned as-is. Relative paths resolve against the working
// directory when its parent exists, otherwise the default under /var/run is used.
func GetPIDPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	if filename != "" {
		if wd, err := os.Getwd(); err == nil && wd != "" {
			abs, err := filepath.Abs(filepath.Join(wd, filename))
			if err == nil {
				if _, err := os.Stat(filepath.Dir(abs)); err == nil {
					return abs
				}
			}
		}
	}
	return defaultPIDPath
}

// WritePID writes the current process ID to path, creating parent directories.
func WritePID(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644)
}

// ReadPID reads a PID written by WritePID.
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file %s: %w", path, err)
	}
	return pid, nil
}

// RemovePID removes the PID file, ignoring a missing file.
func RemovePID(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
