// Package state persists the merge-resume marker under the git metadata
// directory.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Names under the git directory for gflow state.
const (
	GflowDir        = "gflow"
	ResumeFile      = "resume-merge"
	resumeFilePerms = 0644
)

// PausedMerge records a finish operation that stopped on merge conflicts.
// It is created when the merge conflicts, consumed exactly once when the
// user resolves and re-invokes finish, and cleared when the user aborted
// the merge instead.
type PausedMerge struct {
	// Topic is the branch that was being merged.
	Topic string
	// Target is the integration branch the merge was headed into.
	Target string
}

// ResumeFilePath returns the path of the resume marker inside gitDir.
func ResumeFilePath(gitDir string) string {
	return filepath.Join(gitDir, GflowDir, ResumeFile)
}

// LoadPausedMerge reads the resume marker. It returns nil when no marker
// exists.
func LoadPausedMerge(gitDir string) (*PausedMerge, error) {
	data, err := os.ReadFile(ResumeFilePath(gitDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading resume marker: %w", err)
	}

	fields := strings.Fields(strings.TrimSpace(string(data)))
	if len(fields) != 2 {
		return nil, fmt.Errorf("malformed resume marker %q", strings.TrimSpace(string(data)))
	}
	return &PausedMerge{Topic: fields[0], Target: fields[1]}, nil
}

// SavePausedMerge writes the resume marker, creating the gflow state
// directory if needed.
func SavePausedMerge(gitDir string, pm PausedMerge) error {
	dir := filepath.Join(gitDir, GflowDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating gflow state directory: %w", err)
	}

	line := pm.Topic + " " + pm.Target + "\n"
	if err := os.WriteFile(ResumeFilePath(gitDir), []byte(line), resumeFilePerms); err != nil {
		return fmt.Errorf("writing resume marker: %w", err)
	}
	return nil
}

// ClearPausedMerge removes the resume marker. Removing an absent marker is
// not an error.
func ClearPausedMerge(gitDir string) error {
	err := os.Remove(ResumeFilePath(gitDir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing resume marker: %w", err)
	}
	return nil
}
