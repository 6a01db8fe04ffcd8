// Package batch runs the turn counter over directories of schedules and compares
// the resulting totals between two batches.
package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the default OTel tracer name for the batch package.
const tracerName = "turncost"

// DefaultResultPrefix is prepended to a schedule file name to form its result file name.
const DefaultResultPrefix = "output"

// ErrorPolicy selects what a [Runner] does when one schedule fails.
type ErrorPolicy string

const (
	// PolicyAbort stops at the first failing schedule.
	PolicyAbort ErrorPolicy = "abort"
	// PolicySkip logs the failure and continues with the next schedule.
	PolicySkip ErrorPolicy = "skip"
)

// ErrUnknownPolicy is returned by [ParseErrorPolicy] for unrecognised names.
var ErrUnknownPolicy = errors.New("unknown error policy")

// ParseErrorPolicy converts a policy name into an [ErrorPolicy]. An empty name
// selects [PolicyAbort].
func ParseErrorPolicy(name string) (ErrorPolicy, error) {
	switch ErrorPolicy(strings.ToLower(strings.TrimSpace(name))) {
	case "", PolicyAbort:
		return PolicyAbort, nil
	case PolicySkip:
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// regularFiles lists the regular files in dir sorted by name. Symlinks are
// followed; directories and other entries are skipped.
func regularFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if isRegular(dir, entry) {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

func isRegular(dir string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}

	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(filepath.Join(dir, entry.Name()))

	return err == nil && info.Mode().IsRegular()
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	return info.Mode().IsRegular(), nil
}

func tracerOrDefault(tr trace.Tracer) trace.Tracer {
	if tr != nil {
		return tr
	}

	return otel.Tracer(tracerName)
}
