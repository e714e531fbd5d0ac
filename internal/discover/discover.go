// Package discover expands user-supplied input arguments into the immutable
// task list the pipeline runs over.
package discover

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"heiconv/internal/codec"
	"heiconv/internal/convert"
	"heiconv/internal/logging"
)

// Inputs expands paths into eligible source files for the target format.
// Directories contribute their immediate regular files; nonexistent paths and
// files the format cannot consume are warned about and skipped. The result is
// sorted so task indices are stable for a given invocation.
func Inputs(paths []string, format codec.Format, logger *slog.Logger) ([]string, error) {
	logger = logging.NewComponentLogger(logger, "discover")

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			logger.Warn("input path not found, skipping",
				logging.String("path", path),
				logging.Error(err),
			)
			continue
		}

		if !info.IsDir() {
			if eligible(path, format) {
				files = append(files, path)
			} else {
				logger.Warn("unsupported input file for this mode, skipping",
					logging.String("path", path),
					logging.String("target", format.String()),
				)
			}
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read input directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			candidate := filepath.Join(path, entry.Name())
			if eligible(candidate, format) {
				files = append(files, candidate)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// BuildTasks maps source files to output paths under outputDir and assigns
// ordinal indices. When two sources would publish to the same output name
// (a.jpg and a.png both become a.heic), only the first is kept: every task
// must own its staging and final paths exclusively for the duration of the
// run, and concurrent tasks sharing a path would break that.
func BuildTasks(files []string, outputDir string, format codec.Format, logger *slog.Logger) []convert.Task {
	logger = logging.NewComponentLogger(logger, "discover")

	claimed := make(map[string]string, len(files))
	tasks := make([]convert.Task, 0, len(files))
	for _, source := range files {
		final := filepath.Join(outputDir, outputName(source, format))
		if prior, taken := claimed[final]; taken {
			logger.Warn("output name collision, skipping later source",
				logging.String("source", source),
				logging.String("kept", prior),
				logging.String("output", final),
			)
			continue
		}
		claimed[final] = source
		tasks = append(tasks, convert.Task{
			Index:      len(tasks),
			SourcePath: source,
			FinalPath:  final,
		})
	}
	return tasks
}

func eligible(path string, format codec.Format) bool {
	return format.AcceptsInput(filepath.Ext(path))
}

func outputName(source string, format codec.Format) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return stem + format.Extension()
}
