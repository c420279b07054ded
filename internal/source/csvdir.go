package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"mileage/internal/core"
)

// CSVDir reads odometer logs from a local directory. Files whose names
// contain "Mileage" are preferred; when none match, every *.csv in the
// directory is used. Each row is tagged with its source file name.
type CSVDir struct {
	Dir string
}

func NewCSVDir(dir string) *CSVDir {
	return &CSVDir{Dir: dir}
}

func (s *CSVDir) Fetch(ctx context.Context) (core.Dataset, error) {
	paths, err := s.pickFiles()
	if err != nil {
		return core.Dataset{}, err
	}
	if len(paths) == 0 {
		return core.Dataset{}, ErrNoData
	}

	datasets := make([]core.Dataset, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return core.Dataset{}, err
		}
		ds, err := readCSVFile(p)
		if err != nil {
			return core.Dataset{}, fmt.Errorf("read %s: %w", filepath.Base(p), err)
		}
		slog.InfoContext(ctx, "Loaded mileage CSV", "source_file", filepath.Base(p), "row_count", len(ds.Rows))
		datasets = append(datasets, tag(ds, ColSourceFile, filepath.Base(p)))
	}
	return Merge(datasets...), nil
}

func (s *CSVDir) pickFiles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*Mileage*.csv"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.Dir, err)
	}
	if len(matches) == 0 {
		matches, err = filepath.Glob(filepath.Join(s.Dir, "*.csv"))
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.Dir, err)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func readCSVFile(path string) (core.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Dataset{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows
	records, err := r.ReadAll()
	if err != nil {
		return core.Dataset{}, err
	}
	if len(records) == 0 {
		return core.Dataset{}, nil
	}
	return fromTable(records[0], records[1:]), nil
}
