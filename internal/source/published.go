package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"mileage/internal/core"
)

// Published fetches per-driver published-spreadsheet CSV exports over
// HTTP. Sheets are fetched concurrently; an unreachable sheet is
// skipped with a warning so one broken export never blocks the rest.
// Rows are tagged with the driver name.
type Published struct {
	// Sheets maps driver name to published CSV URL.
	Sheets map[string]string
	Client *http.Client
}

func NewPublished(sheets map[string]string) *Published {
	return &Published{
		Sheets: sheets,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *Published) Fetch(ctx context.Context) (core.Dataset, error) {
	drivers := make([]string, 0, len(s.Sheets))
	for d := range s.Sheets {
		drivers = append(drivers, d)
	}
	sort.Strings(drivers)

	var mu sync.Mutex
	results := make(map[string]core.Dataset, len(drivers))

	g, gctx := errgroup.WithContext(ctx)
	for _, driver := range drivers {
		driver := driver
		url := s.Sheets[driver]
		g.Go(func() error {
			ds, err := s.fetchOne(gctx, url)
			if err != nil {
				// Skip this driver; the rest of the fleet still reports.
				slog.WarnContext(gctx, "Skipping unreachable driver sheet", "driver", driver, "error", err)
				return nil
			}
			mu.Lock()
			results[driver] = tag(ds, ColDriver, driver)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.Dataset{}, err
	}

	datasets := make([]core.Dataset, 0, len(results))
	for _, driver := range drivers {
		if ds, ok := results[driver]; ok {
			slog.InfoContext(ctx, "Loaded driver sheet", "driver", driver, "row_count", len(ds.Rows))
			datasets = append(datasets, ds)
		}
	}
	if len(datasets) == 0 {
		return core.Dataset{}, ErrNoData
	}
	return Merge(datasets...), nil
}

func (s *Published) fetchOne(ctx context.Context, url string) (core.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return core.Dataset{}, fmt.Errorf("fetch sheet: status %d", resp.StatusCode)
	}

	r := csv.NewReader(resp.Body)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return core.Dataset{}, fmt.Errorf("decode csv: %w", err)
	}
	if len(records) == 0 {
		return core.Dataset{}, nil
	}
	return fromTable(records[0], records[1:]), nil
}
