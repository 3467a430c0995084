// Package crowd turns the stream of per-place reports into the single
// crowd-level signal the listing and detail views display.
package crowd

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/ekermen/crowdcheck/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// ReportTTL is fixed at write time; a report's expires_at is never
	// recomputed afterwards.
	ReportTTL = 2 * time.Hour

	// WindowSize caps how many of the most-recently-expiring active reports
	// feed the average.
	WindowSize = 10
)

// Crowd-level labels.
const (
	LevelLow     = "Low"
	LevelMedium  = "Medium"
	LevelHigh    = "High"
	LevelUnknown = "Unknown"
)

var ErrDataUnavailable = errors.New("report store unavailable")

// Store is the report-store contract the engine aggregates over.
// Implementations must filter to expires_at > now, order by
// (expires_at desc, created_at desc) and cap at limit. Repeated calls against
// an unchanged store must return identical ordered results.
type Store interface {
	ActiveReports(ctx context.Context, placeID uuid.UUID, now time.Time, limit int) ([]model.Report, error)
}

// Summary is the derived crowd signal for one place.
type Summary struct {
	CrowdLevel     string     `json:"crowd_level"`
	LastReportTime *time.Time `json:"last_report_time"`
	ReportCount    int        `json:"report_count"`
}

// Result pairs a place's summary with its own error. A failed place never
// taints its siblings in a batch.
type Result struct {
	Summary Summary
	Err     error
}

// Aggregate reduces the active-report window for a place to a Summary.
// LastReportTime is the created_at of the head of the (expires_at desc,
// created_at desc) ordering, which is the most recently expiring report, not
// necessarily the most recently created one.
func Aggregate(ctx context.Context, store Store, placeID uuid.UUID, now time.Time) (Summary, error) {
	reports, err := store.ActiveReports(ctx, placeID, now, WindowSize)
	if err != nil {
		return Summary{CrowdLevel: LevelUnknown}, errors.Wrapf(ErrDataUnavailable, "fetching active reports for place %s: %v", placeID, err)
	}

	if len(reports) == 0 {
		return Summary{CrowdLevel: LevelUnknown}, nil
	}

	sum := 0
	for _, r := range reports {
		sum += r.CrowdLevel
	}
	mean := float64(sum) / float64(len(reports))
	rounded := int(math.Floor(mean + 0.5)) // 0.5 rounds up

	head := reports[0].CreatedAt
	return Summary{
		CrowdLevel:     Label(rounded),
		LastReportTime: &head,
		ReportCount:    len(reports),
	}, nil
}

// Label maps a numeric crowd level to its display label. Values are
// constrained to {1,2,3} at write time; out-of-range input clamps instead of
// failing.
func Label(level int) string {
	switch {
	case level <= 1:
		return LevelLow
	case level == 2:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// AggregateAll computes summaries for many places concurrently, one fetch per
// place, joined when all complete. Each entry carries its own error.
func AggregateAll(ctx context.Context, store Store, placeIDs []uuid.UUID, now time.Time) map[uuid.UUID]Result {
	results := make(map[uuid.UUID]Result, len(placeIDs))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, placeID := range placeIDs {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			summary, err := Aggregate(ctx, store, id, now)
			mu.Lock()
			results[id] = Result{Summary: summary, Err: err}
			mu.Unlock()
		}(placeID)
	}
	wg.Wait()

	return results
}
