package crowd

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/ekermen/crowdcheck/internal/model"
	"github.com/google/uuid"
)

// fakeStore mirrors the store contract: filter expires_at > now, order by
// (expires_at desc, created_at desc), cap at limit.
type fakeStore struct {
	reports []model.Report
	failFor map[uuid.UUID]error
}

func (f *fakeStore) ActiveReports(_ context.Context, placeID uuid.UUID, now time.Time, limit int) ([]model.Report, error) {
	if err, ok := f.failFor[placeID]; ok {
		return nil, err
	}

	var active []model.Report
	for _, r := range f.reports {
		if r.PlaceID == placeID && r.ExpiresAt.After(now) {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if !active[i].ExpiresAt.Equal(active[j].ExpiresAt) {
			return active[i].ExpiresAt.After(active[j].ExpiresAt)
		}
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	if len(active) > limit {
		active = active[:limit]
	}
	return active, nil
}

func report(placeID uuid.UUID, level int, createdAt time.Time) model.Report {
	return model.Report{
		ID:         uuid.New(),
		PlaceID:    placeID,
		UserID:     uuid.New(),
		CrowdLevel: level,
		CreatedAt:  createdAt,
		ExpiresAt:  createdAt.Add(ReportTTL),
	}
}

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestAggregateNoActiveReports(t *testing.T) {
	placeID := uuid.New()
	store := &fakeStore{}

	summary, err := Aggregate(context.Background(), store, placeID, t0)
	if err != nil {
		t.Fatalf("Aggregate returned error %v", err)
	}
	want := Summary{CrowdLevel: LevelUnknown, LastReportTime: nil, ReportCount: 0}
	if !reflect.DeepEqual(summary, want) {
		t.Errorf("Aggregate = %+v; want %+v", summary, want)
	}
}

func TestAggregateMeanRounding(t *testing.T) {
	testCases := []struct {
		name   string
		levels []int
		want   string
	}{
		{"OneOneTwoRoundsDown", []int{1, 1, 2}, LevelLow},     // mean 1.33 -> 1
		{"TwoThreeRoundsHalfUp", []int{2, 3}, LevelHigh},      // mean 2.5 -> 3
		{"AllMedium", []int{2, 2, 2}, LevelMedium},            // mean 2
		{"OneThreeRoundsUp", []int{1, 3, 3}, LevelMedium},     // mean 2.33 -> 2
		{"SingleHigh", []int{3}, LevelHigh},
		{"LowMediumHalfUp", []int{1, 2}, LevelMedium},         // mean 1.5 -> 2
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			placeID := uuid.New()
			store := &fakeStore{}
			for i, level := range tc.levels {
				store.reports = append(store.reports, report(placeID, level, t0.Add(-time.Duration(i)*time.Minute)))
			}

			summary, err := Aggregate(context.Background(), store, placeID, t0)
			if err != nil {
				t.Fatalf("Aggregate returned error %v", err)
			}
			if summary.CrowdLevel != tc.want {
				t.Errorf("CrowdLevel = %q; want %q", summary.CrowdLevel, tc.want)
			}
			if summary.ReportCount != len(tc.levels) {
				t.Errorf("ReportCount = %d; want %d", summary.ReportCount, len(tc.levels))
			}
		})
	}
}

func TestAggregateIgnoresExpiredReports(t *testing.T) {
	placeID := uuid.New()
	store := &fakeStore{
		reports: []model.Report{
			report(placeID, 3, t0.Add(-10*time.Minute)),
		},
	}

	before, err := Aggregate(context.Background(), store, placeID, t0)
	if err != nil {
		t.Fatalf("Aggregate returned error %v", err)
	}

	// Inserting any number of expired reports must not change the result.
	for _, level := range []int{1, 1, 1, 2} {
		store.reports = append(store.reports, report(placeID, level, t0.Add(-3*time.Hour)))
	}
	expiredExactly := report(placeID, 1, t0.Add(-ReportTTL)) // expires_at == now is not active
	store.reports = append(store.reports, expiredExactly)

	after, err := Aggregate(context.Background(), store, placeID, t0)
	if err != nil {
		t.Fatalf("Aggregate returned error %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("aggregate changed after inserting expired reports: %+v -> %+v", before, after)
	}
	if after.CrowdLevel != LevelHigh || after.ReportCount != 1 {
		t.Errorf("got %+v; want single active High report", after)
	}
}

// The head of the (expires_at desc, created_at desc) ordering drives
// LastReportTime, which is the most recently expiring report, not the one
// with the greatest created_at overall.
func TestAggregateLastReportTimeFollowsExpiryOrdering(t *testing.T) {
	placeID := uuid.New()
	reportA := report(placeID, 1, t0)                     // expires t0+2h
	reportB := report(placeID, 3, t0.Add(10*time.Minute)) // expires t0+2h10m

	store := &fakeStore{reports: []model.Report{reportA, reportB}}

	summary, err := Aggregate(context.Background(), store, placeID, t0.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("Aggregate returned error %v", err)
	}
	if summary.LastReportTime == nil || !summary.LastReportTime.Equal(reportB.CreatedAt) {
		t.Errorf("LastReportTime = %v; want B's created_at %v", summary.LastReportTime, reportB.CreatedAt)
	}
}

func TestAggregateTieBreaksOnCreatedAt(t *testing.T) {
	placeID := uuid.New()
	// Same expiry instant, different creation times: created_at desc breaks
	// the tie, so the later-created report is the head.
	expiry := t0.Add(ReportTTL)
	older := model.Report{ID: uuid.New(), PlaceID: placeID, CrowdLevel: 1, CreatedAt: t0, ExpiresAt: expiry}
	newer := model.Report{ID: uuid.New(), PlaceID: placeID, CrowdLevel: 3, CreatedAt: t0.Add(time.Minute), ExpiresAt: expiry}

	store := &fakeStore{reports: []model.Report{older, newer}}

	summary, err := Aggregate(context.Background(), store, placeID, t0.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("Aggregate returned error %v", err)
	}
	if summary.LastReportTime == nil || !summary.LastReportTime.Equal(newer.CreatedAt) {
		t.Errorf("LastReportTime = %v; want %v", summary.LastReportTime, newer.CreatedAt)
	}
}

func TestAggregateWindowCap(t *testing.T) {
	placeID := uuid.New()
	store := &fakeStore{}
	// 15 active reports; only the 10 most recently expiring count.
	for i := 0; i < 15; i++ {
		store.reports = append(store.reports, report(placeID, 2, t0.Add(-time.Duration(i)*time.Minute)))
	}

	summary, err := Aggregate(context.Background(), store, placeID, t0)
	if err != nil {
		t.Fatalf("Aggregate returned error %v", err)
	}
	if summary.ReportCount != WindowSize {
		t.Errorf("ReportCount = %d; want window size %d", summary.ReportCount, WindowSize)
	}
}

func TestAggregateRepeatedReadsAreIdentical(t *testing.T) {
	placeID := uuid.New()
	store := &fakeStore{}
	for i, level := range []int{1, 3, 2, 2, 1} {
		store.reports = append(store.reports, report(placeID, level, t0.Add(-time.Duration(i)*time.Minute)))
	}

	first, err := store.ActiveReports(context.Background(), placeID, t0, WindowSize)
	if err != nil {
		t.Fatalf("ActiveReports returned error %v", err)
	}
	second, err := store.ActiveReports(context.Background(), placeID, t0, WindowSize)
	if err != nil {
		t.Fatalf("ActiveReports returned error %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated reads of an unchanged store returned different orderings")
	}
}

func TestAggregateStoreFailure(t *testing.T) {
	placeID := uuid.New()
	store := &fakeStore{failFor: map[uuid.UUID]error{placeID: errors.New("connection refused")}}

	summary, err := Aggregate(context.Background(), store, placeID, t0)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("error = %v; want ErrDataUnavailable", err)
	}
	if summary.CrowdLevel != LevelUnknown {
		t.Errorf("failed aggregate should degrade to Unknown, got %q", summary.CrowdLevel)
	}
}

func TestAggregateAllIsolatesFailures(t *testing.T) {
	healthy := uuid.New()
	broken := uuid.New()
	empty := uuid.New()

	store := &fakeStore{
		reports: []model.Report{
			report(healthy, 3, t0.Add(-5*time.Minute)),
			report(healthy, 3, t0.Add(-6*time.Minute)),
		},
		failFor: map[uuid.UUID]error{broken: errors.New("timeout")},
	}

	results := AggregateAll(context.Background(), store, []uuid.UUID{healthy, broken, empty}, t0)
	if len(results) != 3 {
		t.Fatalf("got %d results; want 3", len(results))
	}

	if res := results[healthy]; res.Err != nil || res.Summary.CrowdLevel != LevelHigh {
		t.Errorf("healthy place = %+v; want High with nil error", res)
	}
	if res := results[broken]; !errors.Is(res.Err, ErrDataUnavailable) {
		t.Errorf("broken place error = %v; want ErrDataUnavailable", res.Err)
	}
	if res := results[empty]; res.Err != nil || res.Summary.CrowdLevel != LevelUnknown || res.Summary.ReportCount != 0 {
		t.Errorf("empty place = %+v; want Unknown/0 with nil error", res)
	}
}

// Removing a report changes only its own place's aggregate on the next read.
func TestAggregateAfterReportRemoval(t *testing.T) {
	target := uuid.New()
	other := uuid.New()

	removed := report(target, 3, t0.Add(-5*time.Minute))
	kept := report(target, 1, t0.Add(-10*time.Minute))
	store := &fakeStore{
		reports: []model.Report{
			removed,
			kept,
			report(other, 2, t0.Add(-2*time.Minute)),
		},
	}

	otherBefore, err := Aggregate(context.Background(), store, other, t0)
	if err != nil {
		t.Fatalf("Aggregate returned error %v", err)
	}

	var remaining []model.Report
	for _, r := range store.reports {
		if r.ID != removed.ID {
			remaining = append(remaining, r)
		}
	}
	store.reports = remaining

	summary, err := Aggregate(context.Background(), store, target, t0)
	if err != nil {
		t.Fatalf("Aggregate returned error %v", err)
	}
	if summary.CrowdLevel != LevelLow || summary.ReportCount != 1 {
		t.Errorf("after removal got %+v; want Low with a single report", summary)
	}
	if summary.LastReportTime == nil || !summary.LastReportTime.Equal(kept.CreatedAt) {
		t.Errorf("LastReportTime = %v; want %v", summary.LastReportTime, kept.CreatedAt)
	}

	otherAfter, err := Aggregate(context.Background(), store, other, t0)
	if err != nil {
		t.Fatalf("Aggregate returned error %v", err)
	}
	if !reflect.DeepEqual(otherBefore, otherAfter) {
		t.Errorf("unrelated place changed: %+v -> %+v", otherBefore, otherAfter)
	}
}

func TestLabelClampsOutOfRange(t *testing.T) {
	testCases := []struct {
		level int
		want  string
	}{
		{0, LevelLow},
		{-4, LevelLow},
		{1, LevelLow},
		{2, LevelMedium},
		{3, LevelHigh},
		{7, LevelHigh},
	}
	for _, tc := range testCases {
		if got := Label(tc.level); got != tc.want {
			t.Errorf("Label(%d) = %q; want %q", tc.level, got, tc.want)
		}
	}
}
