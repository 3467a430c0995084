package util

import (
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	testTime := time.Date(2025, 4, 5, 14, 30, 45, 0, time.UTC)

	// Test cases with different formats
	testCases := []struct {
		name           string
		format         string
		expectedResult string
	}{
		{"RFC3339", time.RFC3339, "2025-04-05T14:30:45Z"},
		{"Simple Date", "2006-01-02", "2025-04-05"},
		{"Time Only", "15:04:05", "14:30:45"},
		{"Date and Time", "2006-01-02 15:04:05", "2025-04-05 14:30:45"},
		{"Kitchen Time", time.Kitchen, "2:30PM"},
		{"Empty Format", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := formatTime(tc.format, testTime)

			if result != tc.expectedResult {
				t.Errorf("formatTime(%q, %v) = %q; want %q",
					tc.format, testTime, result, tc.expectedResult)
			}
		})
	}
}

func TestValidateCrowdLevel(t *testing.T) {
	type report struct {
		Level int `validate:"crowdlevel"`
	}

	testCases := []struct {
		name    string
		level   int
		wantErr bool
	}{
		{"Low", 1, false},
		{"Medium", 2, false},
		{"High", 3, false},
		{"Zero", 0, true},
		{"OutOfRange", 5, true},
		{"Negative", -1, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStruct(report{Level: tc.level})
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateStruct(level=%d) error = %v; wantErr %v", tc.level, err, tc.wantErr)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	type place struct {
		Category string `validate:"category"`
	}

	for _, cat := range []string{"health", "food", "fitness", "shopping", "education", "entertainment"} {
		if err := ValidateStruct(place{Category: cat}); err != nil {
			t.Errorf("category %q should be valid, got %v", cat, err)
		}
	}
	if err := ValidateStruct(place{Category: "nightlife"}); err == nil {
		t.Error("unknown category should fail validation")
	}
}

func TestStatusCodeDefaultsToOK(t *testing.T) {
	if got := StatusCode("something-else"); got != 200 {
		t.Errorf("StatusCode default = %d; want 200", got)
	}
}
