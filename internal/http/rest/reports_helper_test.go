package rest

import (
	"context"
	"testing"

	"github.com/ekermen/crowdcheck/internal/model"
	"github.com/ekermen/crowdcheck/util"
	"github.com/ekermen/crowdcheck/util/values"
)

// The API under test carries a nil pool, so any store access panics. A
// rejected submission must therefore fail during validation, before the
// repo layer is reached.
func TestCreateReportHelperRejectsBeforeStoreAccess(t *testing.T) {
	api := &API{}

	tests := []struct {
		name string
		req  model.CreateReportRequest
	}{
		{
			name: "crowd level above range",
			req: model.CreateReportRequest{
				PlaceID:    util.GenerateUUID(),
				UserID:     util.GenerateUUID(),
				UserEmail:  "reporter@example.com",
				CrowdLevel: 5,
			},
		},
		{
			name: "crowd level zero",
			req: model.CreateReportRequest{
				PlaceID:    util.GenerateUUID(),
				UserID:     util.GenerateUUID(),
				UserEmail:  "reporter@example.com",
				CrowdLevel: 0,
			},
		},
		{
			name: "missing place",
			req: model.CreateReportRequest{
				UserID:     util.GenerateUUID(),
				UserEmail:  "reporter@example.com",
				CrowdLevel: 2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, status, _, err := api.CreateReportHelper(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if status != values.BadRequestBody {
				t.Errorf("got status %q, want %q", status, values.BadRequestBody)
			}
		})
	}
}
