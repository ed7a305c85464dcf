package validators

import (
	"testing"

	"gorent/internal/models"
)

func TestValidateBookingWindow(t *testing.T) {
	tests := []struct {
		name    string
		request models.BookingRequest
		wantErr bool
	}{
		{
			name: "two day rental",
			request: models.BookingRequest{
				StartDate: "2026-03-01", StartTime: "10:00",
				EndDate: "2026-03-03", EndTime: "10:00",
			},
		},
		{
			name: "maximum length rental",
			request: models.BookingRequest{
				StartDate: "2026-03-01", StartTime: "10:00",
				EndDate: "2026-05-30", EndTime: "10:00",
			},
		},
		{
			name: "window beyond maximum",
			request: models.BookingRequest{
				StartDate: "2026-01-01", StartTime: "10:00",
				EndDate: "2026-12-31", EndTime: "10:00",
			},
			wantErr: true,
		},
		{
			name:    "empty window falls back to one day",
			request: models.BookingRequest{},
		},
		{
			name: "reversed endpoints within bound",
			request: models.BookingRequest{
				StartDate: "2026-03-03", StartTime: "10:00",
				EndDate: "2026-03-01", EndTime: "10:00",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBookingWindow(&tt.request)
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
