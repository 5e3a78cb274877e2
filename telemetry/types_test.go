package telemetry

import (
	"encoding/json"
	"testing"
)

func TestRawFixUnmarshalAbsentFields(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		wantSpeed   float64
		hasSpeed    bool
		wantHeading float64
		hasHeading  bool
	}{
		{
			name:       "speed and heading omitted",
			payload:    `{"lat":59.33,"lng":18.06,"accuracy":5,"timestamp":"2026-03-02T12:00:00Z"}`,
			hasSpeed:   false,
			hasHeading: false,
		},
		{
			name:       "explicit null",
			payload:    `{"lat":59.33,"lng":18.06,"reportedSpeed":null,"reportedHeading":null,"accuracy":5,"timestamp":"2026-03-02T12:00:00Z"}`,
			hasSpeed:   false,
			hasHeading: false,
		},
		{
			name:        "zero is a present reading",
			payload:     `{"lat":59.33,"lng":18.06,"reportedSpeed":0,"reportedHeading":0,"accuracy":5,"timestamp":"2026-03-02T12:00:00Z"}`,
			wantSpeed:   0,
			hasSpeed:    true,
			wantHeading: 0,
			hasHeading:  true,
		},
		{
			name:        "both supplied",
			payload:     `{"lat":59.33,"lng":18.06,"reportedSpeed":52.5,"reportedHeading":210,"accuracy":5,"timestamp":"2026-03-02T12:00:00Z"}`,
			wantSpeed:   52.5,
			hasSpeed:    true,
			wantHeading: 210,
			hasHeading:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f RawFix
			if err := json.Unmarshal([]byte(tt.payload), &f); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if f.HasReportedSpeed() != tt.hasSpeed {
				t.Errorf("HasReportedSpeed() = %v, want %v (value %v)", f.HasReportedSpeed(), tt.hasSpeed, f.ReportedSpeed)
			}
			if tt.hasSpeed && f.ReportedSpeed != tt.wantSpeed {
				t.Errorf("ReportedSpeed = %v, want %v", f.ReportedSpeed, tt.wantSpeed)
			}
			if f.HasReportedHeading() != tt.hasHeading {
				t.Errorf("HasReportedHeading() = %v, want %v (value %v)", f.HasReportedHeading(), tt.hasHeading, f.ReportedHeading)
			}
			if tt.hasHeading && f.ReportedHeading != tt.wantHeading {
				t.Errorf("ReportedHeading = %v, want %v", f.ReportedHeading, tt.wantHeading)
			}
			if f.Lat != 59.33 || f.Lng != 18.06 || f.Accuracy != 5 {
				t.Errorf("coordinate fields lost in decode: %+v", f)
			}
		})
	}
}
