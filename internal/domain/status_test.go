package domain

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "open", want: StatusOpen},
		{in: "opening_soon", want: StatusOpeningSoon},
		{in: "closing_soon", want: StatusClosingSoon},
		{in: "closed", want: StatusClosed},
		{in: "inactive", want: StatusInactive},
		{in: "unknown", want: StatusUnknown},
		{in: "Open", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseStatus(%q) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStatus(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewProcessedTruckInRange(t *testing.T) {
	entry := ScheduleEntry{ID: "s1", TruckName: "Taco Loco", StartTime: "10:00", EndTime: "16:00"}

	if p := NewProcessedTruck(entry, StatusClosed); p.IsInRange {
		t.Errorf("closed truck should not be in range")
	}
	if p := NewProcessedTruck(entry, StatusOpeningSoon); !p.IsInRange {
		t.Errorf("opening_soon truck should be in range")
	}

	p := NewProcessedTruck(entry, "")
	if !p.IsInRange {
		t.Errorf("unclassified truck should be in range")
	}
	if p.DisplayStatus() != StatusInactive {
		t.Errorf("DisplayStatus() = %q, want %q", p.DisplayStatus(), StatusInactive)
	}
}
