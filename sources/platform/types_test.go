package platform

import "testing"

func TestParsePlan(t *testing.T) {
	tests := []struct {
		input    string
		expected Plan
	}{
		{"free", PlanFree},
		{"starter", PlanStarter},
		{"pro", PlanPro},
		{"team", PlanTeam},
		{"", PlanFree},
		{"enterprise", PlanFree},
	}

	for _, tt := range tests {
		if got := ParsePlan(tt.input); got != tt.expected {
			t.Errorf("ParsePlan(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestBoolValue(t *testing.T) {
	if BoolValue(nil) {
		t.Error("BoolValue(nil) = true, expected false")
	}
	if !BoolValue(BoolPtr(true)) {
		t.Error("BoolValue(true) = false, expected true")
	}
}
