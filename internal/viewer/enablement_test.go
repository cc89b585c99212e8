package viewer

import "testing"

func TestEnablementFor(t *testing.T) {
	tests := []struct {
		name       string
		hasDataset bool
		want       bool
	}{
		{"no dataset disables every command", false, false},
		{"dataset enables every command", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := EnablementFor(tt.hasDataset)
			flags := map[string]bool{
				"AttributeTable":   e.AttributeTable,
				"ProjectionInfo":   e.ProjectionInfo,
				"SwitchProjection": e.SwitchProjection,
				"Clip":             e.Clip,
				"LabelFeatures":    e.LabelFeatures,
			}
			for name, got := range flags {
				if got != tt.want {
					t.Errorf("%s = %v, want %v", name, got, tt.want)
				}
			}
		})
	}
}
