package gate

import "testing"

func TestPasses(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		distances []float64
		want      bool
	}{
		{
			name:      "empty pool always fails",
			threshold: 0.45,
			distances: nil,
			want:      false,
		},
		{
			name:      "single strong match passes despite noisy tail",
			threshold: 0.45,
			distances: []float64{0.2, 0.9, 1.1},
			want:      true,
		},
		{
			name:      "all candidates beyond threshold fails",
			threshold: 0.45,
			distances: []float64{0.9, 1.3},
			want:      false,
		},
		{
			name:      "minimum exactly at threshold passes",
			threshold: 0.45,
			distances: []float64{0.45, 0.8},
			want:      true,
		},
		{
			name:      "minimum not in first position",
			threshold: 0.45,
			distances: []float64{0.9, 0.3, 1.2},
			want:      true,
		},
		{
			name:      "single candidate below threshold",
			threshold: 0.45,
			distances: []float64{0.1},
			want:      true,
		},
		{
			name:      "single candidate above threshold",
			threshold: 0.45,
			distances: []float64{0.46},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.threshold)
			if got := g.Passes(tt.distances); got != tt.want {
				t.Errorf("Passes(%v) = %v, want %v", tt.distances, got, tt.want)
			}
		})
	}
}
