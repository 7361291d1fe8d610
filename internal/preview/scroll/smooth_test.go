package scroll

import (
	"math"
	"testing"
)

func TestAlpha(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		halfLife float64
		want     float64
	}{
		{"one frame per half-life", 10, 0.1, 0.5},
		{"two frames per half-life", 20, 0.1, 1 - math.Sqrt(0.5)},
		{"zero rate", 0, 0.1, 1},
		{"zero half-life", 60, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Alpha(tt.rate, tt.halfLife); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Alpha(%v, %v) = %v, want %v", tt.rate, tt.halfLife, got, tt.want)
			}
		})
	}
}

func TestSmoothHalvesDistancePerHalfLife(t *testing.T) {
	const halfLife = 0.1
	for _, fps := range []float64{30, 60, 120, 240} {
		dt := 1 / fps
		current, rate := 0.0, fps
		frames := int(math.Round(halfLife * fps))
		for i := 0; i < frames; i++ {
			current, rate = Smooth(current, 1000, dt, rate, halfLife)
		}
		if math.Abs(current-500) > 1e-6 {
			t.Errorf("%v fps: after %d frames expected 500, got %v", fps, frames, current)
		}
	}
}

func TestSmoothRateEstimate(t *testing.T) {
	_, rate := Smooth(0, 100, 0.01, 20, 0.1)
	if want := 20*0.9 + 100*0.1; math.Abs(rate-want) > 1e-12 {
		t.Errorf("expected rate %v, got %v", want, rate)
	}

	_, rate = Smooth(0, 100, 0, 42, 0.1)
	if rate != 42 {
		t.Errorf("zero dt must keep the estimate, got %v", rate)
	}
}

func TestSmoothVariableFrameRate(t *testing.T) {
	// Jittery frame times still approach the target without overshoot.
	dts := []float64{0.016, 0.033, 0.008, 0.050, 0.016, 0.016, 0.100, 0.004}
	current, rate := 0.0, DefaultRate
	for i := 0; i < 200; i++ {
		next, r := Smooth(current, 100, dts[i%len(dts)], rate, 0.1)
		if next < current || next > 100+1e-9 {
			t.Fatalf("step %d: %v -> %v", i, current, next)
		}
		current, rate = next, r
	}
	if 100-current > 1 {
		t.Errorf("expected to be within 1 of target, got %v", current)
	}
}

func TestSmoothAtTarget(t *testing.T) {
	next, _ := Smooth(250, 250, 1.0/60, 60, 0.1)
	if next != 250 {
		t.Errorf("expected no movement at target, got %v", next)
	}
}
