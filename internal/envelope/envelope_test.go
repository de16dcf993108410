package envelope

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/signal"
)

const testSampleRate = 48000.0

func TestFollowerTracksSineRMS(t *testing.T) {
	f := NewFollower(testSampleRate)
	gen := signal.NewGenerator(core.WithSampleRate(testSampleRate))
	samples, err := gen.Sine(220, 0.3, 24000)
	if err != nil {
		t.Fatalf("generate sine: %v", err)
	}
	for _, s := range samples {
		f.Process(float32(s))
	}
	want := 0.3 / math.Sqrt2
	if math.Abs(f.Level()-want) > 0.05 {
		t.Errorf("level = %.4f, want ~%.4f", f.Level(), want)
	}
}

func TestFollowerLevelNeverNegative(t *testing.T) {
	f := NewFollower(testSampleRate)
	// A step edge makes the two-pole filter ring; the level must stay
	// clamped at or above zero throughout.
	for i := 0; i < 2000; i++ {
		f.Process(0.8)
		if f.Level() < 0 {
			t.Fatalf("level %f < 0 at sample %d", f.Level(), i)
		}
	}
	for i := 0; i < 20000; i++ {
		f.Process(0)
		l := f.Level()
		if l < 0 || math.IsNaN(l) {
			t.Fatalf("level %f invalid during decay at sample %d", l, i)
		}
	}
}

func TestGateHysteresis(t *testing.T) {
	g := NewGate(0.1)
	if g.IsOpen() {
		t.Fatal("gate must start closed")
	}

	g.Process(0.11)
	if !g.IsOpen() {
		t.Fatal("gate should open above the open threshold")
	}

	// Between close (0.05) and open (0.1): must stay open.
	g.Process(0.07)
	if !g.IsOpen() {
		t.Error("gate closed inside the hysteresis band")
	}

	g.Process(0.04)
	if g.IsOpen() {
		t.Error("gate should close below the close threshold")
	}

	// Between the thresholds again: must stay closed this time.
	g.Process(0.07)
	if g.IsOpen() {
		t.Error("gate reopened inside the hysteresis band")
	}
}

func TestGateThresholdOrdering(t *testing.T) {
	g := NewGate(0.02)
	if g.closeThresh >= g.openThresh {
		t.Errorf("close %f must be strictly below open %f", g.closeThresh, g.openThresh)
	}
	g.SetThreshold(0.5)
	if g.closeThresh >= g.openThresh {
		t.Errorf("close %f must be strictly below open %f after SetThreshold", g.closeThresh, g.openThresh)
	}
}

func TestVCAAttackFasterThanRelease(t *testing.T) {
	var v VCA

	attack := 0
	for v.Gain() < 0.63 {
		v.Process(1)
		attack++
		if attack > 1_000_000 {
			t.Fatal("attack never reached 63%")
		}
	}

	// Let it settle fully, then release toward zero.
	for i := 0; i < 200_000; i++ {
		v.Process(1)
	}
	release := 0
	for v.Gain() > 1-0.63 {
		v.Process(0)
		release++
		if release > 10_000_000 {
			t.Fatal("release never reached 63%")
		}
	}

	if attack >= release {
		t.Errorf("attack (%d samples) should be faster than release (%d samples)", attack, release)
	}
}

func TestVCAClampsTarget(t *testing.T) {
	var v VCA
	for i := 0; i < 100_000; i++ {
		v.Process(5.0)
	}
	if v.Gain() > 1 {
		t.Errorf("gain %f exceeded 1 with an out-of-range target", v.Gain())
	}
	for i := 0; i < 100_000; i++ {
		v.Process(-3.0)
	}
	if v.Gain() < 0 {
		t.Errorf("gain %f went negative with an out-of-range target", v.Gain())
	}
}
