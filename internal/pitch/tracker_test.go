package pitch

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/signal"
)

const testSampleRate = 48000.0

func feedSine(t *testing.T, tr *Tracker, freq, amp float64, seconds float64) {
	t.Helper()
	gen := signal.NewGenerator(core.WithSampleRate(testSampleRate))
	samples, err := gen.Sine(freq, amp, int(testSampleRate*seconds))
	if err != nil {
		t.Fatalf("generate sine: %v", err)
	}
	for _, s := range samples {
		tr.Process(float32(s))
	}
}

func TestTrackerConvergesOnSine(t *testing.T) {
	for _, freq := range []float64{82.4, 110, 220, 440, 1000, 1400, 1480} {
		tr := NewTracker(testSampleRate)
		feedSine(t, tr, freq, 0.3, 1.0)

		got := tr.Frequency()
		if math.Abs(got-freq)/freq > 0.02 {
			t.Errorf("freq %.1f: estimate %.2f outside 2%%", freq, got)
		}
		if tr.Confidence() <= 0.85 {
			t.Errorf("freq %.1f: confidence %.3f, want > 0.85", freq, tr.Confidence())
		}
	}
}

func TestTrackerTopOfRangeNeverHalves(t *testing.T) {
	// Just under MaxFrequency the period rounds down to the hold-off
	// boundary. If the hold-off rejected a full period there, the next
	// edge would measure two periods and the estimate would collapse an
	// octave with full confidence.
	for _, freq := range []float64{1470, 1499} {
		tr := NewTracker(testSampleRate)
		feedSine(t, tr, freq, 0.3, 2.0)

		got := tr.Frequency()
		if got < freq*0.75 {
			t.Errorf("freq %.0f: estimate %.2f collapsed toward an octave down", freq, got)
		}
		if math.Abs(got-freq)/freq > 0.05 {
			t.Errorf("freq %.0f: estimate %.2f outside 5%%", freq, got)
		}
	}
}

func TestTrackerSilenceDecaysConfidenceToZero(t *testing.T) {
	tr := NewTracker(testSampleRate)
	feedSine(t, tr, 220, 0.3, 0.5)
	if tr.Confidence() < 0.85 {
		t.Fatalf("confidence %.3f after sine, want >= 0.85", tr.Confidence())
	}
	held := tr.Frequency()

	// Well past the decay window: 0.99995^300000 is far below the
	// denormal floor, so the snap-to-zero must have fired.
	for i := 0; i < 300000; i++ {
		tr.Process(0)
	}
	if tr.Confidence() != 0 {
		t.Errorf("confidence after silence = %g, want exactly 0", tr.Confidence())
	}
	if tr.Frequency() != held {
		t.Errorf("frequency drifted during silence: %.2f -> %.2f", held, tr.Frequency())
	}
}

func TestTrackerIgnoresSubsonicAndSupersonic(t *testing.T) {
	for _, freq := range []float64{20, 40, 1900, 4000} {
		tr := NewTracker(testSampleRate)
		feedSine(t, tr, freq, 0.3, 0.5)
		if tr.Frequency() == freq {
			t.Errorf("freq %.0f outside the accepted range must not be adopted", freq)
		}
	}
}

func TestTrackerNoiseFloorNeverFires(t *testing.T) {
	tr := NewTracker(testSampleRate)
	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(testSampleRate)},
		signal.WithSeed(7),
	)
	// Noise below the crossing band: the detector must stay silent.
	samples, err := gen.WhiteNoise(0.0005, 48000)
	if err != nil {
		t.Fatalf("generate noise: %v", err)
	}
	for _, s := range samples {
		tr.Process(float32(s))
	}
	if tr.Confidence() > 0.1 {
		t.Errorf("confidence %.3f on floor hiss, want near 0", tr.Confidence())
	}
	if tr.Frequency() != 440.0 {
		t.Errorf("frequency moved off its initial value on hiss: %.2f", tr.Frequency())
	}
}

func TestTrackerConfidenceStaysInRange(t *testing.T) {
	tr := NewTracker(testSampleRate)
	gen := signal.NewGenerator(core.WithSampleRate(testSampleRate))
	samples, _ := gen.Sine(440, 0.5, 24000)
	for _, s := range samples {
		tr.Process(float32(s))
		if c := tr.Confidence(); c < 0 || c > 1 {
			t.Fatalf("confidence %f out of [0,1]", c)
		}
	}
}
