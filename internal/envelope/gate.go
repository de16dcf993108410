package envelope

// gateState names the two states of the Schmitt trigger.
type gateState int

const (
	gateClosed gateState = iota
	gateOpen
)

// closeRatio places the close threshold at half the open threshold, so
// a decaying string has to fall to half volume before the gate shuts.
const closeRatio = 0.5

// Gate is a hysteresis gate on the envelope level. It opens above the
// open threshold and closes only below the lower close threshold, which
// keeps it from stuttering while a note decays across the boundary.
type Gate struct {
	state       gateState
	openThresh  float64
	closeThresh float64
}

// NewGate returns a closed gate with the given open threshold.
func NewGate(openThreshold float64) *Gate {
	g := &Gate{}
	g.SetThreshold(openThreshold)
	return g
}

// SetThreshold updates the open threshold; the close threshold follows
// at half of it. Negative thresholds are treated as zero.
func (g *Gate) SetThreshold(openThreshold float64) {
	if openThreshold < 0 {
		openThreshold = 0
	}
	g.openThresh = openThreshold
	g.closeThresh = openThreshold * closeRatio
}

// Process feeds the current envelope level through the trigger.
func (g *Gate) Process(level float64) {
	switch g.state {
	case gateClosed:
		if level > g.openThresh {
			g.state = gateOpen
		}
	case gateOpen:
		if level < g.closeThresh {
			g.state = gateClosed
		}
	}
}

// IsOpen reports whether the gate is currently open.
func (g *Gate) IsOpen() bool { return g.state == gateOpen }

// Reset closes the gate without changing thresholds.
func (g *Gate) Reset() { g.state = gateClosed }
