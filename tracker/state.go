package tracker

// State is the lifecycle state of the tracker
type State int

const (
	// Lost means no target is held, the next frame acquires one
	Lost State = iota
	// Detecting means a target was acquired but has not yet been matched
	// often enough to be trusted
	Detecting
	// Tracking means the target is confirmed and matched this frame
	Tracking
	// TempLost means a confirmed target went unmatched recently
	TempLost
)

func (s State) String() string {
	switch s {
	case Lost:
		return "lost"
	case Detecting:
		return "detecting"
	case Tracking:
		return "tracking"
	case TempLost:
		return "temp_lost"
	}
	return "unknown"
}

// transition returns the next state for a frame that matched or not
type transition func(l *lifecycle, matched bool) State

// transitions is indexed by the current state
var transitions = [...]transition{
	Lost: func(_ *lifecycle, _ bool) State {
		// only Init leaves Lost
		return Lost
	},
	Detecting: func(l *lifecycle, matched bool) State {
		if !matched {
			l.detectCount = 0
			return Lost
		}

		l.detectCount++

		if l.detectCount > l.trackingThres {
			l.detectCount = 0
			return Tracking
		}

		return Detecting
	},
	Tracking: func(l *lifecycle, matched bool) State {
		if matched {
			return Tracking
		}

		l.lostCount = 1
		return TempLost
	},
	TempLost: func(l *lifecycle, matched bool) State {
		if matched {
			l.lostCount = 0
			return Tracking
		}

		l.lostCount++

		if l.lostCount > l.lostThres {
			l.lostCount = 0
			return Lost
		}

		return TempLost
	},
}

// lifecycle is the match driven state machine of a Tracker
type lifecycle struct {
	state         State
	detectCount   int
	lostCount     int
	trackingThres int
	lostThres     int
}

// acquire moves to Detecting with cleared counters
func (l *lifecycle) acquire() {
	l.state = Detecting
	l.detectCount = 0
	l.lostCount = 0
}

// step applies the outcome of one frame and returns the new state
func (l *lifecycle) step(matched bool) State {
	l.state = transitions[l.state](l, matched)
	return l.state
}
