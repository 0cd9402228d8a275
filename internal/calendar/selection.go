package calendar

import "carloc-backend/internal/domain"

// SelectionState is the phase of the two-tap range selection.
type SelectionState int

const (
	SelectionEmpty SelectionState = iota
	SelectionStartPicked
	SelectionComplete
)

func (s SelectionState) String() string {
	switch s {
	case SelectionStartPicked:
		return "start_picked"
	case SelectionComplete:
		return "complete"
	default:
		return "empty"
	}
}

// Selection is the interactive two-tap range selector: first tap picks the
// start, second tap completes the range, third tap resets. Illegal states are
// unrepresentable: start and end are only readable once the respective phase
// is reached, and a complete range never contains a booked or past day as of
// the index consulted at tap time.
//
// The guarantee is advisory; the reservation writer re-validates against
// current bookings at commit time.
type Selection struct {
	state SelectionState
	start Day
	end   Day
}

func NewSelection() *Selection {
	return &Selection{state: SelectionEmpty}
}

func (s *Selection) State() SelectionState { return s.state }

// Start returns the selected start day once one is picked.
func (s *Selection) Start() (Day, bool) {
	if s.state == SelectionEmpty {
		return Day{}, false
	}
	return s.start, true
}

// Range returns the completed range. ok is false until the selection is
// complete.
func (s *Selection) Range() (start, end Day, ok bool) {
	if s.state != SelectionComplete {
		return Day{}, Day{}, false
	}
	return s.start, s.end, true
}

// Tap feeds one day tap through the state machine, consulting idx for day
// availability.
//
//   - Tapping a booked or past day is ignored, except that a tap in the
//     complete state is always consumed as a reset.
//   - From empty, the tapped day becomes the start.
//   - From start-picked, the tapped day and the start are ordered into
//     (lo, hi); if any day of [lo, hi] is booked or past the tap fails with a
//     conflict error and the selection keeps its start unchanged. The range is
//     never clipped to fit.
//   - From complete, the tap clears the selection and is consumed.
func (s *Selection) Tap(d Day, idx *AvailabilityIndex) error {
	if s.state == SelectionComplete {
		s.Reset()
		return nil
	}

	if !idx.Selectable(d) {
		return nil
	}

	switch s.state {
	case SelectionEmpty:
		s.start = d
		s.state = SelectionStartPicked
	case SelectionStartPicked:
		lo, hi := OrderRange(s.start, d)
		if blocked, found := idx.FirstBlocked(lo, hi); found {
			return domain.Conflictf("range %s..%s contains unavailable day %s", lo, hi, blocked)
		}
		s.start, s.end = lo, hi
		s.state = SelectionComplete
	}
	return nil
}

// Reset clears the selection back to empty.
func (s *Selection) Reset() {
	*s = Selection{state: SelectionEmpty}
}
