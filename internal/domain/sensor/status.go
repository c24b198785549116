package sensor

// Status is the escalation level of a sensor.
type Status string

const (
	// StatusCalm is the initial and reset state: no recent motion.
	StatusCalm Status = "CALM"
	// StatusWarning means a single trigger was observed since the last reset.
	StatusWarning Status = "WARNING"
	// StatusAlert means repeated triggers were observed.
	// The sensor stays in ALERT until an explicit reset.
	StatusAlert Status = "ALERT"
)

// Valid reports whether s is one of the defined escalation levels.
func (s Status) Valid() bool {
	switch s {
	case StatusCalm, StatusWarning, StatusAlert:
		return true
	default:
		return false
	}
}

// Apply computes the next status for a single trigger observation.
// The second return value reports whether a transition happened, i.e.
// whether the caller must persist the new status and refresh UpdatedAt.
//
// A non-triggered observation never changes the status. A triggered one
// escalates CALM to WARNING and WARNING to ALERT; ALERT is terminal until
// reset, so further triggers are no-ops.
func Apply(current Status, isTriggered bool) (Status, bool) {
	if !isTriggered {
		return current, false
	}

	switch current {
	case StatusCalm:
		return StatusWarning, true
	case StatusWarning:
		return StatusAlert, true
	case StatusAlert:
		return StatusAlert, false
	default:
		return current, false
	}
}
