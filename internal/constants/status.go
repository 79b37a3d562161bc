package constants

type TaskStatus int

const (
	StatusNotStarted TaskStatus = 0
	StatusInProgress TaskStatus = 1
	StatusDone       TaskStatus = 2
)

func (s TaskStatus) Label() string {
	switch s {
	case StatusNotStarted:
		return "Not started"
	case StatusInProgress:
		return "In progress"
	case StatusDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// CanTransition reports whether a task may move from one status to another.
// Only single-step forward moves are allowed.
func CanTransition(from, to TaskStatus) bool {
	switch from {
	case StatusNotStarted:
		return to == StatusInProgress
	case StatusInProgress:
		return to == StatusDone
	default:
		return false
	}
}
