package domain

// CaptureState tracks the capture/index lifecycle. A pass moves
// Idle -> Capturing -> Indexing -> Done; any other transition is invalid.
// The explicit states replace an in-progress boolean so concurrent-call
// rejection and progress reporting are observable.
type CaptureState int

// Capture lifecycle states.
const (
	// CaptureIdle means no pass is running.
	CaptureIdle CaptureState = iota

	// CaptureCapturing means raw products are being read.
	CaptureCapturing

	// CaptureIndexing means chunks are being embedded and stored.
	CaptureIndexing

	// CaptureDone means the last pass finished. Equivalent to Idle for
	// admission purposes but reports that work has completed.
	CaptureDone
)

// String returns the state name.
func (s CaptureState) String() string {
	switch s {
	case CaptureIdle:
		return "idle"
	case CaptureCapturing:
		return "capturing"
	case CaptureIndexing:
		return "indexing"
	case CaptureDone:
		return "done"
	default:
		return "unknown"
	}
}

// CanStart reports whether a new pass may begin from this state.
func (s CaptureState) CanStart() bool {
	return s == CaptureIdle || s == CaptureDone
}
