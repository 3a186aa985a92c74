package codec

// Status is the classification of a Transform call result.
type Status int

const (
	StatusOK Status = iota
	StatusBusy
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBusy:
		return "busy"
	case StatusFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// StatusOf classifies the error returned by ProcessOne or ProcessOutput.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case IsBusy(err):
		return StatusBusy
	default:
		return StatusFatal
	}
}
