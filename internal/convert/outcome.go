package convert

// FailureKind is the closed taxonomy of per-task failures. It is purely
// informational: every kind is counted as failed and the run continues.
type FailureKind int

const (
	FailurePermissionDenied FailureKind = iota
	FailureDiskFull
	FailureCorruptInput
	FailureFinalize
	FailureUnknown
)

// String returns the identifier used in logs and the history store.
func (k FailureKind) String() string {
	switch k {
	case FailurePermissionDenied:
		return "permission_denied"
	case FailureDiskFull:
		return "disk_full"
	case FailureCorruptInput:
		return "corrupt_input"
	case FailureFinalize:
		return "finalize_failed"
	default:
		return "unknown"
	}
}

// label returns the human form shown in progress lines.
func (k FailureKind) label() string {
	switch k {
	case FailurePermissionDenied:
		return "Permission Denied"
	case FailureDiskFull:
		return "Disk Full"
	case FailureCorruptInput:
		return "Corrupt Input File"
	case FailureFinalize:
		return "Finalize Failed"
	default:
		return "Unknown Error"
	}
}

// Outcome is the terminal state of one task. Exactly one Outcome is produced
// per task.
type Outcome struct {
	Task    Task
	Success bool
	Kind    FailureKind
	Detail  string
}

// Label returns the status text for progress lines: "OK" on success,
// "FAILED (<kind>)" otherwise.
func (o Outcome) Label() string {
	if o.Success {
		return "OK"
	}
	return "FAILED (" + o.Kind.label() + ")"
}
