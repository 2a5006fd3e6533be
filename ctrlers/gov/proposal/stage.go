package proposal

// Stage is the lifecycle position of a proposal. Once dequeued, the stage is
// a pure function of the dequeue timestamp and the configured durations.
type Stage int32

const (
	StageNone Stage = iota
	StageQueued
	StageApproval
	StageReferendum
	StageExecution
	StageExpiration
)

func (s Stage) String() string {
	switch s {
	case StageNone:
		return "None"
	case StageQueued:
		return "Queued"
	case StageApproval:
		return "Approval"
	case StageReferendum:
		return "Referendum"
	case StageExecution:
		return "Execution"
	case StageExpiration:
		return "Expiration"
	default:
		return "Unknown"
	}
}

// StageDurations holds the three dequeued-stage windows in seconds.
type StageDurations struct {
	Approval   int64 `json:"approval"`
	Referendum int64 `json:"referendum"`
	Execution  int64 `json:"execution"`
}

// StageAt maps a dequeue timestamp and the current time onto a stage.
// A zero dequeuedAt means the proposal has not been dequeued yet.
func StageAt(dequeuedAt, now int64, d StageDurations) Stage {
	if dequeuedAt == 0 {
		return StageQueued
	}
	elapsed := now - dequeuedAt
	switch {
	case elapsed < d.Approval:
		return StageApproval
	case elapsed < d.Approval+d.Referendum:
		return StageReferendum
	case elapsed < d.Approval+d.Referendum+d.Execution:
		return StageExecution
	default:
		return StageExpiration
	}
}
