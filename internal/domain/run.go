package domain

// RunState enumerates pipeline milestones.
type RunState string

const (
	StateInit        RunState = "init"
	StateFetched     RunState = "fetched"
	StateSynthesized RunState = "synthesized"
	StateValidated   RunState = "validated"
	StateSent        RunState = "sent"
	StateReported    RunState = "reported"
	StateFailed      RunState = "failed"
)

// Terminal reports whether no further transition is possible.
func (s RunState) Terminal() bool {
	switch s {
	case StateSent, StateReported, StateFailed:
		return true
	default:
		return false
	}
}

// Outcome is what the publisher did with the digest.
type Outcome struct {
	State   RunState
	Theme   string
	Subject string
	Message string
}

// RunReport summarizes a single pipeline execution.
type RunReport struct {
	State   RunState
	Results []FetchResult
	Digest  Digest
	Verdict Verdict
	Outcome Outcome
	Err     error
}

// FailedFetches counts results that produced no article.
func (r RunReport) FailedFetches() int {
	n := 0
	for _, res := range r.Results {
		if !res.OK() {
			n++
		}
	}
	return n
}
