package domain

import "time"

// TestReport accumulates results in execution order for a single run.
type TestReport struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Results    []ProbeResult `json:"results"`
}

func NewTestReport(runID string, started time.Time) *TestReport {
	return &TestReport{RunID: runID, StartedAt: started}
}

func (r *TestReport) Add(res ProbeResult) {
	r.Results = append(r.Results, res)
}

// Passed is the AND of every recorded result.
func (r *TestReport) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

func (r *TestReport) Failed() []ProbeResult {
	var out []ProbeResult
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}
