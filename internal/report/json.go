package report

import (
	"io"
	"time"

	"github.com/bytedance/sonic"

	"github.com/hamed0406/edgecheck/internal/domain"
)

type JSONPresenter struct{}

type jsonReport struct {
	RunID      string               `json:"run_id"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Passed     bool                 `json:"passed"`
	Fatal      string               `json:"fatal,omitempty"`
	Results    []domain.ProbeResult `json:"results"`
}

func (JSONPresenter) Render(w io.Writer, rep *domain.TestReport) error {
	return writeJSON(w, toJSON(rep, nil))
}

func (JSONPresenter) RenderFatal(w io.Writer, rep *domain.TestReport, cause error) error {
	return writeJSON(w, toJSON(rep, cause))
}

func toJSON(rep *domain.TestReport, cause error) jsonReport {
	out := jsonReport{
		RunID:      rep.RunID,
		StartedAt:  rep.StartedAt,
		FinishedAt: rep.FinishedAt,
		Passed:     cause == nil && rep.Passed(),
		Results:    rep.Results,
	}
	if cause != nil {
		out.Fatal = cause.Error()
	}
	if out.Results == nil {
		out.Results = []domain.ProbeResult{}
	}
	return out
}

func writeJSON(w io.Writer, v jsonReport) error {
	b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
