// Package report renders a finished TestReport for humans (text) or
// machines (JSON). Verification code never prints; it only produces results.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/hamed0406/edgecheck/internal/domain"
)

type Presenter interface {
	Render(w io.Writer, rep *domain.TestReport) error
	// RenderFatal reports an aborted run: readiness failed, or the run was
	// interrupted after some probes had already been recorded.
	RenderFatal(w io.Writer, rep *domain.TestReport, cause error) error
}

const (
	FormatText = "text"
	FormatJSON = "json"
)

func New(format string) (Presenter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return TextPresenter{}, nil
	case FormatJSON:
		return JSONPresenter{}, nil
	}
	return nil, fmt.Errorf("unknown report format %q (want text or json)", format)
}

func tag(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}
