package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hamed0406/edgecheck/internal/domain"
)

var rule = strings.Repeat("=", 60)

// TextPresenter prints one block per probe, then a summary re-listing every
// verdict, then the overall RESULT line.
type TextPresenter struct{}

func (TextPresenter) Render(w io.Writer, rep *domain.TestReport) error {
	bw := bufio.NewWriter(w)
	header(bw, rep)
	results(bw, rep)
	if rep.Passed() {
		fmt.Fprintln(bw, "\nRESULT: ALL TESTS PASSED")
	} else {
		fmt.Fprintln(bw, "\nRESULT: SOME TESTS FAILED")
	}
	return bw.Flush()
}

// RenderFatal keeps whatever probes finished before the abort, so an
// interrupted run still shows their blocks and summary.
func (TextPresenter) RenderFatal(w io.Writer, rep *domain.TestReport, cause error) error {
	bw := bufio.NewWriter(w)
	header(bw, rep)
	if len(rep.Results) > 0 {
		results(bw, rep)
	}
	fmt.Fprintf(bw, "\nRESULT: FAIL (%v)\n", cause)
	return bw.Flush()
}

func header(w io.Writer, rep *domain.TestReport) {
	fmt.Fprintf(w, "%s\nStarting edgecheck acceptance run %s\n%s\n", rule, rep.RunID, rule)
}

func results(w io.Writer, rep *domain.TestReport) {
	for _, res := range rep.Results {
		fmt.Fprintf(w, "\n--- Test: %s (GET %s) ---\n", res.Name, res.URL)
		if b := res.Burst; b != nil {
			fmt.Fprintf(w, "Results: %d x 200, %d x %d, %d x other\n", b.Success, b.Limited, b.LimitedStatus, b.Other)
			for _, e := range b.Errors {
				fmt.Fprintf(w, "  %s\n", e)
			}
		}
		fmt.Fprintf(w, "%s: %s\n", tag(res.Passed), res.Name)
		// rate-limit details carry one problem per line
		for _, line := range strings.Split(res.Detail, "\n") {
			if line != "" {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\nTest Summary\n%s\n", rule, rule)
	for _, res := range rep.Results {
		fmt.Fprintf(w, "  %s: %s\n", tag(res.Passed), res.Name)
	}
}
