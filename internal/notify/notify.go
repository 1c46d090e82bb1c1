package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/edgecheck/internal/domain"
)

// Notifier delivers a finished run's summary somewhere outside the console.
type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

type Multi []Notifier

// Send tries every notifier and returns all failures combined.
func (m Multi) Send(ctx context.Context, title, text string) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Send(ctx, title, text))
	}
	return err
}

// Summary formats a report as a notification title and body.
func Summary(rep *domain.TestReport, cause error) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Run: %s\n", rep.RunID)
	if cause != nil {
		fmt.Fprintf(&b, "Aborted: %v\n", cause)
		return "🔴 edgecheck FAILED", b.String()
	}
	for _, r := range rep.Results {
		mark := "✔"
		if !r.Passed {
			mark = "✖"
		}
		fmt.Fprintf(&b, "%s %s", mark, r.Name)
		if r.Detail != "" {
			fmt.Fprintf(&b, " (%s)", strings.ReplaceAll(r.Detail, "\n", "; "))
		}
		b.WriteByte('\n')
	}
	if rep.Passed() {
		return "🟢 edgecheck passed", b.String()
	}
	return "🔴 edgecheck FAILED", b.String()
}
