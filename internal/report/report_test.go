package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/edgecheck/internal/domain"
)

func sampleReport() *domain.TestReport {
	content := domain.ProbeTarget{Host: "nginx", Port: 8080, Scheme: domain.SchemeHTTP}
	forbidden := domain.ProbeTarget{Host: "nginx", Port: 8081, Scheme: domain.SchemeHTTP}
	rep := domain.NewTestReport("01JTESTRUN", time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))
	rep.Add(domain.Pass("Custom HTML", content))
	rep.Add(domain.Fail("Error Response", forbidden, "unexpected status: expected 403, got 404"))
	rep.Add(domain.ProbeResult{
		Name:   "Rate Limiting HTTP",
		Passed: true,
		URL:    content.URL(),
		Burst:  &domain.BurstOutcome{Success: 5, Limited: 15, LimitedStatus: 429},
	})
	rep.FinishedAt = rep.StartedAt.Add(10 * time.Second)
	return rep
}

func TestTextPresenter_Render(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextPresenter{}.Render(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "--- Test: Custom HTML (GET http://nginx:8080/) ---\nPASS: Custom HTML\n")
	assert.Contains(t, out, "FAIL: Error Response\n  unexpected status: expected 403, got 404\n")
	assert.Contains(t, out, "Results: 5 x 200, 15 x 429, 0 x other\nPASS: Rate Limiting HTTP\n")
	assert.Contains(t, out, "RESULT: SOME TESTS FAILED")

	summary := out[strings.Index(out, "Test Summary"):]
	assert.Contains(t, summary, "  PASS: Custom HTML\n  FAIL: Error Response\n  PASS: Rate Limiting HTTP\n")
}

func TestTextPresenter_DetailLines(t *testing.T) {
	tgt := domain.ProbeTarget{Host: "nginx", Port: 8080, Scheme: domain.SchemeHTTP}
	rep := domain.NewTestReport("r", time.Now())
	rep.Add(domain.Fail("Custom HTML", tgt, `expected content "Hello" not found; got: a; b`))
	rep.Add(domain.Fail("Rate Limiting HTTP", tgt, "no 200 responses (endpoint might be down)\nwarning: 2 requests returned unexpected status codes"))

	var buf bytes.Buffer
	require.NoError(t, TextPresenter{}.Render(&buf, rep))
	out := buf.String()
	assert.Contains(t, out, "FAIL: Custom HTML\n  expected content \"Hello\" not found; got: a; b\n")
	assert.Contains(t, out, "FAIL: Rate Limiting HTTP\n  no 200 responses (endpoint might be down)\n  warning: 2 requests returned unexpected status codes\n")
}

func TestTextPresenter_AllPassed(t *testing.T) {
	rep := domain.NewTestReport("r", time.Now())
	rep.Add(domain.Pass("Custom HTML", domain.ProbeTarget{Host: "h", Port: 1, Scheme: domain.SchemeHTTP}))

	var buf bytes.Buffer
	require.NoError(t, TextPresenter{}.Render(&buf, rep))
	assert.Contains(t, buf.String(), "RESULT: ALL TESTS PASSED")
}

func TestTextPresenter_Fatal(t *testing.T) {
	var buf bytes.Buffer
	err := TextPresenter{}.RenderFatal(&buf, domain.NewTestReport("r", time.Now()), errors.New("server not reachable"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "RESULT: FAIL (server not reachable)")
	assert.NotContains(t, buf.String(), "Test Summary")
}

func TestTextPresenter_FatalKeepsRecordedResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextPresenter{}.RenderFatal(&buf, sampleReport(), errors.New("context canceled")))
	out := buf.String()

	assert.Contains(t, out, "FAIL: Error Response\n  unexpected status: expected 403, got 404\n")
	assert.Contains(t, out, "Test Summary")
	assert.Contains(t, out, "  FAIL: Error Response\n")
	assert.True(t, strings.HasSuffix(out, "\nRESULT: FAIL (context canceled)\n"))
	assert.NotContains(t, out, "RESULT: SOME TESTS FAILED")
}

func TestJSONPresenter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONPresenter{}.Render(&buf, sampleReport()))

	var got jsonReport
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "01JTESTRUN", got.RunID)
	assert.False(t, got.Passed)
	assert.Empty(t, got.Fatal)
	require.Len(t, got.Results, 3)
	assert.Equal(t, "Error Response", got.Results[1].Name)
	require.NotNil(t, got.Results[2].Burst)
	assert.Equal(t, 15, got.Results[2].Burst.Limited)
}

func TestJSONPresenter_Fatal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONPresenter{}.RenderFatal(&buf, domain.NewTestReport("r", time.Now()), errors.New("not ready")))

	var got jsonReport
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &got))
	assert.False(t, got.Passed, "an empty report from a fatal run must not read as passed")
	assert.Equal(t, "not ready", got.Fatal)
	assert.NotNil(t, got.Results)
}

func TestNew(t *testing.T) {
	p, err := New("")
	require.NoError(t, err)
	assert.IsType(t, TextPresenter{}, p)

	p, err = New("JSON")
	require.NoError(t, err)
	assert.IsType(t, JSONPresenter{}, p)

	_, err = New("yaml")
	assert.Error(t, err)
}
