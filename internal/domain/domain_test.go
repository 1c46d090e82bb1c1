package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProbeTarget_URL(t *testing.T) {
	cases := []struct {
		in   ProbeTarget
		want string
	}{
		{ProbeTarget{Host: "nginx", Port: 8080, Scheme: SchemeHTTP}, "http://nginx:8080/"},
		{ProbeTarget{Host: "nginx", Port: 8443, Scheme: SchemeHTTPS}, "https://nginx:8443/"},
		{ProbeTarget{Host: "::1", Port: 8081, Scheme: SchemeHTTP}, "http://[::1]:8081/"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.in.URL())
	}
}

func TestTestReport_Passed(t *testing.T) {
	tgt := ProbeTarget{Host: "nginx", Port: 8080, Scheme: SchemeHTTP}
	r := NewTestReport("run", time.Now())
	assert.True(t, r.Passed(), "empty report should pass")

	r.Add(Pass("Custom HTML", tgt))
	assert.True(t, r.Passed())

	r.Add(Fail("Error Response", tgt, "unexpected status: expected 403, got 404"))
	r.Add(Pass("HTTPS Custom HTML", tgt))
	assert.False(t, r.Passed())

	failed := r.Failed()
	if assert.Len(t, failed, 1) {
		assert.Equal(t, "Error Response", failed[0].Name)
	}
	assert.Equal(t, []string{"Custom HTML", "Error Response", "HTTPS Custom HTML"},
		[]string{r.Results[0].Name, r.Results[1].Name, r.Results[2].Name})
}

func TestBurstOutcome_Total(t *testing.T) {
	b := BurstOutcome{Success: 5, Limited: 15, Other: 0}
	assert.Equal(t, 20, b.Total())
}
