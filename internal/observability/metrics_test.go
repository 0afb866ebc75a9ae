package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/contacts", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.IncContactOp("create", "ok")
	m.ObserveAvatarProbe(ProbeHit, time.Millisecond)
	m.IncEventPublished("contact.created", nil)
	require.NoError(t, m.WritePrometheus(&bytes.Buffer{}))
	assert.Zero(t, m.AvatarProbes(ProbeHit))
}

func TestObserveAvatarProbe(t *testing.T) {
	m := New()
	m.ObserveAvatarProbe(ProbeHit, 10*time.Millisecond)
	m.ObserveAvatarProbe(ProbeMiss, 20*time.Millisecond)
	m.ObserveAvatarProbe(ProbeMiss, 20*time.Millisecond)
	m.ObserveAvatarProbe("weird", time.Second)

	assert.Equal(t, 1.0, m.AvatarProbes(ProbeHit))
	assert.Equal(t, 2.0, m.AvatarProbes(ProbeMiss))
	assert.Equal(t, 1.0, m.AvatarProbes(ProbeError))
	assert.Equal(t, uint64(2), m.avatarLat.Count(ProbeMiss))
}

func TestWritePrometheus(t *testing.T) {
	m := New()
	m.ObserveAPI("POST", "/contacts", "201", 30*time.Millisecond)
	m.ObserveAPI("GET", "/contacts/:id", "500", 5*time.Millisecond)
	m.IncContactOp("create", "")
	m.IncEventPublished("contact.created", errors.New("boom"))

	var buf bytes.Buffer
	require.NoError(t, m.WritePrometheus(&buf))
	out := buf.String()

	assert.Contains(t, out, "# TYPE contacts_api_requests_total counter")
	assert.Contains(t, out, `contacts_api_requests_total{method="POST",route="/contacts",status="201"} 1`)
	assert.Contains(t, out, `contacts_api_request_duration_seconds_bucket{method="POST",route="/contacts",status="201",le="0.05"} 1`)
	assert.Contains(t, out, `contacts_api_request_duration_seconds_bucket{method="POST",route="/contacts",status="201",le="0.025"} 0`)
	assert.Contains(t, out, "contacts_api_requests_error_total 1")
	assert.Contains(t, out, `contacts_operations_total{op="create",result="ok"} 1`)
	assert.Contains(t, out, `contacts_events_published_total{type="contact.created",status="error"} 1`)
}

func TestVecOutputIsSorted(t *testing.T) {
	c := NewCounterVec("x_total", "x", []string{"k"})
	c.Inc("b")
	c.Inc("a")
	c.Inc("c")

	var buf bytes.Buffer
	require.NoError(t, c.WritePrometheus(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, `x_total{k="a"} 1`, lines[2])
	assert.Equal(t, `x_total{k="b"} 1`, lines[3])
	assert.Equal(t, `x_total{k="c"} 1`, lines[4])
}

func TestLabelEscaping(t *testing.T) {
	assert.Equal(t, `{a="x\"y",b="unknown"}`, labelString([]string{"a", "b"}, []string{`x"y`}))
	assert.Equal(t, `{le="1"}`, withLe("", "1"))
	assert.Equal(t, `{a="b",le="+Inf"}`, withLe(`{a="b"}`, "+Inf"))
}

func TestCounterIgnoresNegative(t *testing.T) {
	c := NewCounter("c", "c")
	c.Add(2)
	c.Add(-1)
	assert.Equal(t, 2.0, c.Value())
}

func TestParseHeaders(t *testing.T) {
	assert.Nil(t, ParseHeaders(""))
	assert.Nil(t, ParseHeaders("junk,=x"))
	assert.Equal(t, map[string]string{"a": "1", "b": "two"}, ParseHeaders(" a=1, b = two ,c"))
}
