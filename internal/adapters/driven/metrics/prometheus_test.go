package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

func TestRecorder_ObserveBuild(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.ObserveBuild(20*time.Millisecond, 12, 2, nil)
	r.ObserveBuild(5*time.Millisecond, 0, 0, errors.New("corpus unreadable"))

	assert.InDelta(t, 1, testutil.ToFloat64(r.builds.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.builds.WithLabelValues("error")), 0)
	assert.InDelta(t, 12, testutil.ToFloat64(r.indexDocuments), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.buildWarnings), 0)
}

func TestRecorder_ObserveRoute(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.ObserveRoute(time.Millisecond, 3, nil)
	r.ObserveRoute(time.Millisecond, 0, domain.ErrIndexNotReady)
	r.ObserveRoute(time.Millisecond, 1, nil)

	assert.InDelta(t, 2, testutil.ToFloat64(r.routes.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.routes.WithLabelValues("error")), 0)
}

func TestRecorder_SetState(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.SetState(string(domain.StateLoading))
	r.SetState(string(domain.StateReady))

	assert.InDelta(t, 1, testutil.ToFloat64(r.state.WithLabelValues("ready")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(r.state.WithLabelValues("loading")), 0)
	assert.Equal(t, len(domain.ServiceStates()), testutil.CollectAndCount(r.state))
}

func TestRecorder_ObserveHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveHTTP("/query", 200, 3*time.Millisecond)
	r.ObserveHTTP("/query", 429, time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(r.httpRequests.WithLabelValues("/query", "429")), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "skillroute_http_requests_total")
	assert.Contains(t, names, "skillroute_http_request_duration_seconds")
}

func TestNewRecorder_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg)

	assert.Panics(t, func() { NewRecorder(reg) })
}
