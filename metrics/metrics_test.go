package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.Runs.WithLabelValues("apply").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Runs.WithLabelValues("apply")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Runs.WithLabelValues("apply")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.FinalBalance.Set(104.79)
	m.KellyPct.WithLabelValues("true").Set(4.9)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "kellysim_trajectory_final_balance 104.79")
	assert.Contains(t, string(body), `kellysim_kelly_risk_fraction_pct{fee_adjusted="true"} 4.9`)
}
