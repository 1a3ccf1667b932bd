package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"membership-backend/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "not_found", Outcome(fmt.Errorf("%w: user x", repository.ErrNotFound)))
	assert.Equal(t, "unavailable", Outcome(fmt.Errorf("%w: dial", repository.ErrStoreUnavailable)))
	assert.Equal(t, "write_failed", Outcome(fmt.Errorf("%w: commit", repository.ErrWriteFailed)))
	assert.Equal(t, "error", Outcome(errors.New("boom")))
}

func TestObserveStoreOperation(t *testing.T) {
	before := testutil.ToFloat64(storeOperationsTotal.WithLabelValues("update_profile", "write_failed"))
	ObserveStoreOperation("update_profile", repository.ErrWriteFailed)
	after := testutil.ToFloat64(storeOperationsTotal.WithLabelValues("update_profile", "write_failed"))
	assert.Equal(t, before+1, after)
}

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/profile", "200"))
	ObserveHTTPRequest("GET", "/api/profile", 200, 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/profile", "200")))
}
