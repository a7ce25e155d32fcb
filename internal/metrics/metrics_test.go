package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, FetchRequestsTotal)
	assert.NotNil(t, FetchDuration)
	assert.NotNil(t, FetchPacerWaitDuration)
	assert.NotNil(t, SearchesTotal)
	assert.NotNil(t, SearchResults)
	assert.NotNil(t, SearchPagesFetched)
	assert.NotNil(t, ListingLookupsTotal)
	assert.NotNil(t, ListingsRemovedTotal)
	assert.NotNil(t, ParseFailuresTotal)
}

func TestFetchRequestsTotal_Labels(t *testing.T) {
	t.Parallel()

	c := FetchRequestsTotal.WithLabelValues("test-backend", "ok")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.InDelta(t, before+1, testutil.ToFloat64(c), 0.001)
}
