package external

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/centros-finder/internal/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const okBody = `{
  "status": "OK",
  "origin_addresses": ["Calle Mayor, 1, 14001 Córdoba, España"],
  "destination_addresses": ["Av. de América, 14008 Córdoba, España"],
  "rows": [{"elements": [{
    "status": "OK",
    "distance": {"text": "12,4 km", "value": 12400},
    "duration": {"text": "1 h 5 min", "value": 3900}
  }]}]
}`

const notFoundBody = `{
  "status": "OK",
  "origin_addresses": [""],
  "destination_addresses": [""],
  "rows": [{"elements": [{"status": "NOT_FOUND"}]}]
}`

func newTestMatrix(t *testing.T, status int, body string) (*DistanceMatrix, *url.URL) {
	seen := &url.URL{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = *r.URL
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	logger, _ := zap.NewDevelopment()
	dm, err := NewDistanceMatrix(DistanceMatrixConfig{
		APIKey:  "AIza-test-key",
		BaseURL: srv.URL,
	}, logger)
	require.NoError(t, err)
	return dm, seen
}

func TestNewDistanceMatrix_RequiresKey(t *testing.T) {
	_, err := NewDistanceMatrix(DistanceMatrixConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestDistanceMatrix_Lookup(t *testing.T) {
	dm, seen := newTestMatrix(t, http.StatusOK, okBody)

	route, err := dm.Lookup(context.Background(), "Calle Mayor 1, Córdoba", "IES Séneca, Córdoba")
	require.NoError(t, err)

	assert.Equal(t, "12,4 km", route.DistanceText)
	assert.Equal(t, 12400, route.DistanceMeters)
	assert.Equal(t, "1 h 5 min", route.DurationText)
	assert.Equal(t, 65, ranking.ParseDurationMinutes(route.DurationText))

	q := seen.Query()
	assert.Equal(t, "/maps/api/distancematrix/json", seen.Path)
	assert.Equal(t, "es", q.Get("language"))
	assert.Equal(t, "driving", q.Get("mode"))
	assert.Equal(t, "IES Séneca, Córdoba", q.Get("destinations"))
}

func TestDistanceMatrix_ElementNotFound(t *testing.T) {
	dm, _ := newTestMatrix(t, http.StatusOK, notFoundBody)

	_, err := dm.Lookup(context.Background(), "origin", "nowhere")
	require.Error(t, err)

	var lf *ranking.LookupFailure
	require.True(t, errors.As(err, &lf))
	assert.Equal(t, "NOT_FOUND", lf.Status)
	assert.Equal(t, "nowhere", lf.Destination)
	assert.ErrorIs(t, err, ranking.ErrNoRoute)
}

func TestDistanceMatrix_RequestDenied(t *testing.T) {
	dm, _ := newTestMatrix(t, http.StatusOK, `{"status": "REQUEST_DENIED", "error_message": "bad key"}`)

	_, err := dm.Lookup(context.Background(), "origin", "dest")
	require.Error(t, err)

	var lf *ranking.LookupFailure
	assert.True(t, errors.As(err, &lf))
}

func TestRouteFromResponse_Empty(t *testing.T) {
	_, err := routeFromResponse(nil, "x")
	assert.ErrorIs(t, err, ranking.ErrNoRoute)
}
