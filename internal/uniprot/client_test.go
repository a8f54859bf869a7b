package uniprot

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fastaBody = ">sp|P00001|TEST_HUMAN Test protein\nMKVLAFGHIK\nDETWYQRSPC\n"

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL(srv.URL)
}

func TestFetchProtein(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/P00001.fasta", r.URL.Path)
		w.Write([]byte(fastaBody))
	})

	rec, err := c.FetchProtein("P00001")
	require.NoError(t, err)

	assert.Equal(t, "P00001", rec.Accession)
	assert.Equal(t, "sp|P00001|TEST_HUMAN Test protein", rec.Header)
	assert.Equal(t, "MKVLAFGHIKDETWYQRSPC", rec.Sequence, "multi-line sequence joined and cleaned")
}

func TestFetchProteinNotFound(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound} {
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := c.FetchProtein("BOGUS")
		assert.ErrorIs(t, err, ErrNotFound, "status %d", status)
		assert.Contains(t, err.Error(), "BOGUS")
	}
}

func TestFetchProteinServerError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := c.FetchProtein("P00001")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound, "5xx is a network problem, not a bad accession")
}

func TestFetchProteinInvalidBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(">only a header\n123456\n"))
	})

	_, err := c.FetchProtein("P00001")
	require.Error(t, err)
}

func TestFetchFeatures(t *testing.T) {
	body := `{
		"features": [
			{"type": "Active site", "description": "Proton acceptor",
			 "location": {"start": {"value": 41}, "end": {"value": 41}}},
			{"type": "Binding site", "description": "Substrate",
			 "location": {"start": {"value": 10}, "end": {"value": 14}}}
		]
	}`
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/P00001.json", r.URL.Path)
		w.Write([]byte(body))
	})

	features, err := c.FetchFeatures("P00001")
	require.NoError(t, err)
	require.Len(t, features, 2)

	assert.Equal(t, "Active site", features[0].Type)
	assert.Equal(t, 41, features[0].Location.Start.Value)
	assert.Equal(t, 14, features[1].Location.End.Value)
}

func TestFetchFeaturesEmpty(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	features, err := c.FetchFeatures("P00001")
	require.NoError(t, err)
	assert.Empty(t, features)
}
