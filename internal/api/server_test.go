package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangoroad/haggle/internal/api"
	"github.com/mangoroad/haggle/internal/persona"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := &api.Server{
		Persona:   persona.Default(),
		MaxRounds: 10,
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func createSession(t *testing.T, ts *httptest.Server, body any) string {
	t.Helper()
	resp, decoded := postJSON(t, ts.URL+"/api/v1/sessions", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %v", decoded)
	id, _ := decoded["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestStatusEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, persona.Default().Name, status["persona"])
	assert.Equal(t, false, status["llm_enabled"])
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, map[string]any{"market_price": 100, "budget": 90})

	// Round 1: seller asks far above budget, buyer anchors at 65.
	resp, decoded := postJSON(t, ts.URL+"/api/v1/sessions/"+id+"/offer",
		map[string]any{"offer": 150})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "counter", decoded["action"])
	assert.InDelta(t, 65.0, decoded["price"].(float64), 1e-9)
	assert.Equal(t, "active", decoded["status"])

	// Snapshot reflects the played round.
	resp2, err := http.Get(ts.URL + "/api/v1/sessions/" + id)
	require.NoError(t, err)
	defer resp2.Body.Close()
	var detail map[string]any
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&detail))
	assert.Equal(t, float64(1), detail["round"])
	assert.Equal(t, "active", detail["status"])
}

func TestSessionAcceptsFairOffer(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, map[string]any{"market_price": 100, "budget": 90})

	// Default persona puts fair value at market price; 80 is under both
	// fair value and budget.
	resp, decoded := postJSON(t, ts.URL+"/api/v1/sessions/"+id+"/offer",
		map[string]any{"offer": 80})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "accept", decoded["action"])
	assert.InDelta(t, 80.0, decoded["price"].(float64), 1e-9)
	assert.Equal(t, "accepted", decoded["status"])

	// Terminal sessions take no more offers.
	resp, _ = postJSON(t, ts.URL+"/api/v1/sessions/"+id+"/offer",
		map[string]any{"offer": 70})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSessionParsesMessages(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, map[string]any{"market_price": 100000, "budget": 90000})

	resp, decoded := postJSON(t, ts.URL+"/api/v1/sessions/"+id+"/offer",
		map[string]any{"message": "Premium stock, I'm asking ₹150,000."})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "counter", decoded["action"])
	assert.InDelta(t, 65000.0, decoded["price"].(float64), 1e-9)
}

func TestCreateSessionFromCatalog(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, map[string]any{"product": "Alphonso Mangoes", "budget": 180000})
	assert.NotEmpty(t, id)

	_, decoded := postJSON(t, ts.URL+"/api/v1/sessions",
		map[string]any{"product": "Durian", "budget": 1000})
	assert.Contains(t, decoded["error"], "unknown product")
}

func TestCreateSessionValidation(t *testing.T) {
	ts := newTestServer(t)

	resp, decoded := postJSON(t, ts.URL+"/api/v1/sessions",
		map[string]any{"market_price": 100})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, fmt.Sprint(decoded["error"]), "budget")
}

func TestOfferProtocolViolation(t *testing.T) {
	ts := newTestServer(t)
	id := createSession(t, ts, map[string]any{"market_price": 100, "budget": 90})

	// Round 1 without a number is allowed.
	resp, _ := postJSON(t, ts.URL+"/api/v1/sessions/"+id+"/offer",
		map[string]any{"message": "Let's talk."})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Round 2 without a number aborts the session with a diagnosis.
	resp, decoded := postJSON(t, ts.URL+"/api/v1/sessions/"+id+"/offer",
		map[string]any{"message": "Well?"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, fmt.Sprint(decoded["error"]), "seller_offer")
}

func TestSessionNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/sessions/not-a-uuid")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
