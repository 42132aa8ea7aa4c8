package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/specloom/specloom/pkg/adapters/http"
	"github.com/specloom/specloom/pkg/adapters/memory"
	"github.com/specloom/specloom/pkg/engine"
	"github.com/specloom/specloom/pkg/session"
)

const designJSON = `{
	"id": "1:0",
	"name": "Screen",
	"type": "FRAME",
	"width": 390, "height": 844,
	"children": [
		{"id": "1:1", "name": "TitleLabel", "type": "TEXT", "characters": "Hello"},
		{"id": "1:2", "name": "HeroImage", "type": "RECTANGLE", "imageHash": "abc123"}
	]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := session.NewService(engine.New(), session.NewManager(memory.NewStore()))
	srv := httptest.NewServer(httpadapter.NewHandler(svc))
	t.Cleanup(srv.Close)
	return srv
}

func initSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	body := fmt.Sprintf(`{"uiSystem": "UIKit", "design": %s}`, designJSON)
	resp, err := http.Post(srv.URL+"/sessions", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out httpadapter.InitResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.SessionID)
	require.Equal(t, 3, out.Status.NodeCount)
	return out.SessionID
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_InitRejectsBadUISystem(t *testing.T) {
	srv := newTestServer(t)
	body := `{"uiSystem": "AppKit", "design": {"id": "1:0"}}`
	resp, err := http.Post(srv.URL+"/sessions", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_StatusNotFound(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/sessions/nope/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_FullWorkflow(t *testing.T) {
	srv := newTestServer(t)
	id := initSession(t, srv)

	// Skeleton
	resp, err := http.Get(srv.URL + "/sessions/" + id + "/skeleton?depth=3")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sk struct {
		ID       string `json:"id"`
		Children []any  `json:"children"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sk))
	assert.Equal(t, "1:0", sk.ID)
	assert.Len(t, sk.Children, 2)

	// Cursor
	resp, err = http.Get(srv.URL + "/sessions/" + id + "/next?count=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	var batch engine.NextBatch
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&batch))
	require.Len(t, batch.Items, 2)
	assert.Equal(t, "1:0", batch.Items[0].Node.ID)

	// Decide everything
	patch := `{"decisions": {
		"1:0": {"component": {"base": "UIView"}, "layout": {"kind": "root"}},
		"1:1": {"component": {"base": "UILabel"}},
		"1:2": {"component": {"base": "UIImageView"}}
	}}`
	resp, err = http.Post(srv.URL+"/sessions/"+id+"/decisions", "application/json", bytes.NewBufferString(patch))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var applied engine.ApplyResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&applied))
	assert.Len(t, applied.Applied, 3)

	// Validate
	resp, err = http.Get(srv.URL + "/sessions/" + id + "/validate")
	require.NoError(t, err)
	defer resp.Body.Close()
	var verdict struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&verdict))
	assert.True(t, verdict.OK)

	// Export
	resp, err = http.Get(srv.URL + "/sessions/" + id + "/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tree engine.ExportTree
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tree))
	assert.Equal(t, "UIView", tree.Root.Component.Base)
}

func TestServer_ExportIncompleteConflict(t *testing.T) {
	srv := newTestServer(t)
	id := initSession(t, srv)

	resp, err := http.Get(srv.URL + "/sessions/" + id + "/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Partial export succeeds with fallbacks.
	resp, err = http.Get(srv.URL + "/sessions/" + id + "/export?partial=true")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(t)
	initSession(t, srv)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "specloom_http_requests_total")
}

func TestServer_DeleteSession(t *testing.T) {
	srv := newTestServer(t)
	id := initSession(t, srv)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/sessions/"+id, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/sessions/" + id + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
