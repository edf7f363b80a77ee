package handler_test

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetforge/internal/export"
	"assetforge/internal/forge"
	"assetforge/internal/gateway/handler"
	artifactrepo "assetforge/internal/gateway/repository/artifact"
	"assetforge/internal/gateway/server"
	"assetforge/internal/generators"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ex, err := export.New(artifactrepo.NewMemoryStore(), 0)
	require.NoError(t, err)
	svc := forge.New(forge.Options{Sources: generators.Builtin(), Exporter: ex})
	require.NoError(t, svc.Init())
	srv := httptest.NewServer(server.NewMux(handler.NewAssetHandler(svc)))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestListAndTemplateEndpoints(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/v1/generators?category=texture")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode(t, resp)["generators"], 3)

	resp, err = http.Get(srv.URL + "/v1/generators/texture.cobblestone/template")
	require.NoError(t, err)
	defer resp.Body.Close()
	body := decode(t, resp)
	assert.Equal(t, "texture.cobblestone", body["id"])
	assert.Equal(t, "regular", body["config"].(map[string]any)["style"])

	resp, err = http.Get(srv.URL + "/v1/generators/texture.marble/template")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGenerateAndContent(t *testing.T) {
	srv := newServer(t)
	cfg := `{"config":{"size":128,"style":"glow"}}`

	resp := post(t, srv, "/v1/generators/texture.cobblestone/generate", cfg)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "image", body["kind"])
	assert.EqualValues(t, 128, body["width"])

	resp = post(t, srv, "/v1/generators/texture.cobblestone/content", cfg)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, body["key"], resp.Header.Get("X-Artifact-Key"))
	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())

	resp = post(t, srv, "/v1/generators/texture.cobblestone/generate", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportThenRead(t *testing.T) {
	srv := newServer(t)

	resp := post(t, srv, "/v1/generators/texture.plaster_wall/export", `{"config":{"size":128}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ref := decode(t, resp)
	ns, path := ref["namespace"].(string), ref["path"].(string)

	file, err := http.Get(srv.URL + "/v1/exports/" + ns + "/" + path)
	require.NoError(t, err)
	defer file.Body.Close()
	assert.Equal(t, http.StatusOK, file.StatusCode)
	assert.Equal(t, "image/png", file.Header.Get("Content-Type"))

	list, err := http.Get(srv.URL + "/v1/exports/" + ns + "/")
	require.NoError(t, err)
	defer list.Body.Close()
	assert.Equal(t, []any{path}, decode(t, list)["files"])

	missing, err := http.Get(srv.URL + "/v1/exports/" + ns + "/nope.png")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestAssembleAndUnload(t *testing.T) {
	srv := newServer(t)
	cfg := `{"config":{"houses":4,"seed":42}}`

	first := decode(t, post(t, srv, "/v1/assemblies/neighbourhood.village_plaza", cfg))
	second := decode(t, post(t, srv, "/v1/assemblies/neighbourhood.village_plaza", cfg))
	assert.Equal(t, first["root"], second["root"])
	assert.EqualValues(t, 4+6+1+1, first["nodes"])

	key := first["key"].(string)
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/assemblies?key="+url.QueryEscape(key), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)

	metrics, err := http.Get(srv.URL + "/v1/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	m := decode(t, metrics)
	assert.EqualValues(t, 1, m["assemblies"].(map[string]any)["unloads"])
}

func TestCORSPreflight(t *testing.T) {
	srv := newServer(t)
	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/v1/generators", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
