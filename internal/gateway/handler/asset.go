package handler

import (
	"mime"
	"net/http"
	"path"
	"strings"

	"assetforge/internal/artifact"
	"assetforge/internal/assembly"
	"assetforge/internal/forge"
)

type AssetHandler struct {
	svc *forge.Service
}

func NewAssetHandler(svc *forge.Service) *AssetHandler {
	return &AssetHandler{svc: svc}
}

type artifactSummary struct {
	Key          string `json:"key"`
	Kind         string `json:"kind"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Vertices     int    `json:"vertices,omitempty"`
	Triangles    int    `json:"triangles,omitempty"`
	Placements   int    `json:"placements,omitempty"`
	Placeholders int    `json:"placeholders,omitempty"`
}

func summarize(key string, a artifact.Artifact) artifactSummary {
	out := artifactSummary{Key: key, Kind: string(a.Kind())}
	switch v := a.(type) {
	case *artifact.Image:
		out.Width, out.Height = v.Width(), v.Height()
	case *artifact.Mesh:
		out.Vertices, out.Triangles = len(v.Vertices), len(v.Triangles)
	case *artifact.Blueprint:
		out.Placements, out.Placeholders = len(v.Placements), len(v.Placeholders)
	}
	return out
}

type instanceView struct {
	Key        string `json:"key"`
	AssemblyID string `json:"assembly_id"`
	Root       string `json:"root"`
	Nodes      int    `json:"nodes"`
}

func viewOf(inst *assembly.Instance) instanceView {
	return instanceView{
		Key:        inst.Key,
		AssemblyID: inst.AssemblyID,
		Root:       inst.Root.ID(),
		Nodes:      len(inst.Children),
	}
}

// HandleList serves GET /v1/generators?category=.
func (h *AssetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, map[string]any{
		"generators": h.svc.ListGenerators(category),
	})
}

// HandleTemplate serves GET /v1/generators/{id}/template.
func (h *AssetHandler) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.svc.GetTemplate(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

// HandleGenerate serves POST /v1/generators/{id}/generate.
func (h *AssetHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeConfig(r)
	if err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	a, err := h.svc.GenerateArtifact(r.Context(), id, raw)
	if err != nil {
		writeError(w, err)
		return
	}
	key, err := h.svc.Artifacts().Key(id, raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(key, a))
}

// HandleContent serves POST /v1/generators/{id}/content: the encoded primary
// file (PNG, OBJ or JSON) of the artifact.
func (h *AssetHandler) HandleContent(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeConfig(r)
	if err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	key, files, err := h.svc.Encoded(r.Context(), r.PathValue("id"), raw)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", files[0].ContentType)
	w.Header().Set("X-Artifact-Key", key)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(files[0].Data)
}

// HandleExport serves POST /v1/generators/{id}/export.
func (h *AssetHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeConfig(r)
	if err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	ref, err := h.svc.Export(r.Context(), r.PathValue("id"), raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ref)
}

// HandleExportFile serves GET /v1/exports/{namespace}/{path...}; with an
// empty path it lists the namespace.
func (h *AssetHandler) HandleExportFile(w http.ResponseWriter, r *http.Request) {
	namespace, file := r.PathValue("namespace"), r.PathValue("path")
	if file == "" {
		files, err := h.svc.ListExports(r.Context(), namespace)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"namespace": namespace, "files": files})
		return
	}
	data, err := h.svc.ReadExport(r.Context(), namespace, file)
	if err != nil {
		writeError(w, err)
		return
	}
	ct := mime.TypeByExtension(path.Ext(file))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	_, _ = w.Write(data)
}

// HandleAssemble serves POST /v1/assemblies/{id}.
func (h *AssetHandler) HandleAssemble(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeConfig(r)
	if err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	inst, err := h.svc.Assemble(r.Context(), r.PathValue("id"), raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(inst))
}

// HandleUnload serves DELETE /v1/assemblies?key=.
func (h *AssetHandler) HandleUnload(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}
	inst, ok := h.svc.Assembly(key)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "assembly not loaded"})
		return
	}
	h.svc.UnloadAssembly(inst)
	writeJSON(w, http.StatusOK, map[string]any{"unloaded": key})
}

// HandleMetrics serves GET /v1/metrics.
func (h *AssetHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Metrics())
}

// HandleClear serves DELETE /v1/cache.
func (h *AssetHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearCaches()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
