package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"assetforge/internal/assembly"
	artifactcache "assetforge/internal/cache/artifact"
	artifactrepo "assetforge/internal/gateway/repository/artifact"
	"assetforge/internal/param"
	"assetforge/internal/registry"
)

const maxBodyBytes = 1 << 20

type configBody struct {
	Config param.Raw `json:"config"`
}

// decodeConfig reads {"config": {...}}. An empty body means all defaults.
func decodeConfig(r *http.Request) (param.Raw, error) {
	var in configBody
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return in.Config, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var cycle *artifactcache.CycleError
	switch {
	case errors.Is(err, registry.ErrUnknownGenerator), errors.Is(err, artifactrepo.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, assembly.ErrInvalidBlueprintReference):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &cycle):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.Printf("handler: %v", err)
	}
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
