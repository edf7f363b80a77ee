package server

import (
	"net/http"

	"assetforge/internal/gateway/handler"
	"assetforge/internal/gateway/middleware"
)

func NewMux(assetHandler *handler.AssetHandler) http.Handler {
	mux := http.NewServeMux()

	// Generators
	mux.HandleFunc("GET /v1/generators", assetHandler.HandleList)
	mux.HandleFunc("GET /v1/generators/{id}/template", assetHandler.HandleTemplate)
	mux.HandleFunc("POST /v1/generators/{id}/generate", assetHandler.HandleGenerate)
	mux.HandleFunc("POST /v1/generators/{id}/content", assetHandler.HandleContent)
	mux.HandleFunc("POST /v1/generators/{id}/export", assetHandler.HandleExport)
	mux.HandleFunc("GET /v1/exports/{namespace}/{path...}", assetHandler.HandleExportFile)

	// Assemblies
	mux.HandleFunc("POST /v1/assemblies/{id}", assetHandler.HandleAssemble)
	mux.HandleFunc("DELETE /v1/assemblies", assetHandler.HandleUnload)

	// Operations
	mux.HandleFunc("GET /v1/metrics", assetHandler.HandleMetrics)
	mux.HandleFunc("DELETE /v1/cache", assetHandler.HandleClear)

	// Middleware
	return middleware.CORS(middleware.RequestLog(mux))
}
