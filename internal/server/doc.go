// Package server exposes the catalog and the ingestion pipeline as a JSON
// API. Routing uses gorilla/mux; handlers share a Handlers value carrying
// the catalog store, the ingestor, and the thumbnail generator. Middleware
// (logging, metrics, compression) is layered on by the caller.
package server
