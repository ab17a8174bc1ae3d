// Package config loads and validates the application configuration from
// environment variables and resolves the managed storage layout (videos,
// thumbnails, documents, catalog database).
//
// Storage locations are fixed for the process lifetime: a Config value is
// constructed once at startup and passed into the components that need it.
// Directory creation is an explicit startup step (EnsureDirectories), never
// an import-time side effect.
package config
