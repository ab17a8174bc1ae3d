// Package catalog provides SQLite storage for the video catalog.
//
// It handles storage and retrieval of:
//   - Activities and their videos, including per-title version history
//   - Tags, collections and the class/section reference lists
//   - External links attached to activities
//   - Aggregate statistics with a short-lived cache
//
// The database uses WAL mode for improved concurrent read performance
// and includes automatic schema initialization and column migrations.
package catalog
