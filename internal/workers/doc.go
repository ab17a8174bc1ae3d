/*
Package workers determines worker pool sizes that respect container CPU
limits.

runtime.NumCPU() reports the host's CPU count even when a cgroup limit caps
the process at far fewer cores; GOMAXPROCS (Go 1.19+) reflects the actual
limit. The helpers here size pools from GOMAXPROCS with a per-workload
multiplier:

	// Thumbnail backfill: decode + encode is CPU heavy
	numWorkers := workers.ForCPU(8)

	// Bulk file copies: mostly waiting on disk
	numWorkers := workers.ForIO(16)

	// Ingestion: copy, probe, and encode mixed together
	numWorkers := workers.ForMixed(12)

Operators can override the calculation with the INGEST_WORKERS environment
variable, which all helpers respect.
*/
package workers
