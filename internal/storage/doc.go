/*
Package storage manages the on-disk layout of ingested media files.

It provides two pieces:

  - Sanitize: a pure function that turns arbitrary user-supplied names
    (activity names, titles, source filenames) into safe path segments.
  - FileStore: copy, name, and delete operations over the managed storage
    areas (videos, thumbnails, documents).

# Layout

Managed storage is laid out as:

	<storage>/videos/<sanitized activity>/<sanitized name>.<ext>
	<storage>/thumbnails/thumb_<id>.jpg
	<storage>/documents/doc_<id>.<ext>

Video destinations are collision-suffixed (`name_1.mp4`, `name_2.mp4`, ...)
so an existing managed file is never overwritten. Thumbnail and document
names are derived from the owning record's id and deliberately deterministic,
so regeneration and re-assignment overwrite in place.

# Metrics

Storage operations report durations and errors through an [Observer] set at
startup via [SetObserver]; the implementation lives in the metrics package to
avoid an import cycle. With no observer set, recording is skipped, which
keeps tests free of metric wiring.
*/
package storage
