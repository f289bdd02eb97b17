// Package pipeline orchestrates the autocrop stages and connects them to
// the storage and trigger collaborators.
//
// Pipeline runs the pure pixel stages over one image: decode, background
// detection and masking, bounds detection, composition, encode. Runner wraps
// a Pipeline with the operational concerns around it — identity filtering,
// at-most-one-run-per-identity exclusion, pristine backups and write-back —
// against a narrow Storage contract.
//
// # Concurrency
//
// Each image is processed synchronously start to finish. Distinct images may
// be processed by independent goroutines; the Inflight set guarantees that a
// second request for the same identity while one is running (or very
// recently finished) is dropped rather than queued, so two writers never
// race on the same output file.
//
// # Failure Policy
//
// Decode and encode failures propagate to the caller and leave the stored
// bytes untouched. Degenerate geometry — a fully solid image whose content
// masks down to nothing — is recovered locally by resizing the pristine
// decoded buffer instead, so user data is never thrown away.
package pipeline
