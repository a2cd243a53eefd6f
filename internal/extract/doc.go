// Package extract fetches raw price series and fundamentals from the
// upstream providers.
//
// Responsibilities:
//   - One fetch pass per run over the configured stock symbols plus the
//     market indicator
//   - Fixed-interval throttling of provider requests via a token bucket
//   - Per-item failure isolation: a failed symbol becomes an error series
//     inside the batch instead of aborting the run
//   - Best-effort archival of the finished batch
package extract
