// Package load persists computed metric records to the metrics database.
//
// Writes are idempotent: each record upserts on (symbol, date), so re-running
// a day refreshes rows instead of duplicating them. Records are written one
// at a time; a failure affects only its own record and shows up in the
// aggregate counts.
package load
