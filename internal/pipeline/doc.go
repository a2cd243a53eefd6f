// Package pipeline orchestrates one extract/transform/load run end to end.
//
// The Runner owns the stage sequence and the run lifecycle. It never
// returns an error and never lets a panic escape: every outcome, including
// a recovered panic, is folded into the model.RunResult, so callers can
// fire runs from a scheduler or a one-shot CLI without any wrapping.
package pipeline
