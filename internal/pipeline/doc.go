// Package pipeline orchestrates file discovery, per-file conversion, and
// batch summary reporting.
//
// Files are processed strictly one at a time in lexical walk order. Each
// file ends in exactly one [Outcome]; nothing that goes wrong with a single
// file stops the batch.
package pipeline
