// Package publishingservice orchestrates multi-platform publishing for the
// brandcast monolith. A card fans out into per-platform contracts, each
// contract is validated against the format catalog before it becomes ready,
// and a publish invocation claims ready contracts optimistically, runs every
// platform protocol concurrently, and folds the outcomes back into card and
// contract state.
package publishingservice
