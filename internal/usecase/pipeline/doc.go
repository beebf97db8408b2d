// Package pipeline implements the funding digest run: collected articles are
// filtered by age and keywords, classified, reduced to company mentions and
// clustered into deduplicated funding events.
//
// Classification and extraction each run behind a pair of strategies. The
// model strategy is tried first under a per-call timeout; any failure falls
// back to the deterministic strategy for that article only, so a run always
// completes with a verdict for every article.
package pipeline
