package entities

// PublishOutcome is one publisher's transient result for one contract. It is
// produced fresh on every attempt and only ever folded into the contract,
// never stored directly.
type PublishOutcome struct {
	Success        bool
	ExternalPostID string
	Error          string
}

// CardPublishSummary is the orchestrator's aggregate over all contract
// outcomes of one card.
type CardPublishSummary struct {
	PublishedCount int
	FailedCount    int
}
