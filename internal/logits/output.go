package logits

// Output is the host-materialized result of one sampling step.
type Output struct {
	// SampledTokenIDs holds the selected token id for each batch row, in
	// batch order.
	SampledTokenIDs []int32

	// LogprobTokenIDs and Logprobs hold, per row, the requested number of
	// highest log-probabilities (natural log of softmax over the
	// pre-temperature logits) with their token ids, sorted descending.
	// Both are nil when diagnostics were not requested.
	//
	// The entries are computed independently of the sampling decision, so
	// the sampled token id is not guaranteed to appear among them.
	LogprobTokenIDs [][]int32
	Logprobs        [][]float32

	// Prompt log-probabilities are never produced by this engine; the
	// fields exist so the record matches the shape schedulers carry.
	PromptLogprobTokenIDs [][]int32
	PromptLogprobs        [][]float32
}
