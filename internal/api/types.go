package api

// SampleRequest is one sampling step over a batch of rows. Row order in the
// request is preserved in the response.
type SampleRequest struct {
	Rows           []SampleRow `json:"rows"`
	MaxNumLogprobs int         `json:"max_num_logprobs,omitempty"`
}

// SampleRow carries one sequence's logits and sampling parameters.
//
// A row that names a sequence_id draws from that sequence's server-held
// generator, so successive requests continue the same random stream. A row
// without one draws from a fresh generator seeded with seed (default 0).
type SampleRow struct {
	SequenceID  string    `json:"sequence_id,omitempty"`
	Logits      []float32 `json:"logits"`
	Temperature float32   `json:"temperature"`
	TopK        int       `json:"top_k,omitempty"`
	TopP        float32   `json:"top_p,omitempty"`
	Seed        int64     `json:"seed,omitempty"`
}

type SampleResponse struct {
	ID        string         `json:"id"`
	Object    string         `json:"object"`
	CreatedAt int64          `json:"created_at"`
	Results   []SampleResult `json:"results"`
}

type SampleResult struct {
	SequenceID      string    `json:"sequence_id,omitempty"`
	TokenID         int32     `json:"token_id"`
	LogprobTokenIDs []int32   `json:"logprob_token_ids,omitempty"`
	Logprobs        []float32 `json:"logprobs,omitempty"`
}

// SequenceResponse describes a server-held sampling session.
type SequenceResponse struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	Seed      int64  `json:"seed"`
	CreatedAt int64  `json:"created_at"`
}

type DeletedResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}
