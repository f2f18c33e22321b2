package api

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/seqlogic/nucleus/internal/logits"
	"github.com/seqlogic/nucleus/internal/tensor"
)

// SamplingService runs sampling steps on behalf of the HTTP surface and the
// sample subcommand. Calls are serialized: the engine's scratch buffers and
// any shared session generators must never see two draws at once.
type SamplingService struct {
	mu      sync.Mutex
	sampler *logits.Sampler
	store   *SequenceStore
}

func NewSamplingService(sampler *logits.Sampler, store *SequenceStore) *SamplingService {
	if store == nil {
		store = NewSequenceStore()
	}
	return &SamplingService{
		sampler: sampler,
		store:   store,
	}
}

func (s *SamplingService) Store() *SequenceStore {
	return s.store
}

// SampleBatch runs one selection step over the request's rows.
func (s *SamplingService) SampleBatch(req *SampleRequest) (*SampleResponse, error) {
	rows := len(req.Rows)
	if rows == 0 {
		return nil, newInvalidRequest("rows must not be empty")
	}
	if req.MaxNumLogprobs < 0 {
		return nil, newInvalidRequest("max_num_logprobs must not be negative")
	}

	vocab := len(req.Rows[0].Logits)
	if vocab == 0 {
		return nil, newInvalidRequest("row 0: logits must not be empty")
	}

	policy := &logits.Policy{
		Temperature: make([]float32, rows),
		TopK:        make([]int, rows),
		TopP:        make([]float32, rows),
		Generators:  make([]*logits.Generator, rows),
	}
	data := make([]float32, 0, rows*vocab)
	for i, row := range req.Rows {
		if len(row.Logits) != vocab {
			return nil, newInvalidRequest(fmt.Sprintf("row %d: expected %d logits, got %d", i, vocab, len(row.Logits)))
		}
		data = append(data, row.Logits...)
		policy.Temperature[i] = row.Temperature
		policy.TopK[i] = row.TopK
		policy.TopP[i] = row.TopP

		if row.SequenceID != "" {
			gen, ok := s.store.Generator(row.SequenceID)
			if !ok {
				return nil, newInvalidRequest(fmt.Sprintf("row %d: unknown sequence %q", i, row.SequenceID))
			}
			policy.Generators[i] = gen
		} else {
			policy.Generators[i] = logits.NewGenerator(row.Seed)
		}
	}
	policy.DeriveFlags()
	batch := tensor.NewMatFromData(rows, vocab, data)

	s.mu.Lock()
	out, err := s.sampler.Sample(&batch, policy, req.MaxNumLogprobs)
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, logits.ErrInvalidConfiguration) || errors.Is(err, logits.ErrMalformedPolicyValue) {
			return nil, newInvalidRequest(err.Error())
		}
		return nil, err
	}

	resp := &SampleResponse{
		ID:        newBatchID(),
		Object:    "sampling.batch",
		CreatedAt: time.Now().Unix(),
		Results:   make([]SampleResult, rows),
	}
	for i := range resp.Results {
		resp.Results[i] = SampleResult{
			SequenceID: req.Rows[i].SequenceID,
			TokenID:    out.SampledTokenIDs[i],
		}
		if out.Logprobs != nil {
			resp.Results[i].LogprobTokenIDs = out.LogprobTokenIDs[i]
			resp.Results[i].Logprobs = out.Logprobs[i]
		}
	}
	return resp, nil
}
