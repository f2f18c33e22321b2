package logits

// SamplingEps is the temperature below which a row is treated as greedy.
const SamplingEps = 1e-5

// Policy describes per-row sampling behaviour for one batch, packed as
// parallel arrays of length B. The arrays are read-only to the engine; only
// each row's Generator advances state.
//
// TopK 0 disables the top-k filter for that row; a value of at least the
// vocabulary size is an explicit no-op. TopP 0 disables the nucleus filter;
// 1.0 is an explicit no-op.
type Policy struct {
	Temperature []float32
	TopK        []int
	TopP        []float32
	Generators  []*Generator

	// Batch-wide flags, precomputed once per batch so the engine can skip
	// whole phases. AllGreedy and AllRandom holding together is a
	// configuration error.
	AllGreedy bool
	AllRandom bool
	NoTopK    bool
	NoTopP    bool
}

// DeriveFlags recomputes the batch-wide flags from the per-row arrays.
// Schedulers call this once when forming the batch.
func (p *Policy) DeriveFlags() {
	p.AllGreedy = true
	p.AllRandom = true
	for _, t := range p.Temperature {
		if t < SamplingEps {
			p.AllRandom = false
		} else {
			p.AllGreedy = false
		}
	}

	p.NoTopK = true
	for _, k := range p.TopK {
		if k != 0 {
			p.NoTopK = false
			break
		}
	}

	p.NoTopP = true
	for _, tp := range p.TopP {
		if tp != 0 && tp != 1 {
			p.NoTopP = false
			break
		}
	}
}

// validate checks the policy against a batch of the given shape. rows and
// vocab come from the logits matrix; every violation rejects the whole call.
func (p *Policy) validate(rows, vocab int) error {
	if rows == 0 {
		return invalidConfig("empty batch")
	}
	if len(p.Temperature) != rows {
		return invalidConfig("temperature array length %d does not match batch rows %d", len(p.Temperature), rows)
	}
	if len(p.TopK) != rows {
		return invalidConfig("top_k array length %d does not match batch rows %d", len(p.TopK), rows)
	}
	if len(p.TopP) != rows {
		return invalidConfig("top_p array length %d does not match batch rows %d", len(p.TopP), rows)
	}
	if p.AllGreedy && p.AllRandom {
		return invalidConfig("all_greedy and all_random cannot both hold")
	}
	if !p.AllGreedy && len(p.Generators) != rows {
		return invalidConfig("generator array length %d does not match batch rows %d", len(p.Generators), rows)
	}

	for i := 0; i < rows; i++ {
		if p.Temperature[i] < 0 {
			return malformedPolicy(i, "temperature %v is negative", p.Temperature[i])
		}
		if p.TopK[i] < 0 {
			return malformedPolicy(i, "top_k %d is negative", p.TopK[i])
		}
		if p.TopP[i] < 0 || p.TopP[i] > 1 {
			return malformedPolicy(i, "top_p %v outside [0, 1]", p.TopP[i])
		}
		if p.Temperature[i] >= SamplingEps && p.Generators[i] == nil {
			return invalidConfig("row %d samples stochastically but has no generator", i)
		}
	}
	_ = vocab // top_k beyond the vocabulary is an explicit no-op, not an error
	return nil
}
