package logits

import (
	"sort"

	"github.com/seqlogic/nucleus/internal/tensor"
)

// sampleNucleus draws one token per row from the temperature-scaled logits
// after applying that row's top-k and top-p filters. The softmax runs once
// over the whole batch; the per-row loop only filters and draws. Rows are
// mutually independent, so each row's scratch and generator state stay
// private to it.
//
// The batch-wide NoTopK/NoTopP flags gate their filter phase outright, so a
// batch that disables a filter never pays the per-row enablement checks.
func (s *Sampler) sampleNucleus(scaled *tensor.Mat, policy *Policy, out []int32) {
	probs := tensor.NewMat(scaled.R, scaled.C)
	s.ops.SoftmaxRows(&probs, scaled)
	for i := 0; i < scaled.R; i++ {
		gen := policy.Generators[i]
		if policy.Temperature[i] < SamplingEps {
			// Greedy rows never consume randomness. Their stochastic result
			// is discarded by the select, and advancing a generator here
			// would make a sequence's random stream depend on which other
			// rows happened to share its batch.
			gen = nil
		}
		out[i] = s.sampleRow(probs.Row(i), policy.TopK[i], policy.TopP[i], gen, !policy.NoTopK, !policy.NoTopP)
	}
}

// sampleRow draws one token from a single row of probabilities. Exactly one
// value is consumed from gen per call; a nil gen draws at r = 0, which keeps
// the row's work deterministic without touching any global random state.
// topKOn/topPOn are the batch-wide filter gates.
func (s *Sampler) sampleRow(probs []float32, topK int, topP float32, gen *Generator, topKOn, topPOn bool) int32 {
	v := len(probs)
	kEnabled := topKOn && topK > 0 && topK < v
	pEnabled := topPOn && topP > 0 && topP < 1

	var r float64
	if gen != nil {
		r = gen.Float64()
	}

	if kEnabled {
		idx, val := s.selectTopK(probs, topK)

		// Masses over the shortlist stay unnormalized; the nucleus
		// threshold and the draw both scale with the total, so truncating
		// renormalizes implicitly.
		masses := s.probBuf(len(val))
		var total float64
		for j, p := range val {
			masses[j] = float64(p)
			total += float64(p)
		}

		kept, keptMass := len(masses), total
		if pEnabled {
			kept, keptMass = nucleusCut(masses, total, float64(topP))
		}

		target := r * keptMass
		var c float64
		for j := 0; j < kept; j++ {
			c += masses[j]
			if target <= c {
				return int32(idx[j])
			}
		}
		return int32(idx[kept-1])
	}

	masses := s.probBuf(v)
	var total float64
	for j, p := range probs {
		masses[j] = float64(p)
		total += float64(p)
	}

	if !pEnabled {
		// Plain categorical draw; no ordering needed.
		target := r * total
		var c float64
		for j, m := range masses {
			c += m
			if target <= c {
				return int32(j)
			}
		}
		return int32(v - 1)
	}

	// Nucleus over the full vocabulary: order candidates by probability,
	// keep the smallest prefix reaching the threshold, draw from it.
	idx := s.idxBuf(v)
	for j := range idx {
		idx[j] = j
	}
	sort.Slice(idx, func(a, b int) bool {
		if masses[idx[a]] != masses[idx[b]] {
			return masses[idx[a]] > masses[idx[b]]
		}
		return idx[a] < idx[b]
	})

	threshold := float64(topP) * total
	kept, keptMass := v, total
	var c float64
	for j, id := range idx {
		c += masses[id]
		if c >= threshold {
			kept, keptMass = j+1, c
			break
		}
	}

	target := r * keptMass
	c = 0
	for j := 0; j < kept; j++ {
		c += masses[idx[j]]
		if target <= c {
			return int32(idx[j])
		}
	}
	return int32(idx[kept-1])
}

// nucleusCut returns the length and mass of the smallest prefix of the
// descending-ordered masses whose share of total reaches p.
func nucleusCut(sorted []float64, total, p float64) (int, float64) {
	threshold := p * total
	var c float64
	for j, m := range sorted {
		c += m
		if c >= threshold {
			return j + 1, c
		}
	}
	return len(sorted), c
}

// selectTopK returns the indices and values of the k largest entries,
// ordered descending by value; equal values keep their first-seen order.
// Scratch is reused, so the returned slices are only valid until the next
// call. Insertion-based O(V*K), which beats a full sort for typical k.
func (s *Sampler) selectTopK(vals []float32, k int) ([]int, []float32) {
	if cap(s.topIdx) < k+1 {
		s.topIdx = make([]int, 0, k+1)
		s.topVal = make([]float32, 0, k+1)
	}
	topIdx := s.topIdx[:0]
	topVal := s.topVal[:0]

	for i, v := range vals {
		pos := len(topVal)
		for pos > 0 && topVal[pos-1] < v {
			pos--
		}
		if pos >= k {
			continue
		}

		topIdx = append(topIdx, 0)
		topVal = append(topVal, 0)
		copy(topIdx[pos+1:], topIdx[pos:])
		copy(topVal[pos+1:], topVal[pos:])
		topIdx[pos] = i
		topVal[pos] = v

		if len(topVal) > k {
			topIdx = topIdx[:k]
			topVal = topVal[:k]
		}
	}
	s.topIdx = topIdx
	s.topVal = topVal
	return topIdx, topVal
}
