package logits

import "github.com/seqlogic/nucleus/internal/tensor"

// topLogprobs computes, per row, the k highest log-probabilities of the
// pre-temperature logits with their token ids, sorted descending. It runs
// independently of the selection path, so the sampled token can fall outside
// the returned set.
func (s *Sampler) topLogprobs(batch *tensor.Mat, k int) ([][]int32, [][]float32) {
	if k > batch.C {
		k = batch.C
	}
	logp := tensor.NewMat(batch.R, batch.C)
	s.ops.LogSoftmaxRows(&logp, batch)

	ids := make([][]int32, batch.R)
	vals := make([][]float32, batch.R)
	for i := 0; i < batch.R; i++ {
		topIdx, topVal := s.selectTopK(logp.Row(i), k)
		rowIDs := make([]int32, len(topIdx))
		rowVals := make([]float32, len(topVal))
		for j := range topIdx {
			rowIDs[j] = int32(topIdx[j])
			rowVals[j] = topVal[j]
		}
		ids[i] = rowIDs
		vals[i] = rowVals
	}
	return ids, vals
}
