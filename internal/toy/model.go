// Package toy provides a deterministic synthetic logit source for
// benchmarking and testing the selection engine without a real forward
// pass. Each row's logits are an embedding of its previous token projected
// back to the vocabulary, so different prefixes yield different batches
// while everything stays replayable from a seed.
package toy

import (
	"math/rand"

	"github.com/seqlogic/nucleus/internal/tensor"
)

type Model struct {
	rows   int
	vocab  int
	hidden int

	emb tensor.Mat // [Vocab x Hidden]
	w   tensor.Mat // [Hidden x Vocab]
}

// NewModel constructs a source for the given batch shape. The embedding and
// projection matrices are filled deterministically from the seed.
func NewModel(rows, vocab, hidden int, seed int64) *Model {
	m := &Model{
		rows:   rows,
		vocab:  vocab,
		hidden: hidden,
		emb:    tensor.NewMat(vocab, hidden),
		w:      tensor.NewMat(hidden, vocab),
	}
	fillRand(&m.emb, seed+11)
	fillRand(&m.w, seed+23)
	return m
}

func (m *Model) Rows() int  { return m.rows }
func (m *Model) Vocab() int { return m.vocab }

// NextLogits produces one logits batch. prev holds the previous step's
// token per row; nil means every row starts from token 0. Token indices
// outside [0, Vocab) are reduced modulo Vocab.
func (m *Model) NextLogits(prev []int32) tensor.Mat {
	out := tensor.NewMat(m.rows, m.vocab)
	for r := 0; r < m.rows; r++ {
		tok := 0
		if prev != nil {
			tok = int(prev[r]) % m.vocab
			if tok < 0 {
				tok += m.vocab
			}
		}
		h := m.emb.Row(tok)
		row := out.Row(r)
		for j := 0; j < m.vocab; j++ {
			var sum float32
			for i := 0; i < m.hidden; i++ {
				sum += h[i] * m.w.Row(i)[j]
			}
			row[j] = sum
		}
	}
	return out
}

func fillRand(m *tensor.Mat, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range m.Data {
		m.Data[i] = float32(rng.NormFloat64())
	}
}
