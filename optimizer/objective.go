// SPDX-License-Identifier: MIT

package optimizer

import (
	"math"

	"github.com/katalvlaran/minweights/tensor"
)

// Block is the contribution of one source task. Every group g carries a
// D-dimensional statistic X[g,:] and its element-wise square XSq[g,:];
// GroupSizes[g] is the number of samples in g and Size the task's total.
type Block struct {
	X          *tensor.Dense // [G,D]
	XSq        *tensor.Dense // [G,D]
	GroupSizes []int         // [G]
	Size       int
	Lower      []float64 // [G]
	Upper      []float64 // [G]
}

// Problem is the bias²+variance minimization over all blocks' group weights.
//   - Target is the D-vector t the weighted statistics should match.
//   - TargetSize counts target samples in n = Σ Size_j + TargetSize.
//   - Scale is the factor c applied to every statistic: 1/(1−γ) for the
//     policy gradient, 1 for LSTD.
type Problem struct {
	Blocks     []Block
	Target     []float64
	TargetSize int
	Scale      float64
}

// Objective evaluates
//
//	bias_d = Σ_j (Size_j·t_d − c·S_jd)/n,            S_jd = Σ_g w_g·x_gd
//	var    = Σ_j Σ_d c²·(Σ_g w_g²·x²_gd/|g| − S_jd²/Size_j)/n²
//	f(w)   = Σ_d bias_d² + var
//
// over the concatenated group weights of all blocks.
type Objective struct {
	p       Problem
	n       float64
	offsets []int // offsets[j] is the first weight of block j
	dim     int
	d       int
}

// NewObjective validates p.
func NewObjective(p Problem) (*Objective, error) {
	const tag = "NewObjective"
	if len(p.Blocks) == 0 {
		return nil, optimizerErrorf(tag, ErrNoBlocks)
	}
	if !(p.Scale > 0) || math.IsInf(p.Scale, 0) {
		return nil, optimizerErrorf(tag, ErrScale)
	}
	d := len(p.Target)
	o := &Objective{p: p, d: d, offsets: make([]int, len(p.Blocks))}
	total := p.TargetSize
	for j, b := range p.Blocks {
		if b.X == nil || b.XSq == nil || b.X.Rank() != 2 || b.X.Dim(1) != d {
			return nil, optimizerErrorf(tag, ErrShape)
		}
		nG := b.X.Dim(0)
		if err := tensor.ValidateSameShape(b.X, b.XSq); err != nil {
			return nil, optimizerErrorf(tag, ErrShape)
		}
		if len(b.GroupSizes) != nG || len(b.Lower) != nG || len(b.Upper) != nG {
			return nil, optimizerErrorf(tag, ErrShape)
		}
		if b.Size <= 0 {
			return nil, optimizerErrorf(tag, ErrEmptyBlock)
		}
		for g := 0; g < nG; g++ {
			if b.GroupSizes[g] <= 0 {
				return nil, optimizerErrorf(tag, ErrEmptyBlock)
			}
			if math.IsNaN(b.Lower[g]) || math.IsNaN(b.Upper[g]) || b.Lower[g] > b.Upper[g] {
				return nil, optimizerErrorf(tag, ErrBounds)
			}
		}
		o.offsets[j] = o.dim
		o.dim += nG
		total += b.Size
	}
	o.n = float64(total)

	return o, nil
}

// Dim returns the number of group weights.
func (o *Objective) Dim() int { return o.dim }

// Bounds returns the concatenated lower and upper weight bounds.
func (o *Objective) Bounds() (lower, upper []float64) {
	lower = make([]float64, 0, o.dim)
	upper = make([]float64, 0, o.dim)
	for _, b := range o.p.Blocks {
		lower = append(lower, b.Lower...)
		upper = append(upper, b.Upper...)
	}

	return lower, upper
}

// Split returns the slice of w that belongs to block j.
func (o *Objective) Split(w []float64, j int) []float64 {
	end := o.dim
	if j+1 < len(o.offsets) {
		end = o.offsets[j+1]
	}

	return w[o.offsets[j]:end]
}

// Evaluate returns f(w), ∂f/∂w and the bias vector computed at w. Nothing is
// retained between calls.
//
// Gradient:
//
//	∂f/∂w_g = Σ_d [−2c·x_gd·bias_d/n + 2c²·(w_g·x²_gd/|g| − x_gd·S_jd/Size_j)/n²]
//
// Complexity: O(dim·D).
func (o *Objective) Evaluate(w []float64) (value float64, grad, bias []float64) {
	c, n := o.p.Scale, o.n
	d := o.d
	bias = make([]float64, d)
	sums := make([][]float64, len(o.p.Blocks))
	variance := 0.0

	for j, b := range o.p.Blocks {
		wj := o.Split(w, j)
		s := make([]float64, d)
		q := make([]float64, d)
		for g, wg := range wj {
			x, _ := b.X.Fiber(g)
			xs, _ := b.XSq.Fiber(g)
			inv := wg * wg / float64(b.GroupSizes[g])
			for k := 0; k < d; k++ {
				s[k] += wg * x[k]
				q[k] += inv * xs[k]
			}
		}
		size := float64(b.Size)
		for k := 0; k < d; k++ {
			bias[k] += (size*o.p.Target[k] - c*s[k]) / n
			variance += c * c * (q[k] - s[k]*s[k]/size) / (n * n)
		}
		sums[j] = s
	}

	for _, v := range bias {
		value += v * v
	}
	value += variance

	grad = make([]float64, o.dim)
	for j, b := range o.p.Blocks {
		wj := o.Split(w, j)
		gj := o.Split(grad, j)
		size := float64(b.Size)
		s := sums[j]
		for g, wg := range wj {
			x, _ := b.X.Fiber(g)
			xs, _ := b.XSq.Fiber(g)
			gs := float64(b.GroupSizes[g])
			acc := 0.0
			for k := 0; k < d; k++ {
				acc += -2*c*x[k]*bias[k]/n + 2*c*c*(wg*xs[k]/gs-x[k]*s[k]/size)/(n*n)
			}
			gj[g] = acc
		}
	}

	return value, grad, bias
}
