// SPDX-License-Identifier: MIT

package aggregate

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/minweights/mdp"
	"github.com/katalvlaran/minweights/tensor"
)

// Stats are the LSTD sufficient statistics of a Grouping, sized by the number
// of groups G and features K:
//   - VarPhi[g,k,:] = Σ_{i∈g} φ_k(x_i)·(φ(x_i) − γ·φ(x'_i))
//   - Rho[g,:]      = Σ_{i∈g} φ(x_i)·r_i
//   - VarPhiSq, RhoSq: element-wise squares of the group sums.
type Stats struct {
	VarPhi   *tensor.Dense // [G,K,K]
	Rho      *tensor.Dense // [G,K]
	VarPhiSq *tensor.Dense // [G,K,K]
	RhoSq    *tensor.Dense // [G,K]
}

// Features returns K.
func (st *Stats) Features() int { return st.Rho.Dim(1) }

// QStats computes LSTD-Q statistics. phi has one row per state-action pair,
// row s·nActions + a; x_i = (s_i, a_i) and x'_i = (s'_i, a'_i).
func QStats(b *mdp.SampleBatch, g *Grouping, phi mat.Matrix, nActions int, gamma float64) (*Stats, error) {
	cur := func(i int) int { return b.States[i]*nActions + b.Actions[i] }
	next := func(i int) int { return b.NextStates[i]*nActions + b.NextActions[i] }
	st, err := accumulate(b, g, phi, cur, next, gamma)
	if err != nil {
		return nil, aggregateErrorf("QStats", err)
	}

	return st, nil
}

// VStats computes LSTD-V statistics. phi has one row per state;
// x_i = s_i and x'_i = s'_i.
func VStats(b *mdp.SampleBatch, g *Grouping, phi mat.Matrix, gamma float64) (*Stats, error) {
	cur := func(i int) int { return b.States[i] }
	next := func(i int) int { return b.NextStates[i] }
	st, err := accumulate(b, g, phi, cur, next, gamma)
	if err != nil {
		return nil, aggregateErrorf("VStats", err)
	}

	return st, nil
}

func accumulate(b *mdp.SampleBatch, g *Grouping, phi mat.Matrix, cur, next func(int) int, gamma float64) (*Stats, error) {
	if g.Samples() != b.Len() {
		return nil, ErrShape
	}
	rows, k := phi.Dims()
	nG := g.Len()
	varPhi, err := tensor.New(nG, k, k)
	if err != nil {
		return nil, err
	}
	rho, _ := tensor.New(nG, k)

	f := make([]float64, k)
	fn := make([]float64, k)
	td := make([]float64, k)
	for gi := 0; gi < nG; gi++ {
		vp, _ := varPhi.Fiber(gi)
		rh, _ := rho.Fiber(gi)
		for _, i := range g.Members(gi) {
			r, rn := cur(i), next(i)
			if r < 0 || r >= rows || rn < 0 || rn >= rows {
				return nil, ErrFeatureIndex
			}
			mat.Row(f, r, phi)
			mat.Row(fn, rn, phi)
			for c := range td {
				td[c] = f[c] - gamma*fn[c]
			}
			for k1, v := range f {
				if v == 0 {
					continue
				}
				row := vp[k1*k : (k1+1)*k]
				for k2, d := range td {
					row[k2] += v * d
				}
				rh[k1] += v * b.Rewards[i]
			}
		}
	}

	return &Stats{
		VarPhi:   varPhi,
		Rho:      rho,
		VarPhiSq: tensor.Square(varPhi),
		RhoSq:    tensor.Square(rho),
	}, nil
}

// Flatten lays the statistics out as one D = K²+K vector per group,
// x_g = [vec(VarPhi_g), Rho_g], together with the matching squares.
func (st *Stats) Flatten() (x, xsq *tensor.Dense) {
	nG, k := st.Rho.Dim(0), st.Rho.Dim(1)
	d := k*k + k
	x, _ = tensor.New(nG, d)
	xsq, _ = tensor.New(nG, d)
	for gi := 0; gi < nG; gi++ {
		xr, _ := x.Fiber(gi)
		sr, _ := xsq.Fiber(gi)
		vp, _ := st.VarPhi.Fiber(gi)
		vs, _ := st.VarPhiSq.Fiber(gi)
		rh, _ := st.Rho.Fiber(gi)
		rs, _ := st.RhoSq.Fiber(gi)
		copy(xr, vp)
		copy(xr[k*k:], rh)
		copy(sr, vs)
		copy(sr[k*k:], rs)
	}

	return x, xsq
}

// GroupSums sums the per-row vectors values[N,D] within each group, giving a
// [G,D] tensor. Used for statistics that are not LSTD features, such as the
// per-group policy-gradient contribution.
func GroupSums(g *Grouping, values *tensor.Dense) (*tensor.Dense, error) {
	if err := tensor.ValidateNotNil(values); err != nil {
		return nil, aggregateErrorf("GroupSums", err)
	}
	if values.Rank() != 2 || values.Dim(0) != g.Samples() {
		return nil, aggregateErrorf("GroupSums", ErrShape)
	}
	out, _ := tensor.New(g.Len(), values.Dim(1))
	for gi := 0; gi < g.Len(); gi++ {
		dst, _ := out.Fiber(gi)
		for _, i := range g.Members(gi) {
			src, _ := values.Fiber(i)
			for c, v := range src {
				dst[c] += v
			}
		}
	}

	return out, nil
}
