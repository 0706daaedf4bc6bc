// SPDX-License-Identifier: MIT

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/minweights/tensor"
)

// mustFrom builds a tensor or fails the test.
func mustFrom(t *testing.T, data []float64, shape ...int) *tensor.Dense {
	t.Helper()
	d, err := tensor.FromSlice(data, shape...)
	require.NoError(t, err)

	return d
}

func TestNew_BadShape(t *testing.T) {
	t.Parallel()

	_, err := tensor.New()
	require.ErrorIs(t, err, tensor.ErrBadShape)
	_, err = tensor.New(2, 0, 3)
	require.ErrorIs(t, err, tensor.ErrBadShape)
	_, err = tensor.FromSlice([]float64{1, 2, 3}, 2, 2)
	require.ErrorIs(t, err, tensor.ErrDimensionMismatch)
}

func TestDense_AtSetOffsets(t *testing.T) {
	t.Parallel()

	d, err := tensor.New(2, 3, 4)
	require.NoError(t, err)
	require.Equal(t, 3, d.Rank())
	require.Equal(t, 24, d.Len())
	require.Equal(t, []int{2, 3, 4}, d.Shape())

	require.NoError(t, d.Set(7.5, 1, 2, 3))
	v, err := d.At(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 7.5, v)

	off, err := d.Offset(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 1*12+2*4+3, off)
	assert.Equal(t, 7.5, d.Data()[off])

	_, err = d.At(2, 0, 0)
	assert.ErrorIs(t, err, tensor.ErrOutOfRange)
	_, err = d.At(0, 0)
	assert.ErrorIs(t, err, tensor.ErrOutOfRange)
	assert.ErrorIs(t, d.Set(1, 0, -1, 0), tensor.ErrOutOfRange)
}

func TestDense_FiberAliasesStorage(t *testing.T) {
	t.Parallel()

	d := mustFrom(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, 2, 2, 3)

	row, err := d.Fiber(1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 7, 8}, row)

	block, err := d.Fiber(1)
	require.NoError(t, err)
	assert.Len(t, block, 6)

	all, err := d.Fiber()
	require.NoError(t, err)
	assert.Len(t, all, 12)

	row[0] = -1
	v, err := d.At(1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, -1.0, v, "fiber must alias the tensor storage")

	_, err = d.Fiber(0, 2)
	assert.ErrorIs(t, err, tensor.ErrOutOfRange)
}

func TestDense_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	d := mustFrom(t, []float64{1, 2, 3, 4}, 2, 2)
	c := d.Clone()
	require.NoError(t, c.Set(9, 0, 0))
	v, _ := d.At(0, 0)
	assert.Equal(t, 1.0, v)
	assert.Contains(t, d.String(), "[1, 2]")
}
