package mapper

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID     uint
	Amount string
}

type entity struct {
	ID     uint
	Amount float64
}

func toEntity(r *row) (*entity, error) {
	v, err := strconv.ParseFloat(r.Amount, 64)
	if err != nil {
		return nil, err
	}
	return &entity{ID: r.ID, Amount: v}, nil
}

func TestMapSlice(t *testing.T) {
	assert.Nil(t, MapSlice[int, string](nil, strconv.Itoa))
	assert.Equal(t, []string{}, MapSlice([]int{}, strconv.Itoa))
	assert.Equal(t, []string{"1", "2"}, MapSlice([]int{1, 2}, strconv.Itoa))
}

func TestMapSlicePtr_SkipsNil(t *testing.T) {
	in := []*row{{ID: 1}, nil, {ID: 3}}

	out := MapSlicePtr(in, func(r *row) *entity { return &entity{ID: r.ID} })

	require.Len(t, out, 2)
	assert.Equal(t, uint(1), out[0].ID)
	assert.Equal(t, uint(3), out[1].ID)
	assert.Nil(t, MapSlicePtr[row, entity](nil, nil))
}

func TestMapSlicePtrWithID(t *testing.T) {
	getID := func(r *row) uint { return r.ID }

	t.Run("maps all rows", func(t *testing.T) {
		out, err := MapSlicePtrWithID([]*row{{ID: 1, Amount: "500.00"}, nil, {ID: 2, Amount: "0.5"}}, toEntity, getID)

		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, 500.0, out[0].Amount)
		assert.Equal(t, 0.5, out[1].Amount)
	})

	t.Run("failure names the row", func(t *testing.T) {
		_, err := MapSlicePtrWithID([]*row{{ID: 1, Amount: "1"}, {ID: 7, Amount: "x"}}, toEntity, getID)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to map item ID 7")
		var numErr *strconv.NumError
		assert.True(t, errors.As(err, &numErr))
	})

	t.Run("nil input", func(t *testing.T) {
		out, err := MapSlicePtrWithID[row, entity, uint](nil, toEntity, getID)
		require.NoError(t, err)
		assert.Nil(t, out)
	})
}
