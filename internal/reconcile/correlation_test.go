package reconcile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunbelt-research/market-cli/internal/model"
)

func TestCorrelate(t *testing.T) {
	t.Parallel()

	table := &model.MergedTable{
		Columns: []string{model.ColCounty, model.ColPopulation, model.ColMedianAge, model.ColCrimeIndex},
		Rows: []model.MergedRow{
			{County: "A", Population: intPtr(100), MedianAge: floatPtr(40), CrimeIndex: floatPtr(10)},
			{County: "B", Population: intPtr(200), MedianAge: floatPtr(38), CrimeIndex: floatPtr(20)},
			{County: "C", Population: intPtr(300), MedianAge: floatPtr(36), CrimeIndex: floatPtr(30)},
			{County: "D", Population: intPtr(400), MedianAge: floatPtr(34), CrimeIndex: floatPtr(40)},
		},
	}

	matrix := Correlate(table)
	require.NotNil(t, matrix)
	assert.Equal(t, []string{model.ColPopulation, model.ColMedianAge, model.ColCrimeIndex}, matrix.Columns)

	// Crime scales linearly with population and inversely with age.
	popCrime, ok := matrix.At(model.ColPopulation, model.ColCrimeIndex)
	require.True(t, ok)
	assert.InDelta(t, 1.0, popCrime, 1e-9)

	ageCrime, ok := matrix.At(model.ColMedianAge, model.ColCrimeIndex)
	require.True(t, ok)
	assert.InDelta(t, -1.0, ageCrime, 1e-9)

	// Symmetric with a unit diagonal.
	for i := range matrix.Columns {
		assert.Equal(t, 1.0, matrix.Values[i][i])
		for j := range matrix.Columns {
			assert.Equal(t, matrix.Values[i][j], matrix.Values[j][i])
		}
	}
}

func TestCorrelatePairwiseComplete(t *testing.T) {
	t.Parallel()

	table := &model.MergedTable{
		Columns: []string{model.ColCounty, model.ColPopulation, model.ColCrimeIndex},
		Rows: []model.MergedRow{
			{County: "A", Population: intPtr(100), CrimeIndex: floatPtr(10)},
			{County: "B", Population: intPtr(200), CrimeIndex: floatPtr(20)},
			{County: "C", Population: intPtr(300), CrimeIndex: floatPtr(30)},
			// Missing crime: excluded from the pair, not zero-filled.
			{County: "D", Population: intPtr(1000000)},
		},
	}

	matrix := Correlate(table)
	require.NotNil(t, matrix)
	got, ok := matrix.At(model.ColPopulation, model.ColCrimeIndex)
	require.True(t, ok)
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestCorrelateSparsePairsAreNaN(t *testing.T) {
	t.Parallel()

	table := &model.MergedTable{
		Columns: []string{model.ColCounty, model.ColPopulation, model.ColCrimeIndex},
		Rows: []model.MergedRow{
			{County: "A", Population: intPtr(100), CrimeIndex: floatPtr(10)},
			{County: "B", Population: intPtr(200)},
		},
	}

	matrix := Correlate(table)
	require.NotNil(t, matrix)
	got, ok := matrix.At(model.ColPopulation, model.ColCrimeIndex)
	require.True(t, ok)
	assert.True(t, math.IsNaN(got))
}

func TestCorrelateNeedsTwoColumns(t *testing.T) {
	t.Parallel()

	table := &model.MergedTable{
		Columns: []string{model.ColCounty, model.ColPopulation},
		Rows: []model.MergedRow{
			{County: "A", Population: intPtr(100)},
			{County: "B", Population: intPtr(200)},
		},
	}
	assert.Nil(t, Correlate(table))
}
