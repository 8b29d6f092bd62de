package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStateTable(t *testing.T) {
	t.Parallel()

	table, err := LoadStateTable()
	require.NoError(t, err)

	name, ok := table.URLName("FL")
	require.True(t, ok)
	assert.Equal(t, "Florida", name)

	name, ok = table.URLName("nh")
	require.True(t, ok)
	assert.Equal(t, "New-Hampshire", name)

	fips, ok := table.FIPS("TX")
	require.True(t, ok)
	assert.Equal(t, "48", fips)

	fips, ok = table.FIPS("DC")
	require.True(t, ok)
	assert.Equal(t, "11", fips)

	assert.True(t, table.Known("WY"))
	assert.False(t, table.Known("ZZ"))
	assert.False(t, table.Known(""))
}

func TestStateTableCoversAllStates(t *testing.T) {
	t.Parallel()

	table, err := LoadStateTable()
	require.NoError(t, err)

	// 50 states plus DC.
	assert.Len(t, table.entries, 51)
	for code, e := range table.entries {
		assert.Len(t, code, 2, "state code %q", code)
		assert.Len(t, e.FIPS, 2, "fips for %q", code)
		assert.NotEmpty(t, e.Name, "name for %q", code)
		assert.NotContains(t, e.Name, " ", "URL names are hyphenated: %q", e.Name)
	}
}

func TestNormalizeFIPS(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "01", NormalizeFIPSState("1"))
	assert.Equal(t, "12", NormalizeFIPSState("12"))
	assert.Equal(t, "", NormalizeFIPSState("  "))

	assert.Equal(t, "005", NormalizeFIPSCounty("5"))
	assert.Equal(t, "095", NormalizeFIPSCounty("95"))
	assert.Equal(t, "095", NormalizeFIPSCounty("095"))
	assert.Equal(t, "", NormalizeFIPSCounty(""))

	assert.Equal(t, "12095", CombineFIPS("12", "95"))
	assert.Equal(t, "", CombineFIPS("", "095"))
}
