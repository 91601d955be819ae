package ratetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5", "5.0"},
		{"10", "10.0"},
		{" 7 ", "7.0"},
		{"5.25", "5.25"},
		{"8.5", "8.5"},
	}
	for _, c := range cases {
		got, err := NormalizeKey(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got)
	}

	_, err := NormalizeKey("abc")
	assert.Error(t, err)
	_, err = NormalizeKey("")
	assert.Error(t, err)
}

func TestBuildTwoAxisOrdersBothLevels(t *testing.T) {
	headers := []string{"FAT", "SNF8.5", "SNF8.0"}
	rows := [][]string{
		{"10", "31.0", "30.0"},
		{"5", "21.0", "20.0"},
		{"7", "26.0", "25.0"},
	}

	table, err := BuildTwoAxis(headers, rows, "SNF")
	require.NoError(t, err)
	require.Len(t, table, 3)

	// primary keys ascending numerically, "10.0" after "7.0"
	assert.Equal(t, "5.0", table[0].Key)
	assert.Equal(t, "7.0", table[1].Key)
	assert.Equal(t, "10.0", table[2].Key)

	// secondary keys ascending inside every row
	for _, row := range table {
		require.Len(t, row.Cells, 2)
		assert.Equal(t, "8.0", row.Cells[0].Key)
		assert.Equal(t, "8.5", row.Cells[1].Key)
	}
	assert.Equal(t, 20.0, table[0].Cells[0].Rate)
	assert.Equal(t, 21.0, table[0].Cells[1].Rate)
}

func TestBuildTwoAxisStripsPrefixToken(t *testing.T) {
	headers := []string{"CLR", "clr24", "clr26"}
	rows := [][]string{{"5.5", "18.0", "19.0"}}

	table, err := BuildTwoAxis(headers, rows, "clr")
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, "5.5", table[0].Key)
	assert.Equal(t, "24.0", table[0].Cells[0].Key)
	assert.Equal(t, "26.0", table[0].Cells[1].Key)
}

func TestBuildTwoAxisDropsMalformedRowsAndCells(t *testing.T) {
	headers := []string{"FAT", "SNF8.0", "SNFbad"}
	rows := [][]string{
		{"x", "20.0", "21.0"},
		{"5", "20.0", "21.0"},
		{"6", "notanumber", "22.0"},
	}

	table, err := BuildTwoAxis(headers, rows, "SNF")
	require.NoError(t, err)
	require.Len(t, table, 2)

	// the SNFbad column never yields a cell, and the bad rate cell of
	// row 6 is dropped
	assert.Len(t, table[0].Cells, 1)
	assert.Empty(t, table[1].Cells)
}

func TestBuildTwoAxisLastRowWinsOnDuplicatePrimary(t *testing.T) {
	headers := []string{"FAT", "SNF8.0"}
	rows := [][]string{
		{"5", "20.0"},
		{"5.0", "99.0"},
	}

	table, err := BuildTwoAxis(headers, rows, "SNF")
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, 99.0, table[0].Cells[0].Rate)
}

func TestBuildTwoAxisDeterministicAcrossInputOrder(t *testing.T) {
	headers := []string{"FAT", "SNF9.0", "SNF8.0"}
	shuffled := [][]string{
		{"7", "26.0", "25.0"},
		{"5", "21.0", "20.0"},
	}
	ordered := [][]string{
		{"5", "21.0", "20.0"},
		{"7", "26.0", "25.0"},
	}

	a, err := BuildTwoAxis(headers, shuffled, "SNF")
	require.NoError(t, err)
	b, err := BuildTwoAxis([]string{"FAT", "SNF8.0", "SNF9.0"}, [][]string{
		{"5", "20.0", "21.0"},
		{"7", "25.0", "26.0"},
	}, "SNF")
	require.NoError(t, err)
	c, err := BuildTwoAxis(headers, ordered, "SNF")
	require.NoError(t, err)

	assert.Equal(t, a, c)
	assert.Equal(t, a, b)
}

func TestBuildTwoAxisRejectsHeaderlessInput(t *testing.T) {
	_, err := BuildTwoAxis([]string{"FAT"}, [][]string{{"5"}}, "SNF")
	assert.ErrorIs(t, err, ErrBadInput)
}

func TestBuildSingleAxis(t *testing.T) {
	headers := []string{"FAT", "RATE"}
	rows := [][]string{
		{"3.5", "24.50"},
		{"4.0", "28.00"},
		{"bad", "30.00"},
	}

	entries, err := BuildSingleAxis(headers, rows)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 3.5, entries[0].Fat)
	assert.Equal(t, 24.5, entries[0].Rate)
}

func TestBuildSingleAxisFindsColumnsByName(t *testing.T) {
	headers := []string{"RATE", "FAT"}
	rows := [][]string{{"24.50", "3.5"}}

	entries, err := BuildSingleAxis(headers, rows)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3.5, entries[0].Fat)

	_, err = BuildSingleAxis([]string{"FAT", "PRICE"}, rows)
	assert.ErrorIs(t, err, ErrBadInput)
}
