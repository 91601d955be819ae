package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func sampleTable() RateTable {
	return RateTable{
		{Key: "5.0", Cells: []RateCell{{Key: "8.0", Rate: 20}, {Key: "8.5", Rate: 21.5}}},
		{Key: "7.0", Cells: []RateCell{{Key: "8.0", Rate: 25}, {Key: "8.5", Rate: 26.5}}},
		{Key: "10.0", Cells: []RateCell{{Key: "8.0", Rate: 30}}},
	}
}

func TestRateTableLookup(t *testing.T) {
	table := sampleTable()

	rate, ok := table.Lookup("7.0", "8.5")
	require.True(t, ok)
	assert.Equal(t, 26.5, rate)

	_, ok = table.Lookup("7.0", "9.0")
	assert.False(t, ok)
	_, ok = table.Lookup("6.0", "8.0")
	assert.False(t, ok)
}

func TestRateTableJSONIsOrdered(t *testing.T) {
	table := sampleTable()

	data, err := table.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"5.0":[{"8.0":20},{"8.5":21.5}],"7.0":[{"8.0":25},{"8.5":26.5}],"10.0":[{"8.0":30}]}`, string(data))
}

func TestRateTableJSONIdempotent(t *testing.T) {
	table := sampleTable()

	first, err := table.MarshalJSON()
	require.NoError(t, err)
	second, err := table.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRateTableBSONRoundTrip(t *testing.T) {
	type holder struct {
		Table RateTable `bson:"table"`
	}
	original := holder{Table: sampleTable()}

	data, err := bson.Marshal(original)
	require.NoError(t, err)

	var restored holder
	require.NoError(t, bson.Unmarshal(data, &restored))
	assert.Equal(t, original.Table, restored.Table)

	again, err := bson.Marshal(restored)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}
