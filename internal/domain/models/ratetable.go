package models

import (
	"bytes"
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Rate table kinds. Fat tables are single-axis (FAT -> RATE); SNF and
// CLR tables are two-axis breakpoint tables.
const (
	TableFatCow = "fatCowTable"
	TableFatBuf = "fatBufTable"
	TableSnfCow = "snfCowTable"
	TableSnfBuf = "snfBufTable"
	TableClrCow = "clrCowTable"
)

// FatRateEntry is one breakpoint of a single-axis fat table.
type FatRateEntry struct {
	Fat  float64 `bson:"FAT" json:"FAT"`
	Rate float64 `bson:"RATE" json:"RATE"`
}

// RateCell maps a normalized secondary-axis key (e.g. an SNF value
// rendered as "8.5") to a price rate.
type RateCell struct {
	Key  string
	Rate float64
}

// RateRow holds the ordered cells stored under one normalized
// primary-axis key (e.g. a fat percentage rendered as "5.0").
type RateRow struct {
	Key   string
	Cells []RateCell
}

// RateTable is a two-axis breakpoint lookup. Rows are ascending by the
// numeric interpretation of the primary key and each row's cells are
// ascending by the numeric interpretation of the secondary key. The
// ordering is part of the stored representation, so the table marshals
// to ordered documents rather than Go maps.
type RateTable []RateRow

// Lookup returns the rate stored under (primaryKey, secondaryKey).
// Keys must already be normalized the way the builder normalizes them.
func (t RateTable) Lookup(primaryKey, secondaryKey string) (float64, bool) {
	for _, row := range t {
		if row.Key != primaryKey {
			continue
		}
		for _, cell := range row.Cells {
			if cell.Key == secondaryKey {
				return cell.Rate, true
			}
		}
		return 0, false
	}
	return 0, false
}

// OrderedDoc renders the table as an ordered BSON document matching
// the stored shape: {"5.0": [{"8.5": 24.5}, ...], ...}.
func (t RateTable) OrderedDoc() bson.D {
	doc := make(bson.D, 0, len(t))
	for _, row := range t {
		cells := make(bson.A, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, bson.D{{Key: cell.Key, Value: cell.Rate}})
		}
		doc = append(doc, bson.E{Key: row.Key, Value: cells})
	}
	return doc
}

// MarshalBSONValue stores the table as an ordered document so the
// persisted key order survives round trips.
func (t RateTable) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(t.OrderedDoc())
}

// UnmarshalBSONValue restores a table from its ordered document form.
func (t *RateTable) UnmarshalBSONValue(bt bsontype.Type, data []byte) error {
	var doc bson.D
	raw := bson.RawValue{Type: bt, Value: data}
	if err := raw.Unmarshal(&doc); err != nil {
		return err
	}

	table := make(RateTable, 0, len(doc))
	for _, elem := range doc {
		row := RateRow{Key: elem.Key}
		if arr, ok := elem.Value.(bson.A); ok {
			for _, item := range arr {
				cellDoc, ok := item.(bson.D)
				if !ok || len(cellDoc) == 0 {
					continue
				}
				rate, _ := toFloat(cellDoc[0].Value)
				row.Cells = append(row.Cells, RateCell{Key: cellDoc[0].Key, Rate: rate})
			}
		}
		table = append(table, row)
	}
	*t = table
	return nil
}

// MarshalJSON emits the table as an ordered JSON object. Two builds of
// the same logical breakpoints produce byte-identical output no matter
// how the input rows and columns were ordered.
func (t RateTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, row := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(row.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(":[")
		for j, cell := range row.Cells {
			if j > 0 {
				buf.WriteByte(',')
			}
			cellKey, err := json.Marshal(cell.Key)
			if err != nil {
				return nil, err
			}
			rate, err := json.Marshal(cell.Rate)
			if err != nil {
				return nil, err
			}
			buf.WriteByte('{')
			buf.Write(cellKey)
			buf.WriteByte(':')
			buf.Write(rate)
			buf.WriteByte('}')
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
