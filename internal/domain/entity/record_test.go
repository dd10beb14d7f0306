package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_MarshalJSON(t *testing.T) {
	tests := []struct {
		name       string
		coordinate Coordinate
		wantLat    any
		wantLng    any
	}{
		{name: "resolved", coordinate: NewCoordinate(39.9522, -75.1736), wantLat: 39.9522, wantLng: -75.1736},
		{name: "absent", coordinate: AbsentCoordinate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{
				Index:         3,
				Terminal:      "T1",
				RawPostalCode: "19103",
				PostalCode:    "19103",
				Coordinate:    tt.coordinate,
				Fields:        map[string]string{ColumnTerminal: "T1"},
			}

			data, err := json.Marshal(&rec)
			require.NoError(t, err)

			var got map[string]any
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, "T1", got["terminal"])
			assert.Equal(t, "19103", got["postal_code"])
			assert.EqualValues(t, 3, got["index"])
			assert.Equal(t, tt.wantLat, got["latitude"])
			assert.Equal(t, tt.wantLng, got["longitude"])
			assert.NotContains(t, got, "Coordinate")
		})
	}
}
