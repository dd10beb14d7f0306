package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Zip    string  `query:"zip" validate:"required,len=5,number"`
	Radius float64 `json:"radius" validate:"gt=0"`
	Format string  `validate:"omitempty,oneof=xlsx csv"`
}

func TestCustomValidator_Details(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&sample{Zip: "19103", Radius: 5}))

	err := v.Validate(&sample{Zip: "1910", Radius: 0, Format: "pdf"})
	require.Error(t, err)
	assert.Equal(t, map[string]string{
		"zip":    "len=5",
		"radius": "gt=0",
		"Format": "oneof=xlsx csv",
	}, Details(err))
}

func TestDetails_NonValidationError(t *testing.T) {
	assert.Nil(t, Details(assert.AnError))
}
