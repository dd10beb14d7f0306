package postal

import (
	"testing"

	"locator/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ValidCodes(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		padded bool
	}{
		{name: "five digits unchanged", raw: "10001", want: "10001"},
		{name: "leading zeros kept", raw: "02134", want: "02134"},
		{name: "zip plus four with hyphen", raw: "12345-6789", want: "12345"},
		{name: "zip plus four without hyphen", raw: "123456789", want: "12345"},
		{name: "short code left padded", raw: "123", want: "00123", padded: true},
		{name: "four digit excel zip", raw: "2134", want: "02134", padded: true},
		{name: "surrounding whitespace", raw: "  30301 ", want: "30301"},
		{name: "stray punctuation dropped", raw: "ZIP: 60614", want: "60614"},
		{name: "multiple hyphens keeps first part", raw: "12345-67-89", want: "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Normalize(tt.raw)
			require.True(t, res.Valid(), "expected %q to normalize", tt.raw)
			assert.Equal(t, tt.want, res.Code)
			assert.Equal(t, tt.padded, res.Padded)
			assert.Nil(t, res.Diagnosis)
		})
	}
}

func TestNormalize_IdentityOnCanonicalCodes(t *testing.T) {
	for _, z := range []string{"00000", "00501", "12345", "99950", "55555"} {
		res := Normalize(z)
		require.True(t, res.Valid())
		assert.Equal(t, z, res.Code)
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want entity.PostalDiagnosis
	}{
		{name: "empty", raw: "", want: entity.PostalDiagnosis{Issue: entity.PostalIssueMissingOrEmpty}},
		{name: "blank", raw: "   ", want: entity.PostalDiagnosis{Issue: entity.PostalIssueMissingOrEmpty}},
		{name: "nan placeholder", raw: "nan", want: entity.PostalDiagnosis{Issue: entity.PostalIssueMissingOrEmpty}},
		{name: "None placeholder", raw: "None", want: entity.PostalDiagnosis{Issue: entity.PostalIssueMissingOrEmpty}},
		{name: "letters only", raw: "abc", want: entity.PostalDiagnosis{Issue: entity.PostalIssueNoDigits}},
		{name: "six digits", raw: "123456", want: entity.PostalDiagnosis{Issue: entity.PostalIssueUnusualLength, DigitCount: 6}},
		{name: "eight digits", raw: "12345678", want: entity.PostalDiagnosis{Issue: entity.PostalIssueUnusualLength, DigitCount: 8}},
		{name: "ten digits", raw: "1234567890", want: entity.PostalDiagnosis{Issue: entity.PostalIssueTooManyDigits, DigitCount: 10}},
		{name: "leading hyphen few digits", raw: "-123", want: entity.PostalDiagnosis{Issue: entity.PostalIssueTooFewDigits, DigitCount: 3}},
		{name: "leading hyphen five digits", raw: "-12345", want: entity.PostalDiagnosis{Issue: entity.PostalIssueOtherFormatIssue, DigitCount: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Normalize(tt.raw)
			require.False(t, res.Valid())
			assert.Empty(t, res.Code)
			require.NotNil(t, res.Diagnosis)
			assert.Equal(t, tt.want, *res.Diagnosis)
		})
	}
}

func TestDiagnosis_String(t *testing.T) {
	assert.Equal(t, "Missing/Empty zip code", Diagnose("").String())
	assert.Equal(t, "No digits in zip code", Diagnose("n/a").String())
	assert.Equal(t, "Too few digits (2 digits)", Diagnose("-12").String())
	assert.Equal(t, "Too many digits (11 digits)", Diagnose("12345678901").String())
	assert.Equal(t, "Unusual zip length (7 digits)", Diagnose("1234567").String())
	assert.Equal(t, "Other zip format issue", Diagnose("-98765").String())
}

func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical("07030"))
	assert.False(t, IsCanonical("7030"))
	assert.False(t, IsCanonical("070301"))
	assert.False(t, IsCanonical("07a30"))
	assert.False(t, IsCanonical(""))
}
