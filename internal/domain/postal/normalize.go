// Package postal normalizes raw US postal codes into canonical 5-digit form.
package postal

import (
	"strings"

	"locator/internal/domain/entity"
)

// CanonicalLength is the length of a canonical postal code.
const CanonicalLength = 5

const zipPlusFourLength = 9

// Result is the tagged outcome of Normalize: either a canonical code or a
// diagnosis explaining the rejection.
type Result struct {
	Code      string                  // Canonical code; empty when invalid.
	Padded    bool                    // Code was left-padded from fewer than 5 digits.
	Diagnosis *entity.PostalDiagnosis // Non-nil exactly when the value was rejected.
}

// Valid reports whether a canonical code was produced.
func (r Result) Valid() bool {
	return r.Diagnosis == nil
}

// Normalize cleans a raw postal value. Acceptance is decided by the cleaning
// rules alone; the diagnosis is derived from the raw value afterwards and
// never changes the outcome.
//
// All-digit values of up to 5 digits are zero padded on the left, so "123"
// becomes "00123". This can make a truncated value look like a real code;
// callers see it through Result.Padded.
func Normalize(raw string) Result {
	if IsMissing(raw) {
		return Result{Diagnosis: &entity.PostalDiagnosis{Issue: entity.PostalIssueMissingOrEmpty}}
	}

	cleaned := keepDigitsAndHyphen(strings.TrimSpace(raw))
	if before, _, found := strings.Cut(cleaned, "-"); found {
		cleaned = before
	}

	if cleaned != "" && isAllDigits(cleaned) {
		switch n := len(cleaned); {
		case n <= CanonicalLength:
			return Result{
				Code:   strings.Repeat("0", CanonicalLength-n) + cleaned,
				Padded: n < CanonicalLength,
			}
		case n == zipPlusFourLength:
			return Result{Code: cleaned[:CanonicalLength]}
		}
	}

	d := Diagnose(raw)

	return Result{Diagnosis: &d}
}

// Diagnose classifies a rejected raw value by its digit content.
func Diagnose(raw string) entity.PostalDiagnosis {
	if IsMissing(raw) {
		return entity.PostalDiagnosis{Issue: entity.PostalIssueMissingOrEmpty}
	}

	digits := countDigits(raw)
	switch {
	case digits == 0:
		return entity.PostalDiagnosis{Issue: entity.PostalIssueNoDigits}
	case digits < CanonicalLength:
		return entity.PostalDiagnosis{Issue: entity.PostalIssueTooFewDigits, DigitCount: digits}
	case digits > zipPlusFourLength:
		return entity.PostalDiagnosis{Issue: entity.PostalIssueTooManyDigits, DigitCount: digits}
	case digits > CanonicalLength && digits < zipPlusFourLength:
		return entity.PostalDiagnosis{Issue: entity.PostalIssueUnusualLength, DigitCount: digits}
	default:
		return entity.PostalDiagnosis{Issue: entity.PostalIssueOtherFormatIssue, DigitCount: digits}
	}
}

// IsMissing reports whether a raw value counts as absent: blank, or a
// spreadsheet placeholder such as "nan" or "none".
func IsMissing(raw string) bool {
	v := strings.TrimSpace(raw)
	if v == "" {
		return true
	}

	return strings.EqualFold(v, "nan") || strings.EqualFold(v, "none")
}

// IsCanonical reports whether s is exactly five ASCII digits.
func IsCanonical(s string) bool {
	return len(s) == CanonicalLength && isAllDigits(s)
}

func keepDigitsAndHyphen(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isDigit(c) || c == '-' {
			b.WriteByte(c)
		}
	}

	return b.String()
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			n++
		}
	}

	return n
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}

	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
