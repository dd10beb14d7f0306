package entity

import "fmt"

// PostalIssue enumerates why a raw postal code could not be normalized.
type PostalIssue string

const (
	PostalIssueMissingOrEmpty   PostalIssue = "missing_or_empty"
	PostalIssueNoDigits         PostalIssue = "no_digits"
	PostalIssueTooFewDigits     PostalIssue = "too_few_digits"
	PostalIssueTooManyDigits    PostalIssue = "too_many_digits"
	PostalIssueUnusualLength    PostalIssue = "unusual_length"
	PostalIssueOtherFormatIssue PostalIssue = "other_format_issue"
)

// PostalDiagnosis describes a rejected postal code for operator review.
// DigitCount is only meaningful for the digit-count issues.
type PostalDiagnosis struct {
	Issue      PostalIssue `json:"issue"`
	DigitCount int         `json:"digit_count,omitempty"`
}

// String renders the diagnosis the way it appears in the invalid-code export.
func (d PostalDiagnosis) String() string {
	switch d.Issue {
	case PostalIssueMissingOrEmpty:
		return "Missing/Empty zip code"
	case PostalIssueNoDigits:
		return "No digits in zip code"
	case PostalIssueTooFewDigits:
		return fmt.Sprintf("Too few digits (%d digits)", d.DigitCount)
	case PostalIssueTooManyDigits:
		return fmt.Sprintf("Too many digits (%d digits)", d.DigitCount)
	case PostalIssueUnusualLength:
		return fmt.Sprintf("Unusual zip length (%d digits)", d.DigitCount)
	default:
		return "Other zip format issue"
	}
}
