package intent

import (
	"regexp"
	"strings"
)

// LineItem is an income or deduction entry in a filing task.
type LineItem struct {
	Type        string
	Description string
	Amount      int
}

// FilingDetails holds the structured fields a filing task is expanded
// from. Fields not present in the user's message fall back to test
// defaults so a bare "start filing" command still produces a complete
// task.
type FilingDetails struct {
	PAN               string
	Mobile            string
	AssessmentYear    string
	ITRType           string
	FilingMode        string
	AdditionalIncomes []LineItem
	Deductions        []LineItem
}

var (
	panRe    = regexp.MustCompile(`PAN[:\s]*([A-Z]{5}[0-9]{4}[A-Z])`)
	mobileRe = regexp.MustCompile(`(?:mobile|phone|number)[:\s]*([0-9]{10})`)
	yearRe   = regexp.MustCompile(`(?:assessment year|AY|year)[:\s]*([0-9]{4}-[0-9]{2})`)
	itrRe    = regexp.MustCompile(`ITR[:\s]*([1-4])`)
)

// ExtractFilingDetails pulls PAN, mobile, assessment year, and ITR type
// out of a message, applying defaults for anything absent.
func ExtractFilingDetails(message string) FilingDetails {
	d := FilingDetails{
		PAN:            "ABCDE1234F",
		Mobile:         "9876543210",
		AssessmentYear: "2023-24",
		ITRType:        "ITR-2",
		FilingMode:     "Online Filing",
		AdditionalIncomes: []LineItem{
			{Type: "Rental Income", Amount: 25235},
			{Type: "Interest Income", Amount: 3252530},
		},
		Deductions: []LineItem{
			{Type: "80D - Health Insurance Premium", Description: "Health Insurance Premium", Amount: 25000},
			{Type: "80C - Tax Saving Investment", Description: "Investment", Amount: 150000},
		},
	}

	if m := panRe.FindStringSubmatch(strings.ToUpper(message)); m != nil {
		d.PAN = m[1]
	}
	if m := mobileRe.FindStringSubmatch(message); m != nil {
		d.Mobile = m[1]
	}
	if m := yearRe.FindStringSubmatch(message); m != nil {
		d.AssessmentYear = m[1]
	}
	if m := itrRe.FindStringSubmatch(message); m != nil {
		d.ITRType = "ITR-" + m[1]
	}

	return d
}
