// Package identifier normalizes raw case search parameters into the
// canonical forms the cache store is queried with.
package identifier

import (
	"errors"
	"fmt"
	"strings"
)

// CaseTypeDiaryNumber marks a search by diary number rather than case number
const CaseTypeDiaryNumber = "Diary Number"

// ErrValidation is returned for missing or malformed identifiers
var ErrValidation = errors.New("validation failed")

// Params are the raw query parameters as received from the client
type Params struct {
	DiaryNumber  string `json:"diaryNumber"`
	Year         string `json:"year"`
	CaseType     string `json:"caseType"`
	Court        string `json:"court"`
	City         string `json:"city"`
	District     string `json:"district"`
	Bench        string `json:"bench"`
	CourtComplex string `json:"courtComplex"`
}

// Query is the normalized form of a case search. Comparison fields are
// trimmed and lowercased; all downstream matching is case-insensitive.
type Query struct {
	DiaryNumber     string
	Year            string
	FullDiaryNumber string
	CaseType        string
	Court           string
	City            string
	District        string
	Bench           string
	CourtComplex    string
}

// Normalize validates the raw parameters and produces a canonical Query.
// Diary number and year are the minimum identifying pair.
func Normalize(p Params) (Query, error) {
	diary := strings.TrimSpace(p.DiaryNumber)
	year := strings.TrimSpace(p.Year)

	if diary == "" || year == "" {
		return Query{}, fmt.Errorf("%w: diaryNumber and year are required", ErrValidation)
	}

	return Query{
		DiaryNumber:     diary,
		Year:            year,
		FullDiaryNumber: fmt.Sprintf("%s/%s", diary, year),
		CaseType:        strings.TrimSpace(p.CaseType),
		Court:           fold(p.Court),
		City:            fold(p.City),
		District:        fold(p.District),
		Bench:           fold(p.Bench),
		CourtComplex:    fold(p.CourtComplex),
	}, nil
}

// SearchesByDiaryNumber reports whether the query resolves by the canonical
// full diary number instead of case-number variants.
func (q Query) SearchesByDiaryNumber() bool {
	return q.CaseType == "" || strings.EqualFold(q.CaseType, CaseTypeDiaryNumber)
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
