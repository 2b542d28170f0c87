package identifier

import (
	"fmt"
	"strings"
)

// CaseNumberVariants returns every textual layout the origin court sites are
// known to use for the same case. The output is ordered and deterministic so
// callers can OR the whole set into a single store query and tests can assert
// exact arrays. Always returns at least one variant.
func CaseNumberVariants(number, year, caseType string) []string {
	number = strings.TrimSpace(number)
	year = strings.TrimSpace(year)
	caseType = strings.TrimSpace(caseType)

	// A diary number search has exactly one canonical form
	if caseType == "" || strings.EqualFold(caseType, CaseTypeDiaryNumber) {
		return []string{fmt.Sprintf("%s/%s", number, year)}
	}

	return []string{
		fmt.Sprintf("%s %s/%s", caseType, number, year),
		fmt.Sprintf("%s/%s/%s", caseType, number, year),
		fmt.Sprintf("%s NO. %s/%s", caseType, number, year),
		fmt.Sprintf("%s NO. %s OF %s", caseType, number, year),
		fmt.Sprintf("%s/%s", number, year),
	}
}
