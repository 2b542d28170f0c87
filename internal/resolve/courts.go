package resolve

import (
	"fmt"
	"strings"

	"github.com/rahul-omni/legal-ai-sub001/internal/casestore"
	"github.com/rahul-omni/legal-ai-sub001/internal/database"
	"github.com/rahul-omni/legal-ai-sub001/internal/identifier"
	"github.com/rahul-omni/legal-ai-sub001/internal/origin"
)

// SupremeCourt resolves Supreme Court cases. The origin OTF endpoint returns
// the resolved case number inline, so no polling is needed.
type SupremeCourt struct{}

func (SupremeCourt) Court() string { return database.CourtSupreme }

func (SupremeCourt) Validate(q identifier.Query) error { return nil }

func (SupremeCourt) CacheFilter(q identifier.Query) casestore.Filter {
	return casestore.Filter{Court: q.Court}
}

type supremeCourtPayload struct {
	DiaryNumber string `json:"diaryNumber,omitempty"`
	CaseNumber  string `json:"caseNumber,omitempty"`
	CaseYear    string `json:"caseYear,omitempty"`
	CaseType    string `json:"caseType,omitempty"`
}

func (SupremeCourt) OriginRequest(q identifier.Query) origin.Request {
	payload := supremeCourtPayload{}
	if q.SearchesByDiaryNumber() {
		payload.DiaryNumber = q.FullDiaryNumber
	} else {
		payload.CaseNumber = q.DiaryNumber
		payload.CaseYear = q.Year
		payload.CaseType = q.CaseType
	}
	return origin.Request{Endpoint: origin.EndpointSupremeCourtOTF, Payload: payload}
}

func (SupremeCourt) ExtractCaseNumber(res *origin.TriggerResult) string {
	return firstCaseNumber(res)
}

// HighCourt resolves High Court cases via the upsert endpoint, which also
// returns the case number inline.
type HighCourt struct{}

func (HighCourt) Court() string { return database.CourtHigh }

func (HighCourt) Validate(q identifier.Query) error { return nil }

func (HighCourt) CacheFilter(q identifier.Query) casestore.Filter {
	return casestore.Filter{Court: q.Court, Bench: q.Bench}
}

type highCourtPayload struct {
	ID          string `json:"id"`
	CaseYear    string `json:"caseYear"`
	CaseNumber  string `json:"caseNumber"`
	DiaryNumber string `json:"diaryNumber"`
	CaseType    string `json:"caseType"`
}

func (HighCourt) OriginRequest(q identifier.Query) origin.Request {
	payload := highCourtPayload{
		CaseYear:    q.Year,
		DiaryNumber: q.FullDiaryNumber,
		CaseType:    q.CaseType,
	}
	if !q.SearchesByDiaryNumber() {
		payload.CaseNumber = q.DiaryNumber
	}
	return origin.Request{Endpoint: origin.EndpointHighCourtUpsert, Payload: payload}
}

func (HighCourt) ExtractCaseNumber(res *origin.TriggerResult) string {
	return firstCaseNumber(res)
}

// DistrictCourt resolves District Court cases. The judgments endpoints give
// no inline data back; the store is polled until the origin's writes land.
// East Delhi has its own endpoint on the origin side.
type DistrictCourt struct{}

func (DistrictCourt) Court() string { return database.CourtDistrict }

func (DistrictCourt) Validate(q identifier.Query) error {
	if q.District == "" {
		return fmt.Errorf("%w: district is required for district court searches", identifier.ErrValidation)
	}
	return nil
}

func (DistrictCourt) CacheFilter(q identifier.Query) casestore.Filter {
	return casestore.Filter{
		Court:        q.Court,
		District:     q.District,
		CourtComplex: q.CourtComplex,
	}
}

type districtCourtPayload struct {
	DiaryNumber   string `json:"diaryNumber"`
	CourtName     string `json:"courtName"`
	CourtComplex  string `json:"courtComplex,omitempty"`
	CaseTypeValue string `json:"caseTypeValue,omitempty"`
	Court         string `json:"court,omitempty"`
}

func (DistrictCourt) OriginRequest(q identifier.Query) origin.Request {
	endpoint := origin.EndpointDistrictJudgments
	if strings.Contains(q.District, "east") && strings.Contains(q.District, "delhi") {
		endpoint = origin.EndpointEastDelhiJudgments
	}
	return origin.Request{
		Endpoint: endpoint,
		Payload: districtCourtPayload{
			DiaryNumber:   q.FullDiaryNumber,
			CourtName:     q.District,
			CourtComplex:  q.CourtComplex,
			CaseTypeValue: q.CaseType,
			Court:         q.Court,
		},
	}
}

func (DistrictCourt) ExtractCaseNumber(*origin.TriggerResult) string { return "" }

// NCLT resolves National Company Law Tribunal cases. Bench is an optional
// narrowing hint; when absent the filter omits the bench clause entirely.
type NCLT struct{}

func (NCLT) Court() string { return database.CourtNCLT }

func (NCLT) Validate(q identifier.Query) error {
	if q.Court == "" {
		return fmt.Errorf("%w: court is required for NCLT searches", identifier.ErrValidation)
	}
	return nil
}

func (NCLT) CacheFilter(q identifier.Query) casestore.Filter {
	return casestore.Filter{Court: q.Court, Bench: q.Bench}
}

type ncltPayload struct {
	DiaryNumber string `json:"diaryNumber"`
	Year        string `json:"year"`
	Court       string `json:"court"`
	CaseType    string `json:"caseType,omitempty"`
	Bench       string `json:"bench,omitempty"`
}

func (NCLT) OriginRequest(q identifier.Query) origin.Request {
	return origin.Request{
		Endpoint: origin.EndpointNCLTJudgments,
		Payload: ncltPayload{
			DiaryNumber: q.FullDiaryNumber,
			Year:        q.Year,
			Court:       q.Court,
			CaseType:    q.CaseType,
			Bench:       q.Bench,
		},
	}
}

func (NCLT) ExtractCaseNumber(*origin.TriggerResult) string { return "" }

func firstCaseNumber(res *origin.TriggerResult) string {
	if res == nil || len(res.Data) == 0 {
		return ""
	}
	return strings.TrimSpace(res.Data[0].CaseNumber)
}
