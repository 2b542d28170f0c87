package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Court names as the origin service reports them
const (
	CourtSupreme  = "Supreme Court"
	CourtHigh     = "High Court"
	CourtDistrict = "District Court"
	CourtNCLT     = "NCLT"
)

// UserCase status values
const (
	UserCaseStatusPending = "PENDING"
)

// Subscription status values
const (
	SubscriptionStatusActive  = "ACTIVE"
	SubscriptionStatusDeleted = "DELETED"
)

// JudgmentLink is a single order/judgment document reference
type JudgmentLink struct {
	Date string `json:"date,omitempty"`
	Type string `json:"type,omitempty"`
	URL  string `json:"url"`
}

// JudgmentLinks is stored as a JSON text column
type JudgmentLinks []JudgmentLink

func (j JudgmentLinks) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (j *JudgmentLinks) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported judgment link column type %T", value)
	}
	if len(data) == 0 {
		*j = nil
		return nil
	}
	return json.Unmarshal(data, j)
}

// CaseRecord is a resolved case in the shared cache store. Rows are written
// both by this service (placeholder inserts) and by the origin scraper
// service, which persists directly into the same store. Records are never
// deleted here; only subscriptions are soft-deleted.
type CaseRecord struct {
	gorm.Model
	DiaryNumber   string        `json:"diary_number" gorm:"index"`
	CaseNumber    string        `json:"case_number" gorm:"index:idx_case_records_number_court"`
	Court         string        `json:"court" gorm:"index:idx_case_records_number_court"`
	CaseType      string        `json:"case_type"`
	City          string        `json:"city"`
	District      string        `json:"district"`
	Bench         string        `json:"bench"`
	CourtComplex  string        `json:"court_complex"`
	CourtType     string        `json:"court_type"`
	SerialNumber  string        `json:"serial_number"`
	JudgmentURLs  JudgmentLinks `json:"judgment_urls" gorm:"type:text"`
	TentativeDate *time.Time    `json:"tentative_date"`
}

// UserCase is a per-user tracked case request, created directly from
// user-submitted data without requiring a prior CaseRecord.
type UserCase struct {
	gorm.Model
	UserID      string `json:"user_id" gorm:"index"`
	DiaryNumber string `json:"diary_number"`
	CaseType    string `json:"case_type"`
	Court       string `json:"court"`
	City        string `json:"city"`
	District    string `json:"district"`
	Status      string `json:"status" gorm:"default:PENDING"`
}

// SubscribedCases links a user to a CaseRecord. At most one row per
// (user_id, case_id) should be meaningfully active; this is enforced in the
// service read path, not by a store constraint.
type SubscribedCases struct {
	gorm.Model
	UserID string     `json:"user_id" gorm:"index"`
	CaseID uint       `json:"case_id" gorm:"index"`
	Case   CaseRecord `json:"case,omitempty" gorm:"foreignKey:CaseID"`
	Status string     `json:"status" gorm:"default:ACTIVE"`
}

func (CaseRecord) TableName() string {
	return "case_records"
}

func (UserCase) TableName() string {
	return "user_cases"
}

func (SubscribedCases) TableName() string {
	return "subscribed_cases"
}
