// Package model contains domain models passed between layers.
package model

import "time"

// CaseStatus tracks where a matter is in its lifecycle.
type CaseStatus string

// Case lifecycle states.
const (
	CaseOpen    CaseStatus = "open"
	CaseFiled   CaseStatus = "filed"
	CaseSettled CaseStatus = "settled"
	CaseClosed  CaseStatus = "closed"
)

// Case represents one lemon-law matter.
type Case struct {
	ID           string
	ClientName   string
	VehicleYear  int
	VehicleMake  string
	VehicleModel string
	VIN          string
	Status       CaseStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DocumentKind identifies what an uploaded document contains and therefore
// which extraction prompt applies to it.
type DocumentKind string

// Supported document kinds.
const (
	DocumentBilling DocumentKind = "billing"
	DocumentRepair  DocumentKind = "repair"
)

// DocumentStatus tracks the extraction pipeline state of a document.
type DocumentStatus string

// Document pipeline states.
const (
	DocumentPending   DocumentStatus = "pending"
	DocumentExtracted DocumentStatus = "extracted"
	DocumentFailed    DocumentStatus = "failed"
)

// Document is an uploaded source document whose text has already been
// pulled out of its original PDF/DOCX/image upstream.
type Document struct {
	ID         string
	CaseID     string
	Kind       DocumentKind
	Filename   string
	Text       string
	Status     DocumentStatus
	Error      string // populated when Status is DocumentFailed
	UploadedAt time.Time
}

// TimeEntry is one attorney's recorded work on a matter. Immutable once
// handed to the fee calculator.
type TimeEntry struct {
	ID              string
	CaseID          string
	AttorneyName    string
	Date            time.Time
	Hours           float64
	BilledRate      float64
	YearsExperience *int // nil means "resolve from roster or default"
	Description     string
}

// RepairVisit is one dealership service visit extracted from a repair
// order, used for the repair chronology in filings.
type RepairVisit struct {
	ID               string
	CaseID           string
	DateIn           time.Time
	DateOut          time.Time
	Odometer         int
	Complaint        string
	WorkPerformed    string
	DaysOutOfService int
}

// RateSchedule is a published benchmark rate table keyed by attorney
// experience tier, plus a distinct paraprofessional rate. Fields are
// pointers so a missing rate is distinguishable from an explicit zero.
type RateSchedule struct {
	Tier1to3Rate   *float64
	Tier4to7Rate   *float64
	Tier8to10Rate  *float64
	Tier11to19Rate *float64
	Tier20PlusRate *float64
	ParalegalRate  *float64
}

// Attorney is a roster record used to fill in missing experience on time
// entries by exact name match.
type Attorney struct {
	Name            string
	YearsExperience int
	IsParalegal     bool
}
