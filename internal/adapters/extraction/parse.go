package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/trialworks/lemonaid/internal/domain/model"
)

// Wire shapes the model is prompted to emit. Dates are ISO 8601 day
// precision; years_experience is null when the document does not say.
type billingPayload struct {
	Entries []billingRow `json:"entries"`
}

type billingRow struct {
	Attorney        string  `json:"attorney"`
	Date            string  `json:"date"`
	Hours           float64 `json:"hours"`
	Rate            float64 `json:"rate"`
	YearsExperience *int    `json:"years_experience"`
	Description     string  `json:"description"`
}

type repairPayload struct {
	Visits []repairRow `json:"visits"`
}

type repairRow struct {
	DateIn           string `json:"date_in"`
	DateOut          string `json:"date_out"`
	Odometer         int    `json:"odometer"`
	Complaint        string `json:"complaint"`
	WorkPerformed    string `json:"work_performed"`
	DaysOutOfService int    `json:"days_out_of_service"`
}

// parseBilling validates and converts raw model output. Any bad row fails
// the whole document.
func parseBilling(raw string) ([]model.TimeEntry, error) {
	var payload billingPayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if len(payload.Entries) == 0 {
		return nil, fmt.Errorf("%w: no billing entries found", ErrMalformedOutput)
	}

	entries := make([]model.TimeEntry, 0, len(payload.Entries))
	for i, row := range payload.Entries {
		switch {
		case strings.TrimSpace(row.Attorney) == "":
			return nil, fmt.Errorf("%w: entry %d has no attorney", ErrMalformedOutput, i)
		case row.Hours < 0:
			return nil, fmt.Errorf("%w: entry %d has negative hours", ErrMalformedOutput, i)
		case row.Rate < 0:
			return nil, fmt.Errorf("%w: entry %d has negative rate", ErrMalformedOutput, i)
		case row.YearsExperience != nil && *row.YearsExperience < 0:
			return nil, fmt.Errorf("%w: entry %d has negative experience", ErrMalformedOutput, i)
		}
		date, err := parseDay(row.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedOutput, i, err)
		}
		entries = append(entries, model.TimeEntry{
			AttorneyName:    strings.TrimSpace(row.Attorney),
			Date:            date,
			Hours:           row.Hours,
			BilledRate:      row.Rate,
			YearsExperience: row.YearsExperience,
			Description:     strings.TrimSpace(row.Description),
		})
	}
	return entries, nil
}

// parseRepairs validates and converts raw model output into visits.
func parseRepairs(raw string) ([]model.RepairVisit, error) {
	var payload repairPayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if len(payload.Visits) == 0 {
		return nil, fmt.Errorf("%w: no repair visits found", ErrMalformedOutput)
	}

	visits := make([]model.RepairVisit, 0, len(payload.Visits))
	for i, row := range payload.Visits {
		dateIn, err := parseDay(row.DateIn)
		if err != nil {
			return nil, fmt.Errorf("%w: visit %d: %v", ErrMalformedOutput, i, err)
		}
		dateOut, err := parseDay(row.DateOut)
		if err != nil {
			return nil, fmt.Errorf("%w: visit %d: %v", ErrMalformedOutput, i, err)
		}
		if dateOut.Before(dateIn) {
			return nil, fmt.Errorf("%w: visit %d released before it arrived", ErrMalformedOutput, i)
		}
		if row.Odometer < 0 || row.DaysOutOfService < 0 {
			return nil, fmt.Errorf("%w: visit %d has negative mileage or downtime", ErrMalformedOutput, i)
		}
		visits = append(visits, model.RepairVisit{
			DateIn:           dateIn,
			DateOut:          dateOut,
			Odometer:         row.Odometer,
			Complaint:        strings.TrimSpace(row.Complaint),
			WorkPerformed:    strings.TrimSpace(row.WorkPerformed),
			DaysOutOfService: row.DaysOutOfService,
		})
	}
	return visits, nil
}

// parseDay accepts day precision or a full timestamp.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// stripFences removes a markdown code fence the model sometimes wraps JSON
// in, even when asked for a JSON MIME type.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
