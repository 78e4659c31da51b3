// Package visitor provides the visitor-log domain model, query building
// and the listing/statistics/chart services behind the dashboard API.
package visitor

import "time"

// Sentinel values substituted for missing display data.
const (
	UnknownName = "Unknown"
	NotProvided = "Not provided"
)

// TimeLayout is the storage format for visit timestamps: RFC 3339 in UTC
// with fixed-width milliseconds. Fixed width keeps lexicographic TEXT
// comparison in SQLite identical to chronological comparison.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Record is one logged visit as stored. Rows written by older ingestion
// versions populate visitor_name/visitor_cnic/visitor_phone instead of
// full_name/cnic/phone, and timestamp instead of entry_time, so each
// logical attribute resolves through an ordered fallback pair.
type Record struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	FullName     string     `json:"full_name,omitempty"`
	VisitorName  string     `json:"visitor_name,omitempty"`
	CNIC         string     `json:"cnic,omitempty"`
	VisitorCNIC  string     `json:"visitor_cnic,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	VisitorPhone string     `json:"visitor_phone,omitempty"`
	Host         string     `json:"host"`
	Purpose      string     `json:"purpose"`
	EntryTime    *time.Time `json:"entry_time,omitempty"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
	ExitTime     *time.Time `json:"exit_time,omitempty"`
	IsGroupVisit bool       `json:"is_group_visit,omitempty"`
	GroupID      string     `json:"group_id,omitempty"`
	TotalMembers *int       `json:"total_members,omitempty"`
	GroupMembers []string   `json:"group_members,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Name resolves the visitor's display name: full_name wins over
// visitor_name, missing both yields the Unknown sentinel.
func (r *Record) Name() string {
	return firstNonEmpty(r.FullName, r.VisitorName, UnknownName)
}

// IdentityNumber resolves the identity number, cnic over visitor_cnic.
func (r *Record) IdentityNumber() string {
	return firstNonEmpty(r.CNIC, r.VisitorCNIC, NotProvided)
}

// EmailAddress returns the email or the Not provided sentinel.
func (r *Record) EmailAddress() string {
	return firstNonEmpty(r.Email, NotProvided)
}

// PhoneNumber resolves the phone number, phone over visitor_phone.
func (r *Record) PhoneNumber() string {
	return firstNonEmpty(r.Phone, r.VisitorPhone, NotProvided)
}

// EffectiveTime resolves the visit time: entry_time wins over timestamp.
// The second return is false when neither field is set.
func (r *Record) EffectiveTime() (time.Time, bool) {
	if r.EntryTime != nil {
		return *r.EntryTime, true
	}
	if r.Timestamp != nil {
		return *r.Timestamp, true
	}
	return time.Time{}, false
}

// sortTime is the sort key for recency ordering; records with no
// timestamp at all sort as the Unix epoch (oldest).
func (r *Record) sortTime() time.Time {
	if t, ok := r.EffectiveTime(); ok {
		return t
	}
	return time.Unix(0, 0).UTC()
}

// Display is the normalized projection returned to the dashboard client.
// Field names match what the table and CSV export render directly.
type Display struct {
	ID        string     `json:"_id"`
	Type      string     `json:"Type"`
	Name      string     `json:"Name"`
	CNIC      string     `json:"CNIC"`
	Email     string     `json:"Email"`
	Phone     string     `json:"Phone"`
	Host      string     `json:"Host"`
	Purpose   string     `json:"Purpose"`
	EntryTime *time.Time `json:"EntryTime"`
}

// ToDisplay projects a record into its display shape. Every resolved
// field is non-empty; EntryTime is null only when both source fields
// are absent.
func (r *Record) ToDisplay() Display {
	d := Display{
		ID:      r.ID,
		Type:    r.Type,
		Name:    r.Name(),
		CNIC:    r.IdentityNumber(),
		Email:   r.EmailAddress(),
		Phone:   r.PhoneNumber(),
		Host:    r.Host,
		Purpose: r.Purpose,
	}
	if t, ok := r.EffectiveTime(); ok {
		d.EntryTime = &t
	}
	return d
}

// firstNonEmpty returns the first non-empty value; the last argument is
// the fallback and is returned as-is.
func firstNonEmpty(values ...string) string {
	for _, v := range values[:len(values)-1] {
		if v != "" {
			return v
		}
	}
	return values[len(values)-1]
}
