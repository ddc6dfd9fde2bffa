package model

import "time"

// DateLayout is the on-screen and form format for due dates.
const DateLayout = "2006-01-02"

// Task is a single to-do entry.
type Task struct {
	// ID is assigned at creation and never changes. It is used for
	// identity only, never for ordering.
	ID string `json:"id" db:"id"`

	// Title is the short label. It is never empty.
	Title string `json:"title" db:"title"`

	// Done is the completion flag.
	Done bool `json:"done" db:"done"`

	// Description is optional free text; empty means absent.
	Description string `json:"description,omitempty" db:"description"`

	// DueDate is an optional calendar day, normalized with Date.
	DueDate *time.Time `json:"due_date,omitempty" db:"due_date"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasDescription reports whether the task carries a description.
func (t Task) HasDescription() bool { return t.Description != "" }

// IsOverdue reports whether an open task's due day lies before the day of now.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && !t.Done && t.DueDate.Before(Date(now))
}

// DueOn reports whether the task is due on the calendar day of d.
func (t Task) DueOn(d time.Time) bool {
	return t.DueDate != nil && SameDay(*t.DueDate, d)
}

// Date returns midnight UTC of t's calendar day as seen in t's location.
// All due dates are stored in this form so comparisons ignore time zones.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DatePtr is Date for optional values.
func DatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := Date(*t)
	return &d
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders an optional due date, or "" when absent.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
