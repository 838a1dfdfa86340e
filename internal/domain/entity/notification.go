package entity

import "time"

// Severity of an operator notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Link is the rich part of a notification detail.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Notification is a toast the operator sees for Duration.
type Notification struct {
	Severity Severity
	Summary  string
	Detail   string
	Link     *Link
	Duration time.Duration
	At       time.Time
}
