package repository

import "time"

// HistoryStatus es el resultado de un intento de envío.
type HistoryStatus string

const (
	HistorySuccess HistoryStatus = "success"
	HistoryFailed  HistoryStatus = "failed"
)

// HistoryEntry es el registro inmutable de un intento de envío.
// Los tags json/bson definen el layout persistido en pg (jsonb) y mongo.
type HistoryEntry struct {
	RecruiterEmail   string        `json:"recruiterEmail" bson:"recruiterEmail"`
	Subject          string        `json:"subject" bson:"subject"`
	Body             string        `json:"body" bson:"body"`
	AttachmentsCount int           `json:"attachmentsCount" bson:"attachmentsCount"`
	Status           HistoryStatus `json:"status" bson:"status"`
	ErrorMessage     string        `json:"errorMessage" bson:"errorMessage"`
	SentAt           time.Time     `json:"sentAt" bson:"sentAt"`
}
