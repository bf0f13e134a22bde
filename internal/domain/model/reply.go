//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// ReplyStatus is the state of a queued outbound reply.
type ReplyStatus string

const (
	ReplyStatusPending  ReplyStatus = "pending"
	ReplyStatusSending  ReplyStatus = "sending"
	ReplyStatusSent     ReplyStatus = "sent"
	ReplyStatusRejected ReplyStatus = "rejected"
	ReplyStatusFailed   ReplyStatus = "failed"
)

// OutboundReply is a drafted reply waiting for approval.
type OutboundReply struct {
	ID        string      `json:"id"               db:"id"`
	ToEmail   string      `json:"to_email"         db:"to_email"`
	Subject   string      `json:"subject"          db:"subject"`
	Body      string      `json:"body"             db:"body"`
	Status    ReplyStatus `json:"status"           db:"status"`
	SentAt    *time.Time  `json:"sent_at,omitempty" db:"sent_at"`
	Error     *string     `json:"error,omitempty"  db:"error"`
	CreatedAt time.Time   `json:"created_at"       db:"created_at"`
}

// PlainEmail is a non-templated message.
type PlainEmail struct {
	To      string
	Subject string
	Body    string
}
