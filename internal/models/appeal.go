package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownAppealType   = errors.New("unknown appeal type")
	ErrUnknownAppealStatus = errors.New("unknown appeal status")
)

type AppealType string

const (
	AppealTypeUnban AppealType = "unban"
	AppealTypeAdmin AppealType = "admin"
)

// ParseAppealType validates an incoming selection value. Anything outside
// the two known types must be rejected before it reaches the store.
func ParseAppealType(s string) (AppealType, error) {
	switch t := AppealType(s); t {
	case AppealTypeUnban, AppealTypeAdmin:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAppealType, s)
	}
}

func (t AppealType) String() string {
	return string(t)
}

type AppealStatus string

const (
	AppealStatusPending  AppealStatus = "pending"
	AppealStatusApproved AppealStatus = "approved"
	AppealStatusRejected AppealStatus = "rejected"
)

func ParseAppealStatus(s string) (AppealStatus, error) {
	switch st := AppealStatus(s); st {
	case AppealStatusPending, AppealStatusApproved, AppealStatusRejected:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAppealStatus, s)
	}
}

func (s AppealStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether the status change is legal: pending is the
// only source state, approved and rejected are terminal.
func (s AppealStatus) CanTransitionTo(next AppealStatus) bool {
	return s == AppealStatusPending &&
		(next == AppealStatusApproved || next == AppealStatusRejected)
}

func (s AppealStatus) Terminal() bool {
	return s == AppealStatusApproved || s == AppealStatusRejected
}

type Appeal struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	UserID   int64 `gorm:"not null"`
	Username string `gorm:"not null"`

	AppealType AppealType   `gorm:"type:text;not null"`
	Status     AppealStatus `gorm:"type:text;default:'pending';check:status IN ('pending', 'approved', 'rejected')"`

	SubmittedAt time.Time `gorm:"not null"`
}

func (a *Appeal) String() string {
	return fmt.Sprintf(
		"Appeal(%d, user=%d @%s, %s, %s)",
		a.ID,
		a.UserID,
		a.Username,
		a.AppealType,
		a.Status,
	)
}

// SubmittedISO renders the creation time the way it is shown to users and
// shipped to the federation endpoint.
func (a *Appeal) SubmittedISO() string {
	return a.SubmittedAt.Format(time.RFC3339)
}
