package model

import (
	"time"
)

// LeaveType enumerates the supported kinds of leave
type LeaveType string

const (
	LeaveAnnual    LeaveType = "ANNUAL"
	LeaveSick      LeaveType = "SICK"
	LeaveMaternity LeaveType = "MATERNITY"
	LeavePaternity LeaveType = "PATERNITY"
	LeaveStudy     LeaveType = "STUDY"
	LeaveUnpaid    LeaveType = "UNPAID"
)

// ValidLeaveType reports whether t is a known leave type
func ValidLeaveType(t LeaveType) bool {
	switch t {
	case LeaveAnnual, LeaveSick, LeaveMaternity, LeavePaternity, LeaveStudy, LeaveUnpaid:
		return true
	}
	return false
}

// LeaveStatus enumerates the leave request state machine:
// PENDING -> APPROVED | REJECTED | CANCELLED, APPROVED -> CANCELLED.
// REJECTED and CANCELLED are terminal.
type LeaveStatus string

const (
	LeavePending   LeaveStatus = "PENDING"
	LeaveApproved  LeaveStatus = "APPROVED"
	LeaveRejected  LeaveStatus = "REJECTED"
	LeaveCancelled LeaveStatus = "CANCELLED"
)

// LeaveRequest represents a time-off application belonging to one requester
type LeaveRequest struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	RequesterID uint        `json:"requester_id" gorm:"index;not null"`
	Requester   *User       `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	LeaveType   LeaveType   `json:"leave_type" gorm:"type:varchar(20);not null"`
	StartDate   time.Time   `json:"start_date" gorm:"type:date;not null"`
	EndDate     time.Time   `json:"end_date" gorm:"type:date;not null"`
	Reason      string      `json:"reason" gorm:"type:varchar(1000)"`
	Status      LeaveStatus `json:"status" gorm:"type:varchar(20);index;default:PENDING"`
	ApproverID  *uint       `json:"approver_id,omitempty" gorm:"index"`
	Approver    *User       `json:"approver,omitempty" gorm:"foreignKey:ApproverID"`
	HRComments  string      `json:"hr_comments,omitempty" gorm:"type:varchar(500)"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	ApprovedAt  *time.Time  `json:"approved_at,omitempty"`
}

// Duration returns the number of leave days covered, inclusive of both ends
func (r *LeaveRequest) Duration() int {
	return DaysBetween(r.StartDate, r.EndDate)
}

// DaysBetween counts calendar days from start to end inclusive
func DaysBetween(start, end time.Time) int {
	s := start.Truncate(24 * time.Hour)
	e := end.Truncate(24 * time.Hour)
	return int(e.Sub(s).Hours()/24) + 1
}
