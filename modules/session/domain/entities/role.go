package entities

import (
	"github.com/coachtranscribe/engine/seedwork/domain"
)

// Role is the speaker attribution applied on export (spec.md §4.8).
type Role string

const (
	RoleCoach   Role = "coach"
	RoleClient  Role = "client"
	RoleUnknown Role = "unknown"
)

// ParseRole validates an incoming role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCoach, RoleClient:
		return Role(s), nil
	default:
		return "", domain.NewDomainError(domain.CodeInvalidFormat, "role must be \"coach\" or \"client\"", nil)
	}
}

// SessionRole assigns a role to every segment from a given speaker in a
// Session, unless overridden by a SegmentRole (spec.md §3, §4.8). At most
// one row per (Session, speaker_id).
type SessionRole struct {
	domain.BaseEntity
	SessionID string `json:"session_id" gorm:"column:session_id;not null;uniqueIndex:idx_session_speaker"`
	SpeakerID int    `json:"speaker_id" gorm:"column:speaker_id;not null;uniqueIndex:idx_session_speaker"`
	Role      Role   `json:"role" gorm:"column:role;not null"`
}

// TableName sets the table name for GORM.
func (SessionRole) TableName() string {
	return "session_roles"
}

// NewSessionRole builds a SessionRole override row.
func NewSessionRole(sessionID string, speakerID int, role Role) SessionRole {
	r := SessionRole{SessionID: sessionID, SpeakerID: speakerID, Role: role}
	r.SetID(domain.GenerateID())
	return r
}

// SegmentRole assigns a role to one specific segment, taking precedence
// over any SessionRole for the same speaker (spec.md §4.8). At most one
// row per segment.
type SegmentRole struct {
	domain.BaseEntity
	SessionID string `json:"session_id" gorm:"column:session_id;not null;index"`
	SegmentID string `json:"segment_id" gorm:"column:segment_id;not null;uniqueIndex"`
	Role      Role   `json:"role" gorm:"column:role;not null"`
}

// TableName sets the table name for GORM.
func (SegmentRole) TableName() string {
	return "segment_roles"
}

// NewSegmentRole builds a SegmentRole override row.
func NewSegmentRole(sessionID, segmentID string, role Role) SegmentRole {
	r := SegmentRole{SessionID: sessionID, SegmentID: segmentID, Role: role}
	r.SetID(domain.GenerateID())
	return r
}

// EffectiveRole resolves SegmentRole preferred, else SessionRole, else
// unknown (spec.md §4.8).
func EffectiveRole(segmentID string, speakerID int, segmentRoles map[string]Role, sessionRoles map[int]Role) Role {
	if r, ok := segmentRoles[segmentID]; ok {
		return r
	}
	if r, ok := sessionRoles[speakerID]; ok {
		return r
	}
	return RoleUnknown
}
