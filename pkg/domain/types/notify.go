package types

import "github.com/google/uuid"

// NoticeID represents a unique identifier for an in-app notice
type NoticeID string

func (x NoticeID) String() string {
	return string(x)
}

func NewNoticeID() NoticeID {
	return NoticeID(uuid.New().String())
}

const (
	EmptyNoticeID NoticeID = ""
)

type PolicyID string

func (x PolicyID) String() string {
	return string(x)
}

func NewPolicyID() PolicyID {
	return PolicyID(uuid.New().String())
}

const (
	EmptyPolicyID PolicyID = ""
)

// UserID identifies a crew member in the roster
type UserID string

func (x UserID) String() string {
	return string(x)
}

const (
	EmptyUserID UserID = ""
)

// RoleID is a named category of personnel, e.g. "supervisor" or "admin"
type RoleID string

func (x RoleID) String() string {
	return string(x)
}

// ChannelID names a notification delivery mechanism. Channel identifiers not
// known to the engine are ignored for forward compatibility.
type ChannelID string

const (
	ChannelPush  ChannelID = "push"
	ChannelEmail ChannelID = "email"
	ChannelSlack ChannelID = "slack"
)

func (x ChannelID) String() string {
	return string(x)
}
