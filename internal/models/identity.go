package models

import "time"

type Role string

const (
	RoleManager        Role = "manager"
	RoleRepresentative Role = "representative"
)

// Identity is the caller resolved from an access code.
type Identity struct {
	Code  string
	Name  string
	Role  Role
	Areas []string
}

func (i Identity) IsManager() bool {
	return i.Role == RoleManager
}

type Session struct {
	ID        string    `json:"id" bson:"_id"`
	UserCode  string    `json:"userCode" bson:"userCode"`
	UserName  string    `json:"userName" bson:"userName"`
	Role      Role      `json:"role" bson:"role"`
	LoginTime time.Time `json:"loginTime" bson:"loginTime"`
	IsActive  bool      `json:"isActive" bson:"isActive"`
	Seq       int64     `json:"-" bson:"seq"`
}
