package models

// Built-in authorities seeded by the migrations.
const (
	RoleAdmin  = "ROLE_ADMIN"
	RoleUser   = "ROLE_USER"
	RoleClient = "ROLE_CLIENT"
)

// Role is a named authority granted to users.
type Role struct {
	Base
	Authority string `gorm:"size:64;uniqueIndex;not null" json:"authority"`
}

// AllAuthorities is the set of roles allowed on shared resource routes.
var AllAuthorities = []string{RoleAdmin, RoleUser, RoleClient}
