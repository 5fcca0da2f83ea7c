package model

// Account roles carried in access tokens.
const (
	RoleAdmin     = "admin"
	RoleRecruiter = "recruiter"
	RoleClient    = "client"
)
