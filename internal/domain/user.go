package domain

import "time"

type UserRole string

const (
	RoleClient  UserRole = "client"
	RoleAdvisor UserRole = "advisor"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Role              UserRole  `json:"role"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone,omitempty"`
	AvatarURL         string    `json:"avatar_url,omitempty"`
	AssignedAdvisorID *int64    `json:"assigned_advisor_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (u *User) IsAdvisor() bool { return u.Role == RoleAdvisor }

func (u *User) IsClient() bool { return u.Role == RoleClient }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
