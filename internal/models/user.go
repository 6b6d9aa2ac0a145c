package models

import "time"

// Role controls which moderation operations an actor may perform.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsAdmin reports whether the role carries moderation privileges.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// UserModel represents an author or admin account.
type UserModel struct {
	Base
	Username      string     `json:"username" gorm:"uniqueIndex;not null"`
	Name          string     `json:"name"`
	Mail          string     `json:"mail"`
	Password      string     `json:"-"        gorm:"not null"`
	Role          Role       `json:"role"     gorm:"type:varchar(16);default:'user'"`
	TotalBlogs    int        `json:"total_blogs" gorm:"default:0"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }
