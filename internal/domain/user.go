package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:254;not null"`
	FirstName    string    `json:"first_name" gorm:"size:150"`
	LastName     string    `json:"last_name" gorm:"size:150"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"size:20;default:user"`
	Active       bool      `json:"-" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Per-viewer flag, filled by the service layer.
	IsSubscribed bool `json:"is_subscribed" gorm:"-"`
}

func (User) TableName() string { return "users" }

// IsStaff reports whether the user holds an elevated role.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin
}

// Subscription is a directed follow edge: UserID follows AuthorID.
// The (user, author) pair is unique; self-edges are rejected in the service.
type Subscription struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_author"`
	AuthorID  int64     `json:"author_id" gorm:"not null;index;uniqueIndex:idx_user_author"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User   *User `json:"-" gorm:"foreignKey:UserID"`
	Author *User `json:"-" gorm:"foreignKey:AuthorID"`
}

func (Subscription) TableName() string { return "subscriptions" }
