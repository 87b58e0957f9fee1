package models

// User is an application account. Accounts can be scoped to a store for the
// implementation-task assignment flow.
type User struct {
	ID            int     `json:"id" gorm:"primaryKey"`
	IDUtilisateur int     `json:"idUtilisateur" gorm:"uniqueIndex"`
	Username      string  `json:"username" gorm:"not null;uniqueIndex"`
	Email         string  `json:"email" gorm:"not null"`
	Role          string  `json:"role" gorm:"not null;default:'user'"`
	MagasinID     *string `json:"magasin_id,omitempty" gorm:"index"`
	PasswordHash  string  `json:"-" gorm:"not null"`
}

// LoginRequest carries credentials for /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the signed token and the account it belongs to.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// UserListResponse represents a list of users response.
type UserListResponse struct {
	Success bool   `json:"success"`
	Data    []User `json:"data"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
