package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// User type codes carried over from the Mallard schema.
const (
	UserTypePolicyholder = 1
	UserTypeAgent        = 2
	UserTypeAdjuster     = 3
	UserTypeAdmin        = 4
)

type User struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Username  string `json:"username" gorm:"uniqueIndex;size:50"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"-"` // Store hashed password, ignore for JSON serialization
	UserType  int    `json:"user_type"`
}

type SignupRequest struct {
	Username  string `json:"username" validate:"required,min=2,max=50"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
	UserType  int    `json:"user_type"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ValidUserType reports whether t is one of the four Mallard user types.
func ValidUserType(t int) bool {
	return t >= UserTypePolicyholder && t <= UserTypeAdmin
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
