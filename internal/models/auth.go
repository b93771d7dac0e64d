package models

import "github.com/golang-jwt/jwt/v5"

// Portal roles.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// JWTClaims is the token payload issued after a successful login.
type JWTClaims struct {
	InstituteCode string `json:"instituteCode"`
	Role          string `json:"role"`
	Username      string `json:"username"`
	Name          string `json:"name,omitempty"`
	TeacherID     string `json:"teacherId,omitempty"`
	jwt.RegisteredClaims
}

// InstituteLoginRequest authenticates an institute by code and shared password.
type InstituteLoginRequest struct {
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest authenticates a portal user within an institute.
type LoginRequest struct {
	Institute string `json:"institute" binding:"required"`
	Role      string `json:"role" binding:"required,oneof=admin teacher student"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// UserInfo is the public profile returned alongside a token.
type UserInfo struct {
	Username      string `json:"username"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	InstituteCode string `json:"instituteCode"`
	InstituteName string `json:"instituteName"`
	TeacherID     string `json:"teacherId,omitempty"`
}

// LoginResponse carries the issued token and the authenticated profile.
type LoginResponse struct {
	AccessToken string   `json:"accessToken"`
	TokenType   string   `json:"tokenType"`
	ExpiresIn   int64    `json:"expiresIn"`
	User        UserInfo `json:"user"`
}
