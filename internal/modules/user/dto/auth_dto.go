package dto

import (
	"anoa.com/freelancehub/internal/entity"
	commonDto "anoa.com/freelancehub/pkg/dto"
)

type RegisterInput struct {
	Email          string   `json:"email" form:"email" binding:"required,email,max=254"`
	FullName       string   `json:"full_name" form:"full_name" binding:"required,max=100"`
	Phone          string   `json:"phone" form:"phone" binding:"required,phone"`
	Password       string   `json:"password" form:"password" binding:"required,min=8"`
	Role           string   `json:"role" form:"role" binding:"required,oneof=client freelancer"`
	Specialization string   `json:"specialization" form:"specialization" binding:"max=100"`
	JobTitle       string   `json:"job_title" form:"job_title" binding:"max=100"`
	Skills         []string `json:"skills" form:"skills"`
}

// RegisterFiles carries the optional uploads of a multipart registration.
type RegisterFiles struct {
	Photo  *commonDto.UploadedFile
	Resume *commonDto.UploadedFile
}

type RegisterResponse struct {
	Detail string       `json:"detail"`
	User   *entity.User `json:"user"`
}

type EmailInput struct {
	Email string `json:"email" form:"email" binding:"required"`
}

type ResetPasswordInput struct {
	Password string `json:"password" form:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh" binding:"required"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *entity.User `json:"user,omitempty"`
}

// Verification outcomes, also used as the status query parameter of the
// frontend redirect.
const (
	VerifySuccess         = "success"
	VerifyInvalidToken    = "invalid_token"
	VerifyExpired         = "expired"
	VerifyAlreadyVerified = "already_verified"
)

type VerifyResult struct {
	Status string
	Email  string
}
