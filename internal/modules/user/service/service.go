package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"anoa.com/freelancehub/internal/entity"
	"anoa.com/freelancehub/internal/modules/user/dto"
	"anoa.com/freelancehub/internal/modules/user/repository"
	"anoa.com/freelancehub/pkg/apperror"
	commonDto "anoa.com/freelancehub/pkg/dto"
	"anoa.com/freelancehub/pkg/jwtauth"
	"anoa.com/freelancehub/pkg/mailer"
	"anoa.com/freelancehub/pkg/storage"
	"anoa.com/freelancehub/pkg/token"
	"anoa.com/freelancehub/pkg/validator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	detailResetRequested = "If this email exists, a password reset link has been sent."
	detailResent         = "A new verification link has been sent to your email address."
	detailPasswordReset  = "Password reset successfully."
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput, files dto.RegisterFiles) (*dto.RegisterResponse, error)
	Verify(ctx context.Context, presented string) (*dto.VerifyResult, error)
	ResendVerification(ctx context.Context, email string) (*commonDto.MessageResponse, error)
	RequestPasswordReset(ctx context.Context, email string) (*commonDto.MessageResponse, error)
	CheckResetToken(ctx context.Context, presented string) error
	ResetPassword(ctx context.Context, presented string, input dto.ResetPasswordInput) (*commonDto.MessageResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	PurgeExpiredResetTokens(ctx context.Context) (int64, error)
}

// Settings are the lifecycle knobs read from configuration.
type Settings struct {
	VerificationTTL time.Duration
	ResetTTL        time.Duration
	PublicBaseURL   string
	FrontendURL     string
	UploadFolder    string
}

type authService struct {
	repo     repository.UserRepository
	files    storage.FileStorage
	mail     mailer.Mailer
	tokens   *token.Issuer
	signer   *jwtauth.Signer
	settings Settings
}

func NewAuthService(
	repo repository.UserRepository,
	files storage.FileStorage,
	mail mailer.Mailer,
	tokens *token.Issuer,
	signer *jwtauth.Signer,
	settings Settings,
) AuthService {
	return &authService{
		repo:     repo,
		files:    files,
		mail:     mail,
		tokens:   tokens,
		signer:   signer,
		settings: settings,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput, files dto.RegisterFiles) (*dto.RegisterResponse, error) {
	input.Email = normalizeEmail(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.New(http.StatusBadRequest, "a user with this email already exists", apperror.ErrInvalidInput)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := entity.Role(input.Role)
	if files.Resume != nil && (role != entity.RoleFreelancer || !storage.IsDocument(files.Resume.FileName)) {
		return nil, apperror.New(http.StatusBadRequest, "resume must be a pdf, doc or docx file uploaded by a freelancer", apperror.ErrInvalidInput)
	}
	if files.Photo != nil && !storage.IsImage(files.Photo.FileName) {
		return nil, apperror.New(http.StatusBadRequest, "photo must be an image", apperror.ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	verification, expiresAt, err := s.tokens.Issue(s.settings.VerificationTTL)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:                 input.Email,
		FullName:              input.FullName,
		Phone:                 input.Phone,
		PasswordHash:          string(hashed),
		Role:                  role,
		VerificationToken:     &verification,
		VerificationExpiresAt: &expiresAt,
	}
	if role == entity.RoleFreelancer {
		user.FreelancerProfile = &entity.FreelancerProfile{
			Specialization: strings.TrimSpace(input.Specialization),
			JobTitle:       strings.TrimSpace(input.JobTitle),
			Skills:         entity.NormalizeSkills(input.Skills),
		}
	}

	var uploaded []string
	if files.Photo != nil {
		url, err := s.upload(ctx, files.Photo, "photos")
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, url)
		user.PhotoURL = &url
	}
	if files.Resume != nil {
		url, err := s.upload(ctx, files.Resume, "resumes")
		if err != nil {
			s.discard(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, url)
		user.FreelancerProfile.ResumeURL = &url
	}

	err = s.repo.Create(ctx, user, func(ctx context.Context, created *entity.User) error {
		return s.mail.Send(ctx, activationEmail(created, s.verificationLink(verification)))
	})
	if err != nil {
		s.discard(ctx, uploaded)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(http.StatusBadRequest, "a user with this email already exists", apperror.ErrInvalidInput)
		}
		return nil, fmt.Errorf("register %s: %w", user.Email, err)
	}

	return &dto.RegisterResponse{
		Detail: "Account created. Check your email to activate it.",
		User:   user,
	}, nil
}

func (s *authService) Verify(ctx context.Context, presented string) (*dto.VerifyResult, error) {
	if presented == "" {
		return &dto.VerifyResult{Status: dto.VerifyInvalidToken}, apperror.ErrInvalidToken
	}

	user, err := s.repo.FindByVerificationToken(ctx, presented)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.VerifyResult{Status: dto.VerifyInvalidToken}, fmt.Errorf("verification token not found: %w", apperror.ErrInvalidToken)
		}
		return nil, err
	}

	result := &dto.VerifyResult{Email: user.Email}
	if user.IsActive {
		result.Status = dto.VerifyAlreadyVerified
		return result, nil
	}

	switch token.Validate(user.VerificationToken, user.VerificationExpiresAt, presented, s.tokens.Now()) {
	case token.Expired:
		if err := s.reissueVerification(ctx, user, true); err != nil {
			return nil, err
		}
		result.Status = dto.VerifyExpired
		return result, fmt.Errorf("verification token expired: %w", apperror.ErrExpiredToken)
	case token.Valid:
	default:
		return &dto.VerifyResult{Status: dto.VerifyInvalidToken}, apperror.ErrInvalidToken
	}

	user.IsActive = true
	user.VerificationToken = nil
	user.VerificationExpiresAt = nil
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	result.Status = dto.VerifySuccess
	return result, nil
}

func (s *authService) ResendVerification(ctx context.Context, email string) (*commonDto.MessageResponse, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperror.New(http.StatusBadRequest, "email is required", apperror.ErrInvalidInput)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &commonDto.MessageResponse{Detail: detailResent}, nil
		}
		return nil, err
	}

	if user.IsActive {
		return nil, apperror.New(http.StatusConflict, "this account is already verified", apperror.ErrConflict)
	}

	if err := s.reissueVerification(ctx, user, false); err != nil {
		return nil, err
	}
	return &commonDto.MessageResponse{Detail: detailResent}, nil
}

// reissueVerification replaces the verification token and mails the new link.
func (s *authService) reissueVerification(ctx context.Context, user *entity.User, expired bool) error {
	fresh, expiresAt, err := s.tokens.Issue(s.settings.VerificationTTL)
	if err != nil {
		return err
	}
	user.VerificationToken = &fresh
	user.VerificationExpiresAt = &expiresAt
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	msg := resendEmail(user, s.verificationLink(fresh))
	if expired {
		msg = expiredVerificationEmail(user, s.verificationLink(fresh))
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("send verification email to %s: %w", user.Email, err)
	}
	return nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) (*commonDto.MessageResponse, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperror.New(http.StatusBadRequest, "email is required", apperror.ErrInvalidInput)
	}

	uniform := &commonDto.MessageResponse{Detail: detailResetRequested}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uniform, nil
		}
		return nil, err
	}

	reset, expiresAt, err := s.tokens.Issue(s.settings.ResetTTL)
	if err != nil {
		return nil, err
	}
	user.ResetToken = &reset
	user.ResetExpiresAt = &expiresAt
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	// A failed send must not reveal that the account exists.
	if err := s.mail.Send(ctx, resetRequestEmail(user, s.resetLink(reset))); err != nil {
		log.Printf("failed to send reset email to %s: %v", user.Email, err)
	}
	return uniform, nil
}

func (s *authService) findByValidResetToken(ctx context.Context, presented string) (*entity.User, error) {
	if presented == "" {
		return nil, apperror.ErrInvalidToken
	}
	user, err := s.repo.FindByResetToken(ctx, presented)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reset token not found: %w", apperror.ErrInvalidToken)
		}
		return nil, err
	}
	if token.Validate(user.ResetToken, user.ResetExpiresAt, presented, s.tokens.Now()) != token.Valid {
		return nil, fmt.Errorf("reset token expired: %w", apperror.ErrInvalidToken)
	}
	return user, nil
}

func (s *authService) CheckResetToken(ctx context.Context, presented string) error {
	_, err := s.findByValidResetToken(ctx, presented)
	return err
}

func (s *authService) ResetPassword(ctx context.Context, presented string, input dto.ResetPasswordInput) (*commonDto.MessageResponse, error) {
	user, err := s.findByValidResetToken(ctx, presented)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hashed)
	user.ResetToken = nil
	user.ResetExpiresAt = nil
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.mail.Send(ctx, passwordChangedEmail(user)); err != nil {
		return nil, fmt.Errorf("send password confirmation to %s: %w", user.Email, err)
	}
	return &commonDto.MessageResponse{Detail: detailPasswordReset, Status: "success"}, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusUnauthorized, "invalid credentials", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "invalid credentials", apperror.ErrUnauthorized)
	}

	if !user.IsActive {
		return nil, apperror.New(http.StatusForbidden, "account not activated", apperror.ErrForbidden)
	}

	return s.buildAuthResponse(user, true)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.signer.Parse(refreshToken, jwtauth.TypeRefresh)
	if err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "invalid or expired refresh token", apperror.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "invalid or expired refresh token", apperror.ErrUnauthorized)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusUnauthorized, "user no longer exists", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	return s.buildAuthResponse(user, false)
}

func (s *authService) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	return s.repo.ClearExpiredResetTokens(ctx, s.tokens.Now())
}

func (s *authService) buildAuthResponse(user *entity.User, withRefresh bool) (*dto.AuthResponse, error) {
	access, refresh, err := s.signer.Pair(user.ID.String(), string(user.Role))
	if err != nil {
		return nil, err
	}

	resp := &dto.AuthResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.signer.AccessTTL().Seconds()),
		User:        user,
	}
	if withRefresh {
		resp.RefreshToken = refresh
	}
	return resp, nil
}

func (s *authService) upload(ctx context.Context, file *commonDto.UploadedFile, folder string) (string, error) {
	if s.files == nil {
		return "", apperror.New(http.StatusServiceUnavailable, "file storage is not configured", apperror.ErrInternal)
	}
	return s.files.UploadFile(ctx, file.Reader, s.settings.UploadFolder+"/"+folder, file.FileName)
}

func (s *authService) discard(ctx context.Context, urls []string) {
	if s.files == nil {
		return
	}
	for _, url := range urls {
		if err := s.files.DeleteFile(ctx, url); err != nil {
			log.Printf("failed to delete orphan upload %s: %v", url, err)
		}
	}
}

func (s *authService) verificationLink(tok string) string {
	return strings.TrimRight(s.settings.PublicBaseURL, "/") + "/api/users/verify/" + tok
}

func (s *authService) resetLink(tok string) string {
	return strings.TrimRight(s.settings.FrontendURL, "/") + "/reset-password/" + tok
}
