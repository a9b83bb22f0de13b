package profile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"anoa.com/freelancehub/internal/entity"
	profileDto "anoa.com/freelancehub/internal/modules/profile/dto"
	userRepo "anoa.com/freelancehub/internal/modules/user/repository"
	"anoa.com/freelancehub/pkg/apperror"
	commonDto "anoa.com/freelancehub/pkg/dto"
	"anoa.com/freelancehub/pkg/storage"
	"anoa.com/freelancehub/pkg/validator"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RatingReader looks up a freelancer's merged score.
type RatingReader interface {
	FindByFreelancerID(ctx context.Context, freelancerID uuid.UUID) (*entity.Rating, error)
}

type ProfileService interface {
	GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*profileDto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input profileDto.UpdateProfileInput, files profileDto.ProfileFiles) (*profileDto.ProfileResponse, error)
	GetFreelancer(ctx context.Context, freelancerID uuid.UUID) (*profileDto.FreelancerPublicResponse, error)
}

type profileService struct {
	repo         userRepo.UserRepository
	ratings      RatingReader
	files        storage.FileStorage
	uploadFolder string
}

func NewProfileService(repo userRepo.UserRepository, ratings RatingReader, files storage.FileStorage, uploadFolder string) ProfileService {
	return &profileService{
		repo:         repo,
		ratings:      ratings,
		files:        files,
		uploadFolder: uploadFolder,
	}
}

func (s *profileService) findUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *profileService) GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*profileDto.ProfileResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(user), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input profileDto.UpdateProfileInput, files profileDto.ProfileFiles) (*profileDto.ProfileResponse, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, apperror.New(http.StatusBadRequest, "Full name is required", apperror.ErrInvalidInput)
		}
		user.FullName = name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	if profile := user.FreelancerProfile; user.IsFreelancer() && profile != nil {
		if input.Specialization != nil {
			profile.Specialization = strings.TrimSpace(*input.Specialization)
		}
		if input.JobTitle != nil {
			profile.JobTitle = strings.TrimSpace(*input.JobTitle)
		}
		if input.Skills != nil {
			profile.Skills = entity.NormalizeSkills(input.Skills)
		}
	} else if files.Resume != nil {
		return nil, apperror.New(http.StatusBadRequest, "only freelancers can upload a resume", apperror.ErrInvalidInput)
	}

	var replaced []string
	if files.Photo != nil {
		if !storage.IsImage(files.Photo.FileName) {
			return nil, apperror.New(http.StatusBadRequest, "photo must be an image", apperror.ErrInvalidInput)
		}
		url, err := s.upload(ctx, files.Photo, "photos")
		if err != nil {
			return nil, err
		}
		if user.PhotoURL != nil {
			replaced = append(replaced, *user.PhotoURL)
		}
		user.PhotoURL = &url
	}
	if files.Resume != nil {
		if !storage.IsDocument(files.Resume.FileName) {
			return nil, apperror.New(http.StatusBadRequest, "resume must be a pdf, doc or docx file", apperror.ErrInvalidInput)
		}
		url, err := s.upload(ctx, files.Resume, "resumes")
		if err != nil {
			return nil, err
		}
		if old := user.FreelancerProfile.ResumeURL; old != nil {
			replaced = append(replaced, *old)
		}
		user.FreelancerProfile.ResumeURL = &url
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	for _, url := range replaced {
		if err := s.files.DeleteFile(ctx, url); err != nil {
			log.Printf("failed to delete replaced file %s: %v", url, err)
		}
	}

	return toProfileResponse(user), nil
}

func (s *profileService) GetFreelancer(ctx context.Context, freelancerID uuid.UUID) (*profileDto.FreelancerPublicResponse, error) {
	user, err := s.findUser(ctx, freelancerID)
	if err != nil {
		return nil, err
	}
	if !user.IsFreelancer() || user.FreelancerProfile == nil {
		return nil, fmt.Errorf("freelancer not found: %w", apperror.ErrNotFound)
	}

	resp := &profileDto.FreelancerPublicResponse{
		ID:             user.ID,
		FullName:       user.FullName,
		PhotoURL:       user.PhotoURL,
		Specialization: user.FreelancerProfile.Specialization,
		JobTitle:       user.FreelancerProfile.JobTitle,
		Skills:         []string(user.FreelancerProfile.Skills),
		ResumeURL:      user.FreelancerProfile.ResumeURL,
		CreatedAt:      user.CreatedAt,
	}

	if s.ratings != nil {
		rating, err := s.ratings.FindByFreelancerID(ctx, user.ID)
		switch {
		case err == nil:
			resp.Rating = &rating.Score
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	return resp, nil
}

func (s *profileService) upload(ctx context.Context, file *commonDto.UploadedFile, folder string) (string, error) {
	if s.files == nil {
		return "", apperror.New(http.StatusServiceUnavailable, "file storage is not configured", apperror.ErrInternal)
	}
	return s.files.UploadFile(ctx, file.Reader, s.uploadFolder+"/"+folder, file.FileName)
}

func toProfileResponse(user *entity.User) *profileDto.ProfileResponse {
	resp := &profileDto.ProfileResponse{User: user}
	if user.IsFreelancer() {
		resp.FreelancerProfile = user.FreelancerProfile
	}
	return resp
}
