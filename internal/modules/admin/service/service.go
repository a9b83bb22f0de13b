package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"anoa.com/freelancehub/internal/entity"
	adminDto "anoa.com/freelancehub/internal/modules/admin/dto"
	userRepo "anoa.com/freelancehub/internal/modules/user/repository"
	"anoa.com/freelancehub/pkg/apperror"
	"anoa.com/freelancehub/pkg/validator"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectCounter is the slice of the project repository the dashboard needs.
type ProjectCounter interface {
	Count(ctx context.Context) (int64, error)
}

type AdminService interface {
	Statistics(ctx context.Context) (*adminDto.StatisticsResponse, error)
	GetAllUsers(ctx context.Context) (*adminDto.UserListResponse, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ChangeRole(ctx context.Context, id uuid.UUID, input adminDto.ChangeRoleInput) (*entity.User, error)
}

type adminService struct {
	users    userRepo.UserRepository
	projects ProjectCounter
}

func NewAdminService(users userRepo.UserRepository, projects ProjectCounter) AdminService {
	return &adminService{
		users:    users,
		projects: projects,
	}
}

func (s *adminService) Statistics(ctx context.Context) (*adminDto.StatisticsResponse, error) {
	counts, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &adminDto.StatisticsResponse{
		TotalClients:     counts[entity.RoleClient],
		TotalFreelancers: counts[entity.RoleFreelancer],
		TotalAdmins:      counts[entity.RoleAdmin],
		TotalProjects:    projects,
	}, nil
}

func (s *adminService) GetAllUsers(ctx context.Context) (*adminDto.UserListResponse, error) {
	users, err := s.users.FindAllExcludingRole(ctx, entity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*entity.User{}
	}
	return &adminDto.UserListResponse{Data: users}, nil
}

func (s *adminService) find(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == entity.RoleAdmin {
		return apperror.New(http.StatusForbidden, "administrators cannot be deleted", apperror.ErrForbidden)
	}

	if err := s.users.DeleteCascade(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *adminService) ChangeRole(ctx context.Context, id uuid.UUID, input adminDto.ChangeRoleInput) (*entity.User, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	role := entity.Role(input.Role)
	if user.Role == role {
		return user, nil
	}
	if err := s.users.UpdateRole(ctx, user, role); err != nil {
		return nil, err
	}
	return user, nil
}
