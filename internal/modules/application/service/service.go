package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"anoa.com/freelancehub/internal/entity"
	appDto "anoa.com/freelancehub/internal/modules/application/dto"
	"anoa.com/freelancehub/internal/modules/application/repository"
	notifService "anoa.com/freelancehub/internal/modules/notification/service"
	projectRepo "anoa.com/freelancehub/internal/modules/project/repository"
	userRepo "anoa.com/freelancehub/internal/modules/user/repository"
	"anoa.com/freelancehub/pkg/apperror"
	"anoa.com/freelancehub/pkg/mailer"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type Service interface {
	Submit(ctx context.Context, callerID, projectID uuid.UUID, input appDto.SubmitInput) (*appDto.ApplicationResponse, error)
	Accept(ctx context.Context, callerID, applicationID uuid.UUID) (*appDto.ApplicationResponse, error)
	Refuse(ctx context.Context, callerID, applicationID uuid.UUID) (*appDto.ApplicationResponse, error)
}

type service struct {
	repo          repository.ApplicationRepository
	projects      projectRepo.ProjectRepository
	users         userRepo.UserRepository
	notifications notifService.NotificationService
	mail          mailer.Mailer
	sanitizer     *bluemonday.Policy
}

func NewService(
	repo repository.ApplicationRepository,
	projects projectRepo.ProjectRepository,
	users userRepo.UserRepository,
	notifications notifService.NotificationService,
	mail mailer.Mailer,
) Service {
	return &service{
		repo:          repo,
		projects:      projects,
		users:         users,
		notifications: notifications,
		mail:          mail,
		sanitizer:     bluemonday.StrictPolicy(),
	}
}

var errRefusedAccept = apperror.New(http.StatusConflict, "a refused application cannot be accepted", apperror.ErrConflict)

var errAlreadyApplied = apperror.New(http.StatusConflict, "you have already applied to this project", apperror.ErrConflict)

func (s *service) Submit(ctx context.Context, callerID, projectID uuid.UUID, input appDto.SubmitInput) (*appDto.ApplicationResponse, error) {
	user, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsFreelancer() {
		return nil, apperror.New(http.StatusForbidden, "only freelancers can apply to projects", apperror.ErrForbidden)
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	message := strings.TrimSpace(s.sanitizer.Sanitize(input.Message))
	if message == "" {
		return nil, apperror.New(http.StatusBadRequest, "Message is required", apperror.ErrInvalidInput)
	}

	exists, err := s.repo.Exists(ctx, project.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errAlreadyApplied
	}

	application := &entity.Application{
		ProjectID:    project.ID,
		FreelancerID: user.ID,
		Message:      message,
		Status:       entity.ApplicationPending,
	}
	if err := s.repo.Create(ctx, application); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errAlreadyApplied
		}
		return nil, err
	}

	if _, err := s.notifications.Emit(ctx, project.ClientID, entity.NotificationNewApplication, entity.RelatedToApplication(application.ID)); err != nil {
		log.Printf("failed to notify new application %s: %v", application.ID, err)
	}

	return appDto.NewApplicationResponse(application), nil
}

func (s *service) findForOwner(ctx context.Context, callerID, applicationID uuid.UUID) (*entity.Application, error) {
	application, err := s.repo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("application not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if application.Project == nil || !application.Project.OwnedBy(callerID) {
		return nil, apperror.New(http.StatusForbidden, "only the project owner can decide on an application", apperror.ErrForbidden)
	}
	return application, nil
}

func (s *service) Accept(ctx context.Context, callerID, applicationID uuid.UUID) (*appDto.ApplicationResponse, error) {
	application, err := s.findForOwner(ctx, callerID, applicationID)
	if err != nil {
		return nil, err
	}
	if application.Status == entity.ApplicationAccepted {
		return appDto.NewApplicationResponse(application), nil
	}
	if application.Status == entity.ApplicationRefused {
		return nil, errRefusedAccept
	}

	if err := s.repo.Accept(ctx, application); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyFilled):
			return nil, apperror.New(http.StatusConflict, "another application has already been accepted for this project", apperror.ErrConflict)
		case errors.Is(err, repository.ErrAlreadyRefused):
			return nil, errRefusedAccept
		}
		return nil, err
	}

	if _, err := s.notifications.Emit(ctx, application.FreelancerID, entity.NotificationApplicationAccepted, entity.RelatedToApplication(application.ID)); err != nil {
		log.Printf("failed to notify accepted application %s: %v", application.ID, err)
	}

	if err := s.sendAcceptanceEmails(ctx, application); err != nil {
		return nil, err
	}

	return appDto.NewApplicationResponse(application), nil
}

func (s *service) sendAcceptanceEmails(ctx context.Context, application *entity.Application) error {
	client := application.Project.Client
	freelancer := application.Freelancer
	if client == nil || freelancer == nil {
		return fmt.Errorf("application %s: missing parties for acceptance emails", application.ID)
	}

	for _, msg := range []mailer.Message{
		acceptedClientEmail(client, freelancer, application.Project),
		acceptedFreelancerEmail(client, freelancer, application.Project),
	} {
		if err := s.mail.Send(ctx, msg); err != nil {
			return fmt.Errorf("send acceptance email to %s: %w", strings.Join(msg.To, ","), err)
		}
	}
	return nil
}

func (s *service) Refuse(ctx context.Context, callerID, applicationID uuid.UUID) (*appDto.ApplicationResponse, error) {
	application, err := s.findForOwner(ctx, callerID, applicationID)
	if err != nil {
		return nil, err
	}
	if application.Status == entity.ApplicationRefused {
		return appDto.NewApplicationResponse(application), nil
	}

	if err := s.repo.Refuse(ctx, application); err != nil {
		if errors.Is(err, repository.ErrAlreadyAccepted) {
			return nil, apperror.New(http.StatusConflict, "an accepted application cannot be refused", apperror.ErrConflict)
		}
		return nil, err
	}

	if _, err := s.notifications.Emit(ctx, application.FreelancerID, entity.NotificationApplicationRefused, entity.RelatedToApplication(application.ID)); err != nil {
		log.Printf("failed to notify refused application %s: %v", application.ID, err)
	}

	return appDto.NewApplicationResponse(application), nil
}
