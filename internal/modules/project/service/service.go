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
	appRepo "anoa.com/freelancehub/internal/modules/application/repository"
	notifService "anoa.com/freelancehub/internal/modules/notification/service"
	projectDto "anoa.com/freelancehub/internal/modules/project/dto"
	"anoa.com/freelancehub/internal/modules/project/repository"
	userRepo "anoa.com/freelancehub/internal/modules/user/repository"
	"anoa.com/freelancehub/pkg/apperror"
	commonDto "anoa.com/freelancehub/pkg/dto"
	"anoa.com/freelancehub/pkg/validator"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// RatingLookup returns the merged score of each freelancer that has one.
type RatingLookup interface {
	FindScores(ctx context.Context, freelancerIDs []uuid.UUID) (map[uuid.UUID]float64, error)
}

type Service interface {
	Create(ctx context.Context, callerID uuid.UUID, input projectDto.ProjectInput) (*projectDto.ProjectResponse, error)
	ListOpen(ctx context.Context, q commonDto.PageQuery) (*projectDto.ProjectListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*projectDto.ProjectResponse, error)
	Update(ctx context.Context, callerID, id uuid.UUID, input projectDto.ProjectInput) (*projectDto.ProjectResponse, error)
	Delete(ctx context.Context, callerID, id uuid.UUID) error
	Cancel(ctx context.Context, callerID, id uuid.UUID) error
	ForceDelete(ctx context.Context, callerID, id uuid.UUID) error
	ListForUser(ctx context.Context, callerID, userID uuid.UUID) ([]projectDto.ProjectResponse, error)
	ClientProjects(ctx context.Context, callerID uuid.UUID) ([]projectDto.ClientProjectResponse, error)
	AcceptedFreelancer(ctx context.Context, callerID, projectID uuid.UUID) (*projectDto.Applicant, error)
}

type service struct {
	repo          repository.ProjectRepository
	applications  appRepo.ApplicationRepository
	users         userRepo.UserRepository
	ratings       RatingLookup
	notifications notifService.NotificationService
	sanitizer     *bluemonday.Policy
}

func NewService(
	repo repository.ProjectRepository,
	applications appRepo.ApplicationRepository,
	users userRepo.UserRepository,
	ratings RatingLookup,
	notifications notifService.NotificationService,
) Service {
	return &service{
		repo:          repo,
		applications:  applications,
		users:         users,
		ratings:       ratings,
		notifications: notifications,
		sanitizer:     bluemonday.StrictPolicy(),
	}
}

func (s *service) caller(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return project, nil
}

func (s *service) findOwned(ctx context.Context, callerID, id uuid.UUID) (*entity.Project, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.OwnedBy(callerID) {
		return nil, apperror.New(http.StatusForbidden, "only the project owner can do this", apperror.ErrForbidden)
	}
	return project, nil
}

func (s *service) apply(project *entity.Project, input projectDto.ProjectInput) error {
	if err := validator.Validate(input); err != nil {
		return err
	}
	deadline, err := time.Parse(projectDto.DateLayout, input.Deadline)
	if err != nil {
		return apperror.New(http.StatusBadRequest, "Deadline must be a date formatted as YYYY-MM-DD", apperror.ErrInvalidInput)
	}

	title := strings.TrimSpace(s.sanitizer.Sanitize(input.Title))
	description := strings.TrimSpace(s.sanitizer.Sanitize(input.Description))
	if title == "" || description == "" {
		return apperror.New(http.StatusBadRequest, "Title and description are required", apperror.ErrInvalidInput)
	}

	project.Title = title
	project.Description = description
	project.BudgetMin = input.BudgetMin
	project.BudgetMax = input.BudgetMax
	project.Deadline = deadline
	project.RequiredSkills = entity.NormalizeSkills(input.RequiredSkills)
	return nil
}

func (s *service) Create(ctx context.Context, callerID uuid.UUID, input projectDto.ProjectInput) (*projectDto.ProjectResponse, error) {
	user, err := s.caller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if user.Role != entity.RoleClient {
		return nil, apperror.New(http.StatusForbidden, "only clients can publish projects", apperror.ErrForbidden)
	}

	project := &entity.Project{ClientID: user.ID}
	if err := s.apply(project, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	project.Client = user

	if _, err := s.notifications.Emit(ctx, user.ID, entity.NotificationProjectPublished, entity.RelatedToProject(project.ID)); err != nil {
		log.Printf("failed to notify project %s publication: %v", project.ID, err)
	}

	return toProjectResponse(project), nil
}

func (s *service) ListOpen(ctx context.Context, q commonDto.PageQuery) (*projectDto.ProjectListResponse, error) {
	offset := q.Normalize()
	projects, total, err := s.repo.FindOpen(ctx, q.Limit, offset)
	if err != nil {
		return nil, err
	}

	return &projectDto.ProjectListResponse{
		Data: toProjectResponses(projects),
		Meta: commonDto.NewPaginationMeta(q, total),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*projectDto.ProjectResponse, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *service) Update(ctx context.Context, callerID, id uuid.UUID, input projectDto.ProjectInput) (*projectDto.ProjectResponse, error) {
	project, err := s.findOwned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(project, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *service) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.findOwned(ctx, callerID, id); err != nil {
		return err
	}
	return s.forceDelete(ctx, id)
}

func (s *service) Cancel(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.findOwned(ctx, callerID, id); err != nil {
		return err
	}

	err := s.repo.DeleteIfUnfilled(ctx, id)
	switch {
	case errors.Is(err, repository.ErrProjectFilled):
		return apperror.New(http.StatusConflict, "a project with an accepted application cannot be cancelled", apperror.ErrConflict)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("project not found: %w", apperror.ErrNotFound)
	}
	return err
}

func (s *service) ForceDelete(ctx context.Context, callerID, id uuid.UUID) error {
	project, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !project.OwnedBy(callerID) {
		user, err := s.caller(ctx, callerID)
		if err != nil {
			return err
		}
		if user.Role != entity.RoleAdmin {
			return apperror.New(http.StatusForbidden, "only the project owner or an administrator can delete this project", apperror.ErrForbidden)
		}
	}
	return s.forceDelete(ctx, id)
}

func (s *service) forceDelete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.ForceDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("project not found: %w", apperror.ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *service) ListForUser(ctx context.Context, callerID, userID uuid.UUID) ([]projectDto.ProjectResponse, error) {
	if callerID != userID {
		caller, err := s.caller(ctx, callerID)
		if err != nil {
			return nil, err
		}
		if caller.Role != entity.RoleAdmin {
			return nil, apperror.New(http.StatusForbidden, "you can only list your own projects", apperror.ErrForbidden)
		}
	}

	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	var projects []*entity.Project
	switch target.Role {
	case entity.RoleClient:
		projects, err = s.repo.FindByClientID(ctx, target.ID)
	case entity.RoleFreelancer:
		projects, err = s.repo.FindAppliedByFreelancer(ctx, target.ID)
	}
	if err != nil {
		return nil, err
	}
	return toProjectResponses(projects), nil
}

func (s *service) ClientProjects(ctx context.Context, callerID uuid.UUID) ([]projectDto.ClientProjectResponse, error) {
	user, err := s.caller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if user.Role != entity.RoleClient {
		return nil, apperror.New(http.StatusForbidden, "only clients have projects", apperror.ErrForbidden)
	}

	projects, err := s.repo.FindByClientIDWithApplications(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var freelancerIDs []uuid.UUID
	for _, p := range projects {
		for _, a := range p.Applications {
			freelancerIDs = append(freelancerIDs, a.FreelancerID)
		}
	}
	scores, err := s.scores(ctx, freelancerIDs)
	if err != nil {
		return nil, err
	}

	out := make([]projectDto.ClientProjectResponse, 0, len(projects))
	for _, p := range projects {
		item := projectDto.ClientProjectResponse{
			ProjectResponse: *toProjectResponse(p),
			Applications:    make([]projectDto.ApplicationSummary, 0, len(p.Applications)),
		}
		for _, a := range p.Applications {
			if a.Freelancer == nil {
				continue
			}
			item.Applications = append(item.Applications, projectDto.ApplicationSummary{
				ID:          a.ID,
				Status:      a.Status,
				Message:     a.Message,
				SubmittedAt: a.SubmittedAt,
				Freelancer:  toApplicant(a.Freelancer, scores, a.Status == entity.ApplicationAccepted),
			})
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *service) AcceptedFreelancer(ctx context.Context, callerID, projectID uuid.UUID) (*projectDto.Applicant, error) {
	if _, err := s.findOwned(ctx, callerID, projectID); err != nil {
		return nil, err
	}

	accepted, err := s.applications.FindAcceptedByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusBadRequest, "no freelancer has been accepted for this project yet", apperror.ErrInvalidInput)
		}
		return nil, err
	}

	scores, err := s.scores(ctx, []uuid.UUID{accepted.FreelancerID})
	if err != nil {
		return nil, err
	}
	applicant := toApplicant(accepted.Freelancer, scores, true)
	return &applicant, nil
}

func (s *service) scores(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]float64, error) {
	if s.ratings == nil || len(ids) == 0 {
		return map[uuid.UUID]float64{}, nil
	}
	return s.ratings.FindScores(ctx, ids)
}

func toProjectResponse(p *entity.Project) *projectDto.ProjectResponse {
	resp := &projectDto.ProjectResponse{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		BudgetMin:      p.BudgetMin,
		BudgetMax:      p.BudgetMax,
		Deadline:       p.Deadline.Format(projectDto.DateLayout),
		RequiredSkills: []string(p.RequiredSkills),
		CreatedAt:      p.CreatedAt,
	}
	if resp.RequiredSkills == nil {
		resp.RequiredSkills = []string{}
	}
	if p.Client != nil {
		resp.Client = &projectDto.ClientSummary{
			ID:       p.Client.ID,
			FullName: p.Client.FullName,
			PhotoURL: p.Client.PhotoURL,
		}
	}
	return resp
}

func toProjectResponses(projects []*entity.Project) []projectDto.ProjectResponse {
	out := make([]projectDto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, *toProjectResponse(p))
	}
	return out
}

func toApplicant(u *entity.User, scores map[uuid.UUID]float64, withContact bool) projectDto.Applicant {
	a := projectDto.Applicant{
		ID:       u.ID,
		FullName: u.FullName,
		PhotoURL: u.PhotoURL,
		Skills:   []string{},
	}
	if withContact {
		a.Email = u.Email
		a.Phone = u.Phone
	}
	if p := u.FreelancerProfile; p != nil {
		a.Specialization = p.Specialization
		a.JobTitle = p.JobTitle
		a.ResumeURL = p.ResumeURL
		if len(p.Skills) > 0 {
			a.Skills = []string(p.Skills)
		}
	}
	if score, ok := scores[u.ID]; ok {
		a.Rating = &score
	}
	return a
}
