package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/suwityarat/portfolio/internal/app/model"
	"github.com/suwityarat/portfolio/internal/app/repository"
	"github.com/suwityarat/portfolio/internal/apperror"
)

// ApplicationService defines operations on saved cover-letter applications.
type ApplicationService interface {
	CreateApplication(ctx context.Context, input CreateApplicationInput) (*model.Application, error)
	GetApplication(ctx context.Context, id string) (*model.Application, error)
	ListApplications(ctx context.Context) ([]model.ApplicationListItem, error)
	DeleteApplication(ctx context.Context, id string) error
}

type applicationService struct {
	repo repository.ApplicationRepository
	now  func() time.Time
}

// NewApplicationService returns a service implementation backed by the given repository.
func NewApplicationService(repo repository.ApplicationRepository) ApplicationService {
	return &applicationService{repo: repo, now: time.Now}
}

// CreateApplicationInput captures data required to save an application.
type CreateApplicationInput struct {
	Name             string
	JobDetails       *model.JobDetails
	GeneratedContent *model.GeneratedContent
}

func (s *applicationService) CreateApplication(ctx context.Context, input CreateApplicationInput) (*model.Application, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.JobDetails == nil || input.GeneratedContent == nil {
		return nil, apperror.Validation("Missing required fields")
	}

	now := s.now().UTC()
	app := &model.Application{
		ID:               uuid.NewString(),
		Name:             name,
		JobDetails:       *input.JobDetails,
		GeneratedContent: *input.GeneratedContent,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return app, nil
}

func (s *applicationService) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	app, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Wrap(apperror.CodeNotFound, "Application not found", err)
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

func (s *applicationService) ListApplications(ctx context.Context) ([]model.ApplicationListItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return items, nil
}

func (s *applicationService) DeleteApplication(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return nil
}
