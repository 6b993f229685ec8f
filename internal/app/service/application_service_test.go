package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/suwityarat/portfolio/internal/app/model"
	"github.com/suwityarat/portfolio/internal/app/repository"
	"github.com/suwityarat/portfolio/internal/apperror"
)

type mockApplicationRepository struct {
	createFn func(ctx context.Context, app *model.Application) error
	getFn    func(ctx context.Context, id string) (*model.Application, error)
	listFn   func(ctx context.Context) ([]model.ApplicationListItem, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockApplicationRepository) Create(ctx context.Context, app *model.Application) error {
	if m.createFn != nil {
		return m.createFn(ctx, app)
	}
	return nil
}

func (m *mockApplicationRepository) Get(ctx context.Context, id string) (*model.Application, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockApplicationRepository) List(ctx context.Context) ([]model.ApplicationListItem, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockApplicationRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func sampleJob() *model.JobDetails {
	return &model.JobDetails{Company: "Acme", Position: "Backend Engineer"}
}

func sampleContent() *model.GeneratedContent {
	return &model.GeneratedContent{CoverLetter: "Dear Acme"}
}

func TestApplicationService_CreateApplication(t *testing.T) {
	var stored *model.Application
	repo := &mockApplicationRepository{
		createFn: func(ctx context.Context, app *model.Application) error {
			stored = app
			return nil
		},
	}
	svc := NewApplicationService(repo)

	app, err := svc.CreateApplication(context.Background(), CreateApplicationInput{
		Name:             " Acme backend ",
		JobDetails:       sampleJob(),
		GeneratedContent: sampleContent(),
	})
	if err != nil {
		t.Fatalf("CreateApplication returned error: %v", err)
	}
	if stored != app {
		t.Fatal("expected created application to be persisted")
	}
	if app.ID == "" || app.Name != "Acme backend" {
		t.Fatalf("unexpected application %+v", app)
	}
	if app.CreatedAt.IsZero() || !app.CreatedAt.Equal(app.UpdatedAt) {
		t.Fatalf("expected matching timestamps, got %v and %v", app.CreatedAt, app.UpdatedAt)
	}
}

func TestApplicationService_CreateApplicationMissingFields(t *testing.T) {
	called := false
	repo := &mockApplicationRepository{
		createFn: func(ctx context.Context, app *model.Application) error {
			called = true
			return nil
		},
	}
	svc := NewApplicationService(repo)

	inputs := []CreateApplicationInput{
		{JobDetails: sampleJob(), GeneratedContent: sampleContent()},
		{Name: "x", GeneratedContent: sampleContent()},
		{Name: "x", JobDetails: sampleJob()},
	}
	for i, in := range inputs {
		if _, err := svc.CreateApplication(context.Background(), in); !apperror.IsValidation(err) {
			t.Errorf("input %d: expected validation error, got %v", i, err)
		}
	}
	if called {
		t.Fatal("repository should not be called for invalid input")
	}
}

func TestApplicationService_GetApplicationNotFound(t *testing.T) {
	svc := NewApplicationService(&mockApplicationRepository{})

	_, err := svc.GetApplication(context.Background(), "missing")
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if got := apperror.MessageOf(err, ""); got != "Application not found" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestApplicationService_GetApplicationStorageError(t *testing.T) {
	repo := &mockApplicationRepository{
		getFn: func(ctx context.Context, id string) (*model.Application, error) {
			return nil, errors.New("redis down")
		},
	}
	svc := NewApplicationService(repo)

	_, err := svc.GetApplication(context.Background(), "a")
	if err == nil || apperror.IsNotFound(err) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestApplicationService_RoundTripOnMemoryKV(t *testing.T) {
	svc := NewApplicationService(repository.NewApplicationRepository(repository.NewMemoryKV()))
	ctx := context.Background()

	impl := svc.(*applicationService)
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	impl.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	}

	first, err := svc.CreateApplication(ctx, CreateApplicationInput{Name: "first", JobDetails: sampleJob(), GeneratedContent: sampleContent()})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.CreateApplication(ctx, CreateApplicationInput{Name: "second", JobDetails: sampleJob(), GeneratedContent: sampleContent()})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	items, err := svc.ListApplications(ctx)
	if err != nil {
		t.Fatalf("ListApplications: %v", err)
	}
	if len(items) != 2 || items[0].ID != second.ID || items[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", items)
	}

	got, err := svc.GetApplication(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	if got.GeneratedContent.CoverLetter != "Dear Acme" || got.JobDetails.Company != "Acme" {
		t.Fatalf("unexpected application %+v", got)
	}

	if err := svc.DeleteApplication(ctx, first.ID); err != nil {
		t.Fatalf("DeleteApplication: %v", err)
	}
	if _, err := svc.GetApplication(ctx, first.ID); !apperror.IsNotFound(err) {
		t.Fatalf("expected deleted application to be gone, got %v", err)
	}
	items, _ = svc.ListApplications(ctx)
	if len(items) != 1 || items[0].ID != second.ID {
		t.Fatalf("expected one remaining item, got %+v", items)
	}
}
