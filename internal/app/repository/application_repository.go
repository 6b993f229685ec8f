package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/suwityarat/portfolio/internal/app/model"
)

// ApplicationRepository defines the data access contract for saved applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	Get(ctx context.Context, id string) (*model.Application, error)
	List(ctx context.Context) ([]model.ApplicationListItem, error)
	Delete(ctx context.Context, id string) error
}

type applicationRepository struct {
	kv KV
}

// NewApplicationRepository returns a KV-backed ApplicationRepository.
func NewApplicationRepository(kv KV) ApplicationRepository {
	return &applicationRepository{kv: kv}
}

func applicationKey(id string) string     { return model.ApplicationPrefix + id }
func applicationListKey(id string) string { return model.ApplicationListPrefix + id }

// Create writes the full record followed by its list-index record.
func (r *applicationRepository) Create(ctx context.Context, app *model.Application) error {
	full, err := json.Marshal(app)
	if err != nil {
		return err
	}
	if err := r.kv.Put(ctx, applicationKey(app.ID), string(full)); err != nil {
		return err
	}

	index, err := json.Marshal(model.ApplicationListItem{
		ID:        app.ID,
		Name:      app.Name,
		Company:   app.JobDetails.Company,
		Position:  app.JobDetails.Position,
		CreatedAt: app.CreatedAt,
	})
	if err != nil {
		return err
	}
	return r.kv.Put(ctx, applicationListKey(app.ID), string(index))
}

func (r *applicationRepository) Get(ctx context.Context, id string) (*model.Application, error) {
	raw, ok, err := r.kv.Get(ctx, applicationKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	var app model.Application
	if err := json.Unmarshal([]byte(raw), &app); err != nil {
		return nil, fmt.Errorf("decode application %s: %w", id, err)
	}
	return &app, nil
}

// List returns the index records, newest first.
func (r *applicationRepository) List(ctx context.Context) ([]model.ApplicationListItem, error) {
	keys, err := r.kv.List(ctx, model.ApplicationListPrefix)
	if err != nil {
		return nil, err
	}

	items := make([]model.ApplicationListItem, 0, len(keys))
	for _, key := range keys {
		raw, ok, err := r.kv.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		var item model.ApplicationListItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (r *applicationRepository) Delete(ctx context.Context, id string) error {
	return r.kv.Delete(ctx, applicationKey(id), applicationListKey(id))
}
