// Package content manages the published content library.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/memberhub/memberhub-backend/pkg/errors"
	"github.com/memberhub/memberhub-backend/pkg/kv"
)

const keyPrefix = "content:"

// Item is a published content entry. Instructions are optional member-only
// material attached by the admin at publish time.
type Item struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ImageURL     string `json:"imageUrl,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	PublishedAt  string `json:"publishedAt"`
}

// PublishRequest is the admin publish payload. The id and publish timestamp
// are assigned server-side.
type PublishRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	ImageURL     string `json:"imageUrl"`
	Instructions string `json:"instructions"`
}

// Service exposes the library reads and admin writes.
type Service interface {
	List(ctx context.Context) ([]Item, error)
	Publish(ctx context.Context, req PublishRequest) (*Item, error)
	Delete(ctx context.Context, id string) error
}

// ServiceParams groups dependencies for the content service.
type ServiceParams struct {
	Store kv.Store
	Now   func() time.Time
}

type service struct {
	store kv.Store
	now   func() time.Time
}

// NewService builds a content service over the given store.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{store: params.Store, now: params.Now}, nil
}

func contentKey(id string) string {
	return keyPrefix + id
}

func (s *service) List(ctx context.Context) ([]Item, error) {
	values, err := s.store.GetByPrefix(ctx, keyPrefix)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan content")
	}
	items := make([]Item, 0, len(values))
	for _, raw := range values {
		var item Item
		if err := json.Unmarshal([]byte(raw), &item); err != nil || item.ID == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Publish assigns a timestamp-derived id and stamps publishedAt.
func (s *service) Publish(ctx context.Context, req PublishRequest) (*Item, error) {
	now := s.now()
	item := &Item{
		ID:           fmt.Sprintf("content_%d", now.UnixMilli()),
		Title:        req.Title,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Instructions: req.Instructions,
		PublishedAt:  now.UTC().Format(time.RFC3339),
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode content")
	}
	if err := s.store.Set(ctx, contentKey(item.ID), string(raw)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write content")
	}
	return item, nil
}

// Delete removes the entry unconditionally; deleting an unknown id is not an
// error.
func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.store.Del(ctx, contentKey(id)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete content")
	}
	return nil
}
