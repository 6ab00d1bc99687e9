package users

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/memberhub/memberhub-backend/pkg/errors"
)

// identityAdmin is the slice of the identity provider the user service
// needs: credential updates and identity removal.
type identityAdmin interface {
	UpdatePassword(ctx context.Context, id, password string) error
	DeleteUser(ctx context.Context, id string) error
}

// Service exposes the self-service and admin user operations.
type Service interface {
	Get(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*User, error)
	SaveSettings(ctx context.Context, id string, settings Settings) error
	Subscribe(ctx context.Context, id, packageID string) (*Subscription, error)
	ListWithStats(ctx context.Context) ([]User, Stats, error)
	AdminUpdate(ctx context.Context, id string, req UpdateRequest) (*User, error)
	AdminDelete(ctx context.Context, id string) error
}

// ServiceParams groups dependencies for the user service.
type ServiceParams struct {
	Repo     *Repository
	Identity identityAdmin
	Now      func() time.Time
}

type service struct {
	repo     *Repository
	identity identityAdmin
	now      func() time.Time
}

// NewService builds a user service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repo required")
	}
	if params.Identity == nil {
		return nil, fmt.Errorf("identity provider required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:     params.Repo,
		identity: params.Identity,
		now:      params.Now,
	}, nil
}

func (s *service) Get(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return user, nil
}

// Update shallow-merges the request onto the stored record. A supplied
// password is forwarded to the identity provider and never persisted.
func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Password != nil && *req.Password != "" {
		if err := s.identity.UpdatePassword(ctx, id, *req.Password); err != nil {
			return nil, err
		}
	}

	if err := user.apply(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid subscription payload")
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save user")
	}
	return user, nil
}

// SaveSettings replaces the settings object wholesale; it is not merged
// field by field.
func (s *service) SaveSettings(ctx context.Context, id string, settings Settings) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	user.Settings = &settings
	if err := s.repo.Save(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save settings")
	}
	return nil
}

// Subscribe overwrites any prior subscription with a fresh pending request.
// Activation is an admin decision, not an automatic transition.
func (s *service) Subscribe(ctx context.Context, id, packageID string) (*Subscription, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	subscription := &Subscription{
		PackageID:   packageID,
		Status:      SubscriptionPending,
		RequestedAt: s.now().UTC().Format(time.RFC3339),
	}
	user.Subscription = subscription
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save subscription")
	}
	return subscription, nil
}

func (s *service) ListWithStats(ctx context.Context) ([]User, Stats, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	stats := Stats{Total: len(records)}
	for _, user := range records {
		if user.AuthProvider == AuthProviderGoogle {
			stats.GoogleUsers++
		} else {
			stats.EmailUsers++
		}
	}
	return records, stats, nil
}

// AdminUpdate applies the same merge semantics as Update against an
// arbitrary target id.
func (s *service) AdminUpdate(ctx context.Context, id string, req UpdateRequest) (*User, error) {
	return s.Update(ctx, id, req)
}

// AdminDelete removes the provider identity (email users only — OAuth users
// have no admin-managed credential there), then the record, then lowers the
// counter. An absent record still clears the key and bumps the counter
// down, matching the at-most-once delete semantics of the store.
func (s *service) AdminDelete(ctx context.Context, id string) error {
	user, err := s.repo.Find(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if user != nil && user.AuthProvider == "" {
		if err := s.identity.DeleteUser(ctx, id); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	if err := s.repo.DecrementCount(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement user count")
	}
	return nil
}
