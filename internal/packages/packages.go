// Package packages manages the subscription tier catalog. The catalog is
// tiny and addressed by well-known ids, so reads are point lookups rather
// than prefix scans.
package packages

import (
	"context"
	"encoding/json"
	"fmt"

	pkgerrors "github.com/memberhub/memberhub-backend/pkg/errors"
	"github.com/memberhub/memberhub-backend/pkg/kv"
)

const keyPrefix = "package:"

// wellKnownIDs fixes the catalog order for listings.
var wellKnownIDs = []string{"pkg1", "pkg2", "pkg3"}

// Package is a subscription tier. Price is a display string, not an amount;
// billing happens outside this system.
type Package struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"imageUrl"`
}

// UpsertRequest is the admin catalog write payload.
type UpsertRequest struct {
	PackageID   string `json:"packageId" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"imageUrl"`
}

var defaults = []Package{
	{ID: "pkg1", Title: "Basic Package", Description: "Perfect for individuals starting out", Price: "$9.99/month"},
	{ID: "pkg2", Title: "Professional Package", Description: "Ideal for growing teams and businesses", Price: "$19.99/month"},
	{ID: "pkg3", Title: "Enterprise Package", Description: "Full-featured solution for large organizations", Price: "$49.99/month"},
}

// Service exposes catalog reads and admin writes.
type Service interface {
	EnsureDefaults(ctx context.Context) error
	List(ctx context.Context) ([]Package, error)
	Upsert(ctx context.Context, req UpsertRequest) error
}

type service struct {
	store kv.Store
}

// NewService builds a package catalog service over the given store.
func NewService(store kv.Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store required")
	}
	return &service{store: store}, nil
}

func packageKey(id string) string {
	return keyPrefix + id
}

// EnsureDefaults seeds the three stock tiers, skipping any id that already
// has a record so admin edits survive re-initialization.
func (s *service) EnsureDefaults(ctx context.Context) error {
	for _, pkg := range defaults {
		_, ok, err := s.store.Get(ctx, packageKey(pkg.ID))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read package")
		}
		if ok {
			continue
		}
		if err := s.save(ctx, pkg); err != nil {
			return err
		}
	}
	return nil
}

// List returns the well-known tiers in catalog order, skipping absent ones.
func (s *service) List(ctx context.Context) ([]Package, error) {
	result := make([]Package, 0, len(wellKnownIDs))
	for _, id := range wellKnownIDs {
		raw, ok, err := s.store.Get(ctx, packageKey(id))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read package")
		}
		if !ok {
			continue
		}
		var pkg Package
		if err := json.Unmarshal([]byte(raw), &pkg); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode package")
		}
		result = append(result, pkg)
	}
	return result, nil
}

// Upsert overwrites the tier unconditionally, including the seeded ones.
func (s *service) Upsert(ctx context.Context, req UpsertRequest) error {
	return s.save(ctx, Package{
		ID:          req.PackageID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
}

func (s *service) save(ctx context.Context, pkg Package) error {
	raw, err := json.Marshal(pkg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode package")
	}
	if err := s.store.Set(ctx, packageKey(pkg.ID), string(raw)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write package")
	}
	return nil
}
