package users

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/memberhub/memberhub-backend/pkg/kv"
)

const (
	keyPrefix = "user:"
	countKey  = "user:count"
)

// Repository persists user records in the key-value store as JSON documents
// under user:{id}, plus the user:count counter.
type Repository struct {
	store kv.Store
}

// NewRepository constructs a users repo bound to the provided store.
func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store}
}

func userKey(id string) string {
	return keyPrefix + id
}

// Find loads the record for id. A missing record returns (nil, nil).
func (r *Repository) Find(ctx context.Context, id string) (*User, error) {
	raw, ok, err := r.store.Get(ctx, userKey(id))
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	if !ok {
		return nil, nil
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	return &user, nil
}

// Save overwrites the record unconditionally. Concurrent writers to the same
// id race with last-writer-wins; there is no version check.
func (r *Repository) Save(ctx context.Context, user *User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user %s: %w", user.ID, err)
	}
	if err := r.store.Set(ctx, userKey(user.ID), string(raw)); err != nil {
		return fmt.Errorf("put user %s: %w", user.ID, err)
	}
	return nil
}

// Delete removes the record. Deleting an absent id is not an error.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, userKey(id)); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}

// List scans every user: record. The counter key shares the prefix, so
// entries that do not decode into a record with an id are dropped.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	values, err := r.store.GetByPrefix(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	records := make([]User, 0, len(values))
	for _, raw := range values {
		var user User
		if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
			continue
		}
		records = append(records, user)
	}
	return records, nil
}

// FindByEmail scans for the record with a matching email. Used by the OAuth
// signup path, which has no provider-issued id to key on.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Email == email {
			return &records[i], nil
		}
	}
	return nil, nil
}

// IncrementCount bumps the signup counter.
func (r *Repository) IncrementCount(ctx context.Context) error {
	if _, err := r.store.Incr(ctx, countKey); err != nil {
		return fmt.Errorf("increment user count: %w", err)
	}
	return nil
}

// DecrementCount lowers the counter, floored at zero. The counter is never
// reconciled against the actual record set and can drift under races.
func (r *Repository) DecrementCount(ctx context.Context) error {
	if _, err := r.store.DecrFloor(ctx, countKey); err != nil {
		return fmt.Errorf("decrement user count: %w", err)
	}
	return nil
}
