package users

import "encoding/json"

// Account status values.
const (
	StatusActive      = "active"
	StatusDeactivated = "deactivated"
)

// Subscription status values. There is no "none" record state: a user with
// no subscription simply has a null subscription field.
const (
	SubscriptionPending = "pending"
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
)

// AuthProviderGoogle marks OAuth users. Email/password users carry no
// authProvider field at all, and that absence is what admin delete keys off
// when deciding whether to remove the provider identity.
const AuthProviderGoogle = "google"

// User is the record stored under user:{id}. Field names match the wire
// contract the browser client expects. Timestamps are RFC 3339 strings.
type User struct {
	ID             string        `json:"id"`
	Email          string        `json:"email"`
	Username       string        `json:"username"`
	PhoneNumber    string        `json:"phoneNumber,omitempty"`
	ProfilePicture string        `json:"profilePicture"`
	AccountStatus  string        `json:"accountStatus"`
	AccountCreated string        `json:"accountCreated"`
	Subscription   *Subscription `json:"subscription"`
	Settings       *Settings     `json:"settings"`
	AuthProvider   string        `json:"authProvider,omitempty"`
}

// Subscription is embedded in the user record. It is created pending and
// only an admin edit moves it to active or expired.
type Subscription struct {
	PackageID   string `json:"packageId"`
	Status      string `json:"status"`
	RequestedAt string `json:"requestedAt,omitempty"`
	ExpiryDate  string `json:"expiryDate,omitempty"`
}

// Settings is the typed per-user settings object. The only recognized field
// is the home-page theme template; unknown fields are rejected at the
// boundary rather than persisted opaquely.
type Settings struct {
	Template string `json:"template"`
}

// UpdateRequest is a partial user update. Pointer fields distinguish
// "absent" from "set"; only supplied fields overwrite stored ones.
// Subscription is raw so that an explicit null clears the field while
// absence preserves it.
type UpdateRequest struct {
	Email          *string         `json:"email,omitempty" validate:"omitempty,email"`
	Username       *string         `json:"username,omitempty"`
	PhoneNumber    *string         `json:"phoneNumber,omitempty"`
	ProfilePicture *string         `json:"profilePicture,omitempty"`
	AccountStatus  *string         `json:"accountStatus,omitempty" validate:"omitempty,oneof=active deactivated"`
	Password       *string         `json:"password,omitempty" validate:"omitempty,min=6"`
	Subscription   json.RawMessage `json:"subscription,omitempty"`
	Settings       *Settings       `json:"settings,omitempty"`
}

// Stats summarizes the user base for the admin dashboard.
type Stats struct {
	Total       int `json:"total"`
	EmailUsers  int `json:"emailUsers"`
	GoogleUsers int `json:"googleUsers"`
}

// apply merges the update onto the stored record, shallow-merge semantics:
// omitted fields survive, supplied fields overwrite, and a subscription set
// to JSON null clears the field entirely. The password is handled by the
// caller and never lands on the record.
func (u *User) apply(req UpdateRequest) error {
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = *req.PhoneNumber
	}
	if req.ProfilePicture != nil {
		u.ProfilePicture = *req.ProfilePicture
	}
	if req.AccountStatus != nil {
		u.AccountStatus = *req.AccountStatus
	}
	if req.Settings != nil {
		u.Settings = req.Settings
	}
	if len(req.Subscription) > 0 {
		if string(req.Subscription) == "null" {
			u.Subscription = nil
		} else {
			var sub Subscription
			if err := json.Unmarshal(req.Subscription, &sub); err != nil {
				return err
			}
			u.Subscription = &sub
		}
	}
	return nil
}
