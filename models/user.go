package models

import (
	"encoding/json"
	"time"
)

// UserRole defines the two kinds of marketplace accounts
type UserRole string

const (
	RoleChef     UserRole = "chef"
	RoleCustomer UserRole = "customer"
)

// User is the canonical account shape used by every client component.
type User struct {
	ID        ID `validate:"required"`
	Name      string
	Email     string
	Phone     string
	Role      UserRole `validate:"oneof=chef customer"`
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserRecord is the user as it travels on the wire.
type UserRecord struct {
	ID             ID       `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Role           UserRole `json:"role"`
	Address        *string  `json:"address,omitempty"`
	CreatedAtSnake *string  `json:"created_at,omitempty"`
	CreatedAtCamel *string  `json:"createdAt,omitempty"`
	UpdatedAtSnake *string  `json:"updated_at,omitempty"`
	UpdatedAtCamel *string  `json:"updatedAt,omitempty"`
}

func NormalizeUser(r UserRecord) User {
	u := User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Role:      r.Role,
		CreatedAt: parseTime(pick(r.CreatedAtSnake, r.CreatedAtCamel)),
		UpdatedAt: parseTime(pick(r.UpdatedAtSnake, r.UpdatedAtCamel)),
	}
	if r.Address != nil {
		u.Address = *r.Address
	}
	return u
}

// Record returns the wire shape with both legacy aliases populated.
func (u User) Record() UserRecord {
	created := formatTime(u.CreatedAt)
	updated := formatTime(u.UpdatedAt)
	return UserRecord{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		Role:           u.Role,
		Address:        optional(u.Address),
		CreatedAtSnake: created,
		CreatedAtCamel: created,
		UpdatedAtSnake: updated,
		UpdatedAtCamel: updated,
	}
}

func (u User) IsChef() bool { return u.Role == RoleChef }

func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.Record())
}

func (u *User) UnmarshalJSON(data []byte) error {
	var r UserRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*u = NormalizeUser(r)
	return nil
}

func normalizeUserPtr(r *UserRecord) *User {
	if r == nil {
		return nil
	}
	u := NormalizeUser(*r)
	return &u
}

func userRecordPtr(u *User) *UserRecord {
	if u == nil {
		return nil
	}
	r := u.Record()
	return &r
}
