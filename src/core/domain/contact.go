package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContactInput is the raw payload a contact is built or replaced from.
// Phone carries the area code as its first two characters.
type ContactInput struct {
	Name  string
	Phone string
	Email string
}

// Contact is a person reachable by phone and email, tied to an area code.
type Contact struct {
	ID         uuid.UUID
	Name       string
	Phone      string
	AreaCodeID int
	Email      string

	// Set by the store; zero until the contact has been persisted.
	CreatedAt time.Time
	UpdatedAt time.Time

	// ValidationResult holds the outcome of the last NewContact/Update call.
	ValidationResult ValidationResult
}

// NewContact builds a contact with a fresh ID. It never fails: an invalid
// input produces a contact whose ValidationResult is not empty.
func NewContact(in ContactInput) *Contact {
	c := &Contact{ID: uuid.New()}
	c.apply(in)
	return c
}

// Update replaces name, phone and email, re-derives the area code and
// re-validates. Prior validation state is discarded.
func (c *Contact) Update(in ContactInput) {
	c.apply(in)
}

// Validate re-runs the validation rules against the current field values.
func (c *Contact) Validate() ValidationResult {
	c.ValidationResult = validateContact(c)
	return c.ValidationResult
}

func (c *Contact) apply(in ContactInput) {
	areaCode, local, _ := ParseAreaCode(strings.TrimSpace(in.Phone))

	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.TrimSpace(in.Email)
	c.AreaCodeID = areaCode
	c.Phone = local
	c.Validate()
}
