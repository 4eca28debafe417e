package dto

import (
	"time"

	"contactsapi/src/core/domain"
)

// ContactRequest is the payload for creating or replacing a contact.
// Phone includes the two-digit area code, e.g. "11987654321".
type ContactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (r ContactRequest) ToInput() domain.ContactInput {
	return domain.ContactInput{
		Name:  r.Name,
		Phone: r.Phone,
		Email: r.Email,
	}
}

// ContactResponse is how a contact is rendered to clients.
type ContactResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	AreaCodeID int       `json:"area_code_id"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ContactFromDomain(c *domain.Contact) ContactResponse {
	return ContactResponse{
		ID:         c.ID.String(),
		Name:       c.Name,
		Phone:      c.Phone,
		AreaCodeID: c.AreaCodeID,
		Email:      c.Email,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func ContactsFromDomain(contacts []domain.Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		out = append(out, ContactFromDomain(&contacts[i]))
	}
	return out
}

// AreaCodeResponse renders a DDD reference entry.
type AreaCodeResponse struct {
	Code   int    `json:"code"`
	Region string `json:"region"`
	State  string `json:"state"`
}

func AreaCodeFromDomain(ac *domain.AreaCode) AreaCodeResponse {
	return AreaCodeResponse{Code: ac.Code, Region: ac.Region, State: ac.State}
}

func AreaCodesFromDomain(codes []domain.AreaCode) []AreaCodeResponse {
	out := make([]AreaCodeResponse, 0, len(codes))
	for i := range codes {
		out = append(out, AreaCodeFromDomain(&codes[i]))
	}
	return out
}
