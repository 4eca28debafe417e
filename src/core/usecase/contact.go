package usecase

import (
	"context"

	"github.com/google/uuid"

	"contactsapi/src/core/domain"
	"contactsapi/src/core/ports"
)

// ContactService orchestrates contact flows: validate first, persist second.
// Every call opens its own repository session.
type ContactService struct {
	store ports.ContactStore
}

func NewContactService(store ports.ContactStore) *ContactService {
	return &ContactService{store: store}
}

// CreateContact builds a contact from in and persists it when valid.
// An invalid input returns a *domain.ValidationFailedError and touches no store.
func (s *ContactService) CreateContact(ctx context.Context, in domain.ContactInput) (*domain.Contact, error) {
	contact := domain.NewContact(in)
	if !contact.ValidationResult.IsValid() {
		return nil, domain.NewValidationFailedError(contact.ValidationResult)
	}

	repo := s.store.Session()
	if err := ensureAreaCode(ctx, repo, contact); err != nil {
		return nil, err
	}
	if err := repo.Create(contact); err != nil {
		return nil, err
	}
	if err := repo.Commit(ctx); err != nil {
		return nil, err
	}
	return contact, nil
}

// UpdateContact replaces name, phone and email of an existing contact.
func (s *ContactService) UpdateContact(ctx context.Context, id uuid.UUID, in domain.ContactInput) (*domain.Contact, error) {
	repo := s.store.Session()
	contact, err := findContact(ctx, repo, id)
	if err != nil {
		return nil, err
	}

	contact.Update(in)
	if !contact.ValidationResult.IsValid() {
		return nil, domain.NewValidationFailedError(contact.ValidationResult)
	}
	if err := ensureAreaCode(ctx, repo, contact); err != nil {
		return nil, err
	}
	if err := repo.Commit(ctx); err != nil {
		return nil, err
	}
	return contact, nil
}

// DeleteContact removes an existing contact.
func (s *ContactService) DeleteContact(ctx context.Context, id uuid.UUID) error {
	repo := s.store.Session()
	contact, err := findContact(ctx, repo, id)
	if err != nil {
		return err
	}
	if err := repo.Delete(contact); err != nil {
		return err
	}
	return repo.Commit(ctx)
}

func (s *ContactService) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	return s.store.Session().FindAllContacts(ctx)
}

func (s *ContactService) GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	return findContact(ctx, s.store.Session(), id)
}

// ListContactsByAreaCode returns an empty slice for codes nobody uses,
// including codes missing from the reference table.
func (s *ContactService) ListContactsByAreaCode(ctx context.Context, code int) ([]domain.Contact, error) {
	return s.store.Session().FindContactsByAreaCode(ctx, code)
}

func (s *ContactService) GetAreaCode(ctx context.Context, code int) (*domain.AreaCode, error) {
	ac, err := s.store.Session().FindAreaCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if ac == nil {
		return nil, domain.NewNotFoundError("area code")
	}
	return ac, nil
}

func (s *ContactService) ListAreaCodes(ctx context.Context) ([]domain.AreaCode, error) {
	return s.store.Session().FindAllAreaCodes(ctx)
}

func findContact(ctx context.Context, repo ports.ContactRepository, id uuid.UUID) (*domain.Contact, error) {
	contact, err := repo.FindContact(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, domain.NewNotFoundError("contact")
	}
	return contact, nil
}

// ensureAreaCode rejects contacts whose area code is not in the reference table.
func ensureAreaCode(ctx context.Context, repo ports.ContactRepository, contact *domain.Contact) error {
	ac, err := repo.FindAreaCode(ctx, contact.AreaCodeID)
	if err != nil {
		return err
	}
	if ac == nil {
		contact.ValidationResult.Add(domain.FieldAreaCode, domain.MsgAreaCodeUnknown)
		return domain.NewValidationFailedError(contact.ValidationResult)
	}
	return nil
}
