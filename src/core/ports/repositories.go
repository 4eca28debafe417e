// Package ports defines interfaces (ports) that connect core domain to infrastructure.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern.
//
// Ports are defined here in the core layer, while implementations (adapters)
// live in src/infra/repo. This ensures the core has no dependency on infrastructure.
package ports

import (
	"context"

	"github.com/google/uuid"

	"contactsapi/src/core/domain"
)

// Repository is the base interface for all stores.
type Repository interface {
	// Health checks if the underlying storage is reachable.
	Health(ctx context.Context) error
}

// ContactStore hands out repository sessions. Each session is an independent
// unit of work; nothing staged in one session is visible to another.
type ContactStore interface {
	Repository

	// Session opens a new unit of work.
	Session() ContactRepository
}

// ContactRepository is one unit of work over the contacts and area_codes tables.
//
// Create and Delete only stage changes. Contacts returned by FindContact are
// tracked, so changes made to them are written on Commit as updates.
// A session is not safe for concurrent use.
type ContactRepository interface {
	// Create stages a new contact for insertion.
	Create(contact *domain.Contact) error
	// Delete stages removal of a contact. It returns a *domain.PersistenceError
	// when the contact is nil or already staged for deletion.
	Delete(contact *domain.Contact) error

	FindAllContacts(ctx context.Context) ([]domain.Contact, error)
	// FindContact returns (nil, nil) when no contact has the given id.
	FindContact(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	// FindContactsByAreaCode returns an empty slice when nothing matches.
	FindContactsByAreaCode(ctx context.Context, code int) ([]domain.Contact, error)

	// FindAreaCode returns (nil, nil) when the code is not in the reference table.
	FindAreaCode(ctx context.Context, code int) (*domain.AreaCode, error)
	FindAllAreaCodes(ctx context.Context) ([]domain.AreaCode, error)

	// Commit flushes staged creates, tracked updates and deletes atomically.
	Commit(ctx context.Context) error
}

// AreaCodeSeeder loads reference data into a store.
type AreaCodeSeeder interface {
	SeedAreaCodes(ctx context.Context, codes []domain.AreaCode) error
}
