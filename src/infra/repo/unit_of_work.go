package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"contactsapi/src/core/domain"
	"contactsapi/src/core/ports"
	"contactsapi/src/infra/logger"
)

var (
	errNilContact       = errors.New("contact is nil")
	errAlreadyStaged    = errors.New("contact already staged for insertion")
	errAlreadyDeleted   = errors.New("contact already staged for deletion")
	errAlreadyPersisted = errors.New("contact is already persisted")
)

var tracer = otel.Tracer("contactsapi/src/infra/repo")

// contactRow is the persisted shape of a contact.
type contactRow struct {
	ID         uuid.UUID
	Name       string
	Phone      string
	Email      string
	AreaCodeID int
}

func rowOf(c *domain.Contact) contactRow {
	return contactRow{
		ID:         c.ID,
		Name:       c.Name,
		Phone:      c.Phone,
		Email:      c.Email,
		AreaCodeID: c.AreaCodeID,
	}
}

func contactFromRow(row contactRow, createdAt, updatedAt time.Time) domain.Contact {
	return domain.Contact{
		ID:         row.ID,
		Name:       row.Name,
		Phone:      row.Phone,
		Email:      row.Email,
		AreaCodeID: row.AreaCodeID,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
}

// sortContacts orders by name, then id, matching the SQL backends.
func sortContacts(contacts []domain.Contact) {
	sort.Slice(contacts, func(i, j int) bool {
		if contacts[i].Name != contacts[j].Name {
			return contacts[i].Name < contacts[j].Name
		}
		return contacts[i].ID.String() < contacts[j].ID.String()
	})
}

// changeSet is everything one Commit writes.
type changeSet struct {
	At      time.Time
	Inserts []contactRow
	Updates []contactRow
	Deletes []uuid.UUID
}

func (cs changeSet) empty() bool {
	return len(cs.Inserts) == 0 && len(cs.Updates) == 0 && len(cs.Deletes) == 0
}

type tracked struct {
	contact  *domain.Contact
	original contactRow
}

// unitOfWork records staged inserts and deletes and tracks loaded contacts.
type unitOfWork struct {
	added   []*domain.Contact
	removed []*domain.Contact
	tracked map[uuid.UUID]*tracked
}

func newUnitOfWork() *unitOfWork {
	return &unitOfWork{tracked: make(map[uuid.UUID]*tracked)}
}

func (u *unitOfWork) stageCreate(c *domain.Contact) error {
	if c == nil {
		return errNilContact
	}
	if u.indexOf(u.added, c.ID) >= 0 {
		return errAlreadyStaged
	}
	if _, ok := u.tracked[c.ID]; ok {
		return errAlreadyPersisted
	}
	u.added = append(u.added, c)
	return nil
}

func (u *unitOfWork) stageDelete(c *domain.Contact) error {
	if c == nil {
		return errNilContact
	}
	if u.indexOf(u.removed, c.ID) >= 0 {
		return errAlreadyDeleted
	}
	if i := u.indexOf(u.added, c.ID); i >= 0 {
		u.added = append(u.added[:i], u.added[i+1:]...)
		return nil
	}
	delete(u.tracked, c.ID)
	u.removed = append(u.removed, c)
	return nil
}

// track returns the session's instance for c.ID, registering c if it is new.
// Contacts staged for deletion are hidden.
func (u *unitOfWork) track(c *domain.Contact) *domain.Contact {
	if u.indexOf(u.removed, c.ID) >= 0 {
		return nil
	}
	if t, ok := u.tracked[c.ID]; ok {
		return t.contact
	}
	u.tracked[c.ID] = &tracked{contact: c, original: rowOf(c)}
	return c
}

// local finds contacts staged for insertion or already tracked.
func (u *unitOfWork) local(id uuid.UUID) (*domain.Contact, bool) {
	if u.indexOf(u.removed, id) >= 0 {
		return nil, true
	}
	if i := u.indexOf(u.added, id); i >= 0 {
		return u.added[i], true
	}
	if t, ok := u.tracked[id]; ok {
		return t.contact, true
	}
	return nil, false
}

func (u *unitOfWork) changes(at time.Time) changeSet {
	cs := changeSet{At: at}
	for _, c := range u.added {
		cs.Inserts = append(cs.Inserts, rowOf(c))
	}
	for _, t := range u.tracked {
		if row := rowOf(t.contact); row != t.original {
			cs.Updates = append(cs.Updates, row)
		}
	}
	for _, c := range u.removed {
		cs.Deletes = append(cs.Deletes, c.ID)
	}
	return cs
}

// accept marks the session clean after a successful flush.
func (u *unitOfWork) accept(cs changeSet) {
	for _, c := range u.added {
		c.CreatedAt = cs.At
		c.UpdatedAt = cs.At
		u.tracked[c.ID] = &tracked{contact: c, original: rowOf(c)}
	}
	for _, row := range cs.Updates {
		if t, ok := u.tracked[row.ID]; ok {
			t.contact.UpdatedAt = cs.At
			t.original = row
		}
	}
	u.added = nil
	u.removed = nil
}

func (u *unitOfWork) indexOf(list []*domain.Contact, id uuid.UUID) int {
	for i, c := range list {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// backend is the storage a session reads from and flushes to.
type backend interface {
	contacts(ctx context.Context) ([]domain.Contact, error)
	contact(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	contactsByAreaCode(ctx context.Context, code int) ([]domain.Contact, error)
	areaCode(ctx context.Context, code int) (*domain.AreaCode, error)
	areaCodes(ctx context.Context) ([]domain.AreaCode, error)
	apply(ctx context.Context, cs changeSet) error
}

// session implements ports.ContactRepository on top of a backend.
type session struct {
	b   backend
	uow *unitOfWork
	log *slog.Logger
	now func() time.Time
}

var _ ports.ContactRepository = (*session)(nil)

func newSession(b backend, log *slog.Logger) *session {
	return &session{
		b:   b,
		uow: newUnitOfWork(),
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *session) Create(contact *domain.Contact) error {
	if err := s.uow.stageCreate(contact); err != nil {
		return domain.NewPersistenceError("create contact", err)
	}
	return nil
}

func (s *session) Delete(contact *domain.Contact) error {
	if err := s.uow.stageDelete(contact); err != nil {
		return domain.NewPersistenceError("delete contact", err)
	}
	return nil
}

func (s *session) FindAllContacts(ctx context.Context) ([]domain.Contact, error) {
	contacts, err := s.b.contacts(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("find all contacts", err)
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	return contacts, nil
}

func (s *session) FindContact(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	if c, ok := s.uow.local(id); ok {
		return c, nil
	}
	c, err := s.b.contact(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("find contact", err)
	}
	if c == nil {
		return nil, nil
	}
	return s.uow.track(c), nil
}

func (s *session) FindContactsByAreaCode(ctx context.Context, code int) ([]domain.Contact, error) {
	contacts, err := s.b.contactsByAreaCode(ctx, code)
	if err != nil {
		return nil, domain.NewPersistenceError("find contacts by area code", err)
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	return contacts, nil
}

func (s *session) FindAreaCode(ctx context.Context, code int) (*domain.AreaCode, error) {
	ac, err := s.b.areaCode(ctx, code)
	if err != nil {
		return nil, domain.NewPersistenceError("find area code", err)
	}
	return ac, nil
}

func (s *session) FindAllAreaCodes(ctx context.Context) ([]domain.AreaCode, error) {
	codes, err := s.b.areaCodes(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("find all area codes", err)
	}
	if codes == nil {
		codes = []domain.AreaCode{}
	}
	return codes, nil
}

func (s *session) Commit(ctx context.Context) error {
	cs := s.uow.changes(s.now())
	if cs.empty() {
		return nil
	}

	ctx, span := tracer.Start(ctx, "contacts.commit")
	defer span.End()
	span.SetAttributes(
		attribute.Int("contacts.inserts", len(cs.Inserts)),
		attribute.Int("contacts.updates", len(cs.Updates)),
		attribute.Int("contacts.deletes", len(cs.Deletes)),
	)

	if err := s.b.apply(ctx, cs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		logger.Warn(s.log, "commit failed",
			"inserts", len(cs.Inserts),
			"updates", len(cs.Updates),
			"deletes", len(cs.Deletes),
			"error", err,
		)
		return domain.NewPersistenceError("commit", err)
	}
	s.uow.accept(cs)
	logger.Debug(s.log, "commit applied",
		"inserts", len(cs.Inserts),
		"updates", len(cs.Updates),
		"deletes", len(cs.Deletes),
	)
	return nil
}

func missingRow(id uuid.UUID) error {
	return domain.NewConflictError(fmt.Sprintf("contact %s no longer exists", id))
}

func duplicateRow(id uuid.UUID) error {
	return domain.NewConflictError(fmt.Sprintf("contact %s already exists", id))
}

func unregisteredAreaCode(code int) error {
	return domain.NewConflictError(fmt.Sprintf("area code %d is not registered", code))
}
