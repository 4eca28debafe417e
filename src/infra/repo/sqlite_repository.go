package repo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"contactsapi/src/core/domain"
	"contactsapi/src/core/ports"
	"contactsapi/src/infra/db"
	"contactsapi/src/infra/logger"
)

type contactModel struct {
	ID         string `gorm:"primaryKey;type:text"`
	Name       string `gorm:"not null"`
	Phone      string `gorm:"not null;size:9"`
	Email      string `gorm:"not null"`
	AreaCodeID int    `gorm:"not null;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// AreaCode only exists so AutoMigrate emits the foreign key; it is never loaded.
	AreaCode areaCodeModel `gorm:"foreignKey:AreaCodeID;references:Code;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (contactModel) TableName() string { return "contacts" }

func (m contactModel) toDomain() (domain.Contact, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return domain.Contact{}, err
	}
	return domain.Contact{
		ID:         id,
		Name:       m.Name,
		Phone:      m.Phone,
		Email:      m.Email,
		AreaCodeID: m.AreaCodeID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}, nil
}

type areaCodeModel struct {
	Code   int    `gorm:"primaryKey;autoIncrement:false"`
	Region string `gorm:"not null"`
	State  string `gorm:"not null;size:2"`
}

func (areaCodeModel) TableName() string { return "area_codes" }

// SQLiteStore implements ports.ContactStore using gorm over SQLite.
type SQLiteStore struct {
	sq  *db.SQLite
	db  *gorm.DB
	log *slog.Logger
}

var (
	_ ports.ContactStore   = (*SQLiteStore)(nil)
	_ ports.AreaCodeSeeder = (*SQLiteStore)(nil)
)

// NewSQLiteStore constructs a store backed by SQLite.
func NewSQLiteStore(sq *db.SQLite, log *slog.Logger) *SQLiteStore {
	return &SQLiteStore{sq: sq, db: sq.DB, log: logger.WithComponent(log, "repo.sqlite")}
}

func (r *SQLiteStore) Session() ports.ContactRepository {
	return newSession(r, r.log)
}

func (r *SQLiteStore) Health(ctx context.Context) error {
	return r.sq.Health(ctx)
}

// Migrate creates or updates the schema. SQLite has no down migrations.
func (r *SQLiteStore) Migrate(ctx context.Context, direction string) error {
	switch direction {
	case db.MigrateUp:
		return r.db.WithContext(ctx).AutoMigrate(&areaCodeModel{}, &contactModel{})
	case db.MigrateStatus:
		m := r.db.WithContext(ctx).Migrator()
		r.log.Info("schema status",
			"area_codes", m.HasTable(&areaCodeModel{}),
			"contacts", m.HasTable(&contactModel{}),
		)
		return nil
	default:
		return errors.New("sqlite driver only supports up and status migrations")
	}
}

func (r *SQLiteStore) findContacts(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]domain.Contact, error) {
	var models []contactModel
	if err := scope(r.db.WithContext(ctx)).Order("name, id").Find(&models).Error; err != nil {
		return nil, err
	}

	contacts := make([]domain.Contact, 0, len(models))
	for _, m := range models {
		c, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

func (r *SQLiteStore) contacts(ctx context.Context) ([]domain.Contact, error) {
	return r.findContacts(ctx, func(tx *gorm.DB) *gorm.DB { return tx })
}

func (r *SQLiteStore) contactsByAreaCode(ctx context.Context, code int) ([]domain.Contact, error) {
	return r.findContacts(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("area_code_id = ?", code)
	})
}

func (r *SQLiteStore) contact(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	var m contactModel
	if err := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	c, err := m.toDomain()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *SQLiteStore) areaCode(ctx context.Context, code int) (*domain.AreaCode, error) {
	var m areaCodeModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.AreaCode{Code: m.Code, Region: m.Region, State: m.State}, nil
}

func (r *SQLiteStore) areaCodes(ctx context.Context) ([]domain.AreaCode, error) {
	var models []areaCodeModel
	if err := r.db.WithContext(ctx).Order("code").Find(&models).Error; err != nil {
		return nil, err
	}
	codes := make([]domain.AreaCode, 0, len(models))
	for _, m := range models {
		codes = append(codes, domain.AreaCode{Code: m.Code, Region: m.Region, State: m.State})
	}
	return codes, nil
}

func (r *SQLiteStore) apply(ctx context.Context, cs changeSet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range cs.Inserts {
			m := contactModel{
				ID:         c.ID.String(),
				Name:       c.Name,
				Phone:      c.Phone,
				Email:      c.Email,
				AreaCodeID: c.AreaCodeID,
				CreatedAt:  cs.At,
				UpdatedAt:  cs.At,
			}
			if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errors.Join(duplicateRow(c.ID), err)
				}
				if errors.Is(err, gorm.ErrForeignKeyViolated) {
					return errors.Join(unregisteredAreaCode(c.AreaCodeID), err)
				}
				return err
			}
		}

		for _, c := range cs.Updates {
			res := tx.Model(&contactModel{}).Where("id = ?", c.ID.String()).Updates(map[string]any{
				"name":         c.Name,
				"phone":        c.Phone,
				"email":        c.Email,
				"area_code_id": c.AreaCodeID,
				"updated_at":   cs.At,
			})
			if res.Error != nil {
				if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
					return errors.Join(unregisteredAreaCode(c.AreaCodeID), res.Error)
				}
				return res.Error
			}
			if res.RowsAffected == 0 {
				return missingRow(c.ID)
			}
		}

		for _, id := range cs.Deletes {
			res := tx.Where("id = ?", id.String()).Delete(&contactModel{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return missingRow(id)
			}
		}
		return nil
	})
}

// SeedAreaCodes upserts reference rows in one transaction.
func (r *SQLiteStore) SeedAreaCodes(ctx context.Context, codes []domain.AreaCode) error {
	if len(codes) == 0 {
		return nil
	}
	models := make([]areaCodeModel, 0, len(codes))
	for _, ac := range codes {
		models = append(models, areaCodeModel{Code: ac.Code, Region: ac.Region, State: ac.State})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"region", "state"}),
	}).Create(&models).Error
}
