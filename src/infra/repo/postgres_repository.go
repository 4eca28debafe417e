package repo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"contactsapi/src/core/domain"
	"contactsapi/src/core/ports"
	"contactsapi/src/infra/db"
	"contactsapi/src/infra/logger"
)

// PostgresStore implements ports.ContactStore using pgx.
type PostgresStore struct {
	pg   *db.Postgres
	pool *pgxpool.Pool
	log  *slog.Logger
}

var (
	_ ports.ContactStore   = (*PostgresStore)(nil)
	_ ports.AreaCodeSeeder = (*PostgresStore)(nil)
)

// NewPostgresStore constructs a store backed by Postgres.
func NewPostgresStore(pg *db.Postgres, log *slog.Logger) *PostgresStore {
	return &PostgresStore{
		pg:   pg,
		pool: pg.Pool,
		log:  logger.WithComponent(log, "repo.postgres"),
	}
}

func (r *PostgresStore) Session() ports.ContactRepository {
	return newSession(r, r.log)
}

func (r *PostgresStore) Health(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Migrate applies the embedded goose migrations.
func (r *PostgresStore) Migrate(ctx context.Context, direction string) error {
	return r.pg.Migrate(ctx, direction)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

const contactColumns = `id, name, phone, email, area_code_id, created_at, updated_at`

func scanContact(row pgx.Row) (domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.AreaCodeID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *PostgresStore) queryContacts(ctx context.Context, q string, args ...any) ([]domain.Contact, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *PostgresStore) contacts(ctx context.Context) ([]domain.Contact, error) {
	const q = `
		SELECT ` + contactColumns + `
		FROM contacts
		ORDER BY name, id
	`
	return r.queryContacts(ctx, q)
}

func (r *PostgresStore) contactsByAreaCode(ctx context.Context, code int) ([]domain.Contact, error) {
	const q = `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE area_code_id = $1
		ORDER BY name, id
	`
	return r.queryContacts(ctx, q, code)
}

func (r *PostgresStore) contact(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	const q = `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = $1
	`
	c, err := scanContact(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresStore) areaCode(ctx context.Context, code int) (*domain.AreaCode, error) {
	const q = `
		SELECT code, region, state
		FROM area_codes
		WHERE code = $1
	`
	var ac domain.AreaCode
	if err := r.pool.QueryRow(ctx, q, code).Scan(&ac.Code, &ac.Region, &ac.State); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ac, nil
}

func (r *PostgresStore) areaCodes(ctx context.Context) ([]domain.AreaCode, error) {
	const q = `
		SELECT code, region, state
		FROM area_codes
		ORDER BY code
	`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := []domain.AreaCode{}
	for rows.Next() {
		var ac domain.AreaCode
		if err := rows.Scan(&ac.Code, &ac.Region, &ac.State); err != nil {
			return nil, err
		}
		codes = append(codes, ac)
	}
	return codes, rows.Err()
}

// apply writes one change set inside a single transaction.
func (r *PostgresStore) apply(ctx context.Context, cs changeSet) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertQ = `
		INSERT INTO contacts (id, name, phone, email, area_code_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`
	for _, c := range cs.Inserts {
		if _, err := tx.Exec(ctx, insertQ, c.ID, c.Name, c.Phone, c.Email, c.AreaCodeID, cs.At); err != nil {
			switch {
			case isUniqueViolation(err):
				return errors.Join(duplicateRow(c.ID), err)
			case isForeignKeyViolation(err):
				return errors.Join(unregisteredAreaCode(c.AreaCodeID), err)
			}
			return err
		}
	}

	const updateQ = `
		UPDATE contacts
		SET name = $2, phone = $3, email = $4, area_code_id = $5, updated_at = $6
		WHERE id = $1
	`
	for _, c := range cs.Updates {
		res, err := tx.Exec(ctx, updateQ, c.ID, c.Name, c.Phone, c.Email, c.AreaCodeID, cs.At)
		if err != nil {
			if isForeignKeyViolation(err) {
				return errors.Join(unregisteredAreaCode(c.AreaCodeID), err)
			}
			return err
		}
		if res.RowsAffected() == 0 {
			return missingRow(c.ID)
		}
	}

	const deleteQ = `DELETE FROM contacts WHERE id = $1`
	for _, id := range cs.Deletes {
		res, err := tx.Exec(ctx, deleteQ, id)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return missingRow(id)
		}
	}

	return tx.Commit(ctx)
}

// SeedAreaCodes upserts reference rows in one transaction.
func (r *PostgresStore) SeedAreaCodes(ctx context.Context, codes []domain.AreaCode) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const q = `
		INSERT INTO area_codes (code, region, state)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET region = EXCLUDED.region, state = EXCLUDED.state
	`
	for _, ac := range codes {
		if _, err := tx.Exec(ctx, q, ac.Code, ac.Region, ac.State); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
