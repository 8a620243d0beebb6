package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BradenHooton/loginwatch/internal/database"
	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, email, password_hash, name, verified, role, status, last_active_at, created_at, updated_at`

type AccountRepository struct {
	pool querier
}

func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{pool: db.Pool}
}

// rowScanner supports both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccountRow(scanner rowScanner) (*models.Account, error) {
	var account models.Account
	var passwordHash *string

	err := scanner.Scan(
		&account.ID, &account.Email, &passwordHash, &account.Name,
		&account.Verified, &account.Role, &account.Status, &account.LastActiveAt,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if passwordHash != nil {
		account.PasswordHash = *passwordHash
	}

	return &account, nil
}

func scanAccountRows(rows pgx.Rows) ([]*models.Account, error) {
	defer rows.Close()

	accounts := make([]*models.Account, 0)

	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return accounts, nil
}

// NormalizeEmail trims and lower-cases an address the way it is stored
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccountRow(r.pool.QueryRow(ctx, query, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccountRow(r.pool.QueryRow(ctx, query, NormalizeEmail(email)))
}

// List returns every account, newest first
func (r *AccountRepository) List(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}

	return scanAccountRows(rows)
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	account.ID = uuid.New().String()
	account.Email = NormalizeEmail(account.Email)

	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	if account.Role == "" {
		account.Role = models.RoleUser
	}
	if account.Status == "" {
		account.Status = models.StatusOffline
	}

	var passwordHash *string
	if account.PasswordHash != "" {
		passwordHash = &account.PasswordHash
	}

	query := `
		INSERT INTO accounts (id, email, password_hash, name, verified, role, status, last_active_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + accountColumns

	return scanAccountRow(r.pool.QueryRow(ctx, query,
		account.ID, account.Email, passwordHash, account.Name,
		account.Verified, account.Role, account.Status, account.LastActiveAt,
		account.CreatedAt, account.UpdatedAt,
	))
}

func (r *AccountRepository) UpdateRole(ctx context.Context, id, role string) error {
	query := `UPDATE accounts SET role = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, role)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// TouchPresence marks the account online as of at
func (r *AccountRepository) TouchPresence(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE accounts SET status = $2, last_active_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, models.StatusOnline, at)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// MarkStaleOffline flips online accounts whose last activity predates cutoff
func (r *AccountRepository) MarkStaleOffline(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE accounts SET status = $1
		WHERE status = $2 AND (last_active_at IS NULL OR last_active_at < $3)
	`

	tag, err := r.pool.Exec(ctx, query, models.StatusOffline, models.StatusOnline, cutoff)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return tag.RowsAffected(), nil
}

// Delete removes the account; its login events go with it
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DeleteAll wipes every account, used by the seeder
func (r *AccountRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts`)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return tag.RowsAffected(), nil
}
