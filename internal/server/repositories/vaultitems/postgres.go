package vaultitems

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// SQLDB is what PostgresRepository needs from *sql.DB.
type SQLDB interface {
	dbx.DBTX
	dbx.TxBeginner
}

// PostgresRepository implements Repository over PostgreSQL.
type PostgresRepository struct {
	db SQLDB
}

func NewPostgresRepository(db SQLDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.VaultItem) error {
	query :=
		`INSERT INTO vault_items (id, user_id, encrypted_data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, item.ID, item.UserID, item.EncryptedData, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.VaultItem, error) {
	query :=
		`SELECT id, user_id, encrypted_data, created_at, updated_at FROM vault_items
		 WHERE user_id = $1
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.VaultItem
	for rows.Next() {
		var item models.VaultItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.EncryptedData, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

const selectOwned = `SELECT id, user_id, encrypted_data, created_at, updated_at FROM vault_items
		 WHERE id = $1 AND user_id = $2`

func getOwned(ctx context.Context, db dbx.DBTX, query, id, userID string) (*models.VaultItem, error) {
	item := &models.VaultItem{}
	err := db.QueryRowContext(ctx, query, id, userID).
		Scan(&item.ID, &item.UserID, &item.EncryptedData, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, userID string) (*models.VaultItem, error) {
	return getOwned(ctx, r.db, selectOwned, id, userID)
}

// UpdateOwned locks the row with SELECT ... FOR UPDATE so the read and the
// write happen in the same transaction.
func (r *PostgresRepository) UpdateOwned(ctx context.Context, id, userID string, mutate MutateFunc) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		item, err := getOwned(ctx, tx, selectOwned+" FOR UPDATE", id, userID)
		if err != nil {
			return err
		}

		if err := mutate(item); err != nil {
			return err
		}

		query :=
			`UPDATE vault_items SET encrypted_data = $1, updated_at = $2
			 WHERE id = $3 AND user_id = $4`

		res, err := tx.ExecContext(ctx, query, item.EncryptedData, item.UpdatedAt, id, userID)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return dbx.ExpectOneRow(res)
	})
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vault_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}
