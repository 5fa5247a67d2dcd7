package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/categorization_engine/internal/apperrors"
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/categorization_engine/internal/core/ports/repositories"
	"github.com/SscSPs/categorization_engine/internal/models"
	"github.com/SscSPs/categorization_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxCategoryRepository implements the category repository interfaces.
type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const insertCategoryQuery = `
	INSERT INTO categories (category_id, org_id, parent_id, name, tier, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

// FindCategoryByID retrieves a category by its ID.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `
		SELECT category_id, org_id, parent_id, name, tier, created_at, created_by, last_updated_at, last_updated_by
		FROM categories
		WHERE category_id = $1;
	`
	var m models.Category
	err := r.Pool.QueryRow(ctx, query, categoryID).Scan(
		&m.CategoryID, &m.OrgID, &m.ParentID, &m.Name, &m.Tier,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: category %s", apperrors.ErrNotFound, categoryID)
		}
		return nil, fmt.Errorf("failed to find category by ID %s: %w", categoryID, err)
	}
	category := mapping.ToDomainCategory(m)
	return &category, nil
}

// ListCategoriesForOrg returns global categories plus those owned by the organization.
func (r *PgxCategoryRepository) ListCategoriesForOrg(ctx context.Context, orgID string) ([]domain.Category, error) {
	query := `
		SELECT category_id, org_id, parent_id, name, tier, created_at, created_by, last_updated_at, last_updated_by
		FROM categories
		WHERE org_id IS NULL OR org_id = $1
		ORDER BY name ASC, category_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories for org %s: %w", orgID, err)
	}
	defer rows.Close()

	var ms []models.Category
	for rows.Next() {
		var m models.Category
		if err := rows.Scan(
			&m.CategoryID, &m.OrgID, &m.ParentID, &m.Name, &m.Tier,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return mapping.ToDomainCategorySlice(ms), nil
}

// SaveCategory persists a single category.
func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	_, err := r.Pool.Exec(ctx, insertCategoryQuery,
		m.CategoryID, m.OrgID, m.ParentID, m.Name, m.Tier,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "save category "+m.CategoryID)
	}
	return nil
}

// SaveCategories inserts the categories in one transaction. Slice order matters:
// parents must come before their children so the foreign key holds row by row.
func (r *PgxCategoryRepository) SaveCategories(ctx context.Context, categories []domain.Category) (err error) {
	if len(categories) == 0 {
		return nil
	}
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = r.Rollback(ctx, tx)
		}
	}()

	batch := &pgx.Batch{}
	for _, c := range categories {
		m := mapping.ToModelCategory(c)
		batch.Queue(insertCategoryQuery,
			m.CategoryID, m.OrgID, m.ParentID, m.Name, m.Tier,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}
	results := tx.SendBatch(ctx, batch)
	for _, c := range categories {
		if _, execErr := results.Exec(); execErr != nil {
			_ = results.Close()
			err = translateWriteError(execErr, "save category "+c.CategoryID)
			return err
		}
	}
	if err = results.Close(); err != nil {
		return fmt.Errorf("failed to close category batch: %w", err)
	}
	return r.Commit(ctx, tx)
}
