package postgres

import (
	"context"
	"database/sql"
	"errors"

	"convertapi/internal/model"
	"convertapi/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*model.StoredFile, error) {
	var f model.StoredFile
	if err := s.Scan(
		&f.ID,
		&f.Name,
		&f.Path,
		&f.Size,
		&f.ContentType,
		&f.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a new catalog row and returns the stored record.
func (r *FilePostgres) Create(ctx context.Context, f *model.StoredFile) (*model.StoredFile, error) {
	const q = `
		INSERT INTO uploads (id, name, storage_key, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, storage_key, size, content_type, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.Name,
		f.Path,
		f.Size,
		f.ContentType,
		f.CreatedAt,
	)
	return scanFile(row)
}

// FindByID fetches a single upload by its ID.
func (r *FilePostgres) FindByID(ctx context.Context, id string) (*model.StoredFile, error) {
	const q = `
		SELECT id, name, storage_key, size, content_type, created_at
		FROM uploads
		WHERE id = $1
	`
	f, err := scanFile(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if IsNoRowsError(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// List returns uploads newest first using LIMIT/OFFSET pagination and a total count.
func (r *FilePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.StoredFile], error) {
	const qCount = `SELECT COUNT(*) FROM uploads`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, name, storage_key, size, content_type, created_at
		FROM uploads
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.StoredFile, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.StoredFile]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes an upload row by ID.
func (r *FilePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM uploads WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// IsNoRowsError reports whether err means the query matched nothing.
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
