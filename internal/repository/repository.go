// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, mongo) inside this directory.
package repository

import (
	"context"
	"errors"

	"convertapi/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// FileRepository is the upload catalog. Strictly persistence, no business logic.
type FileRepository interface {
	// Create inserts a catalog row and returns it as stored.
	Create(ctx context.Context, f *model.StoredFile) (*model.StoredFile, error)

	// FindByID returns ErrNotFound when no row matches.
	FindByID(ctx context.Context, id string) (*model.StoredFile, error)

	List(ctx context.Context, pq PageQuery) (*PageResult[model.StoredFile], error)

	// Delete removes a row. A missing row is not an error.
	Delete(ctx context.Context, id string) error
}

// RecordRepository stores opaque records in named collections.
type RecordRepository interface {
	// Insert stores one record and returns the database ID in string form.
	Insert(ctx context.Context, collection string, rec model.Record) (string, error)

	// ListAll returns every record in the collection with "_id" as a string.
	ListAll(ctx context.Context, collection string) ([]model.Record, error)

	// Collections returns the collection names of the database.
	Collections(ctx context.Context) ([]string, error)

	Ping(ctx context.Context) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
