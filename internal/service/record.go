package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"convertapi/internal/apperr"
	"convertapi/internal/model"
	"convertapi/internal/repository"
)

// RecordService is the Document Record Store use case.
type RecordService interface {
	// Insert decodes body as one JSON object and stores it in collection.
	Insert(ctx context.Context, collection string, body []byte) (string, error)

	// ListAll returns every record of collection. There is no pagination.
	ListAll(ctx context.Context, collection string) ([]model.Record, error)

	Collections(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

type recordService struct {
	repo repository.RecordRepository
}

// NewRecordService constructs a RecordService.
func NewRecordService(repo repository.RecordRepository) RecordService {
	return &recordService{repo: repo}
}

func collectionName(op, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.New(apperr.KindValidation, op, "collectionName is required")
	}
	return name, nil
}

func (s *recordService) Insert(ctx context.Context, collection string, body []byte) (string, error) {
	const op = "record.Insert"

	name, err := collectionName(op, collection)
	if err != nil {
		return "", err
	}

	var rec model.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		if errors.Is(err, model.ErrNotObject) {
			return "", apperr.Wrap(apperr.KindContent, op, err)
		}
		return "", apperr.Wrapf(apperr.KindContent, op, err, "invalid JSON body")
	}

	return s.repo.Insert(ctx, name, rec)
}

func (s *recordService) ListAll(ctx context.Context, collection string) ([]model.Record, error) {
	name, err := collectionName("record.ListAll", collection)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx, name)
}

func (s *recordService) Collections(ctx context.Context) ([]string, error) {
	return s.repo.Collections(ctx)
}

func (s *recordService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
