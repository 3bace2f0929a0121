package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"convertapi/internal/apperr"
	"convertapi/internal/model"
	repoMocks "convertapi/internal/repository/mocks"
)

func TestRecordService_Insert(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		collection string
		body       string
		setup      func(m *repoMocks.MockRecordRepository)
		wantID     string
		wantKind   apperr.Kind
	}{
		{
			name:       "stores object in order",
			collection: "notes",
			body:       `{"text":"hi","tags":["a","b"]}`,
			setup: func(m *repoMocks.MockRecordRepository) {
				m.On("Insert", ctx, "notes", mock.MatchedBy(func(r model.Record) bool {
					return len(r) == 2 && r[0].Key == "text" && string(r[1].Value) == `["a","b"]`
				})).Return("65a1f0c2e4b0a1b2c3d4e5f6", nil)
			},
			wantID: "65a1f0c2e4b0a1b2c3d4e5f6",
		},
		{
			name:       "trims collection name",
			collection: "  notes ",
			body:       `{}`,
			setup: func(m *repoMocks.MockRecordRepository) {
				m.On("Insert", ctx, "notes", model.Record{}).Return("id", nil)
			},
			wantID: "id",
		},
		{
			name:       "missing collection",
			collection: " ",
			body:       `{"text":"hi"}`,
			setup:      func(*repoMocks.MockRecordRepository) {},
			wantKind:   apperr.KindValidation,
		},
		{
			name:       "array body",
			collection: "notes",
			body:       `[{"text":"hi"}]`,
			setup:      func(*repoMocks.MockRecordRepository) {},
			wantKind:   apperr.KindContent,
		},
		{
			name:       "malformed body",
			collection: "notes",
			body:       `{"text":`,
			setup:      func(*repoMocks.MockRecordRepository) {},
			wantKind:   apperr.KindContent,
		},
		{
			name:       "database failure",
			collection: "notes",
			body:       `{"text":"hi"}`,
			setup: func(m *repoMocks.MockRecordRepository) {
				m.On("Insert", ctx, "notes", mock.Anything).
					Return("", apperr.Wrap(apperr.KindStorage, "mongo.Insert", errors.New("server selection timeout")))
			},
			wantKind: apperr.KindStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(repoMocks.MockRecordRepository)
			tt.setup(m)
			svc := NewRecordService(m)

			id, err := svc.Insert(ctx, tt.collection, []byte(tt.body))
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestRecordService_ListAll(t *testing.T) {
	ctx := context.Background()
	m := new(repoMocks.MockRecordRepository)
	svc := NewRecordService(m)

	recs := []model.Record{{
		{Key: "_id", Value: json.RawMessage(`"65a1f0c2e4b0a1b2c3d4e5f6"`)},
		{Key: "text", Value: json.RawMessage(`"hi"`)},
	}}
	m.On("ListAll", ctx, "notes").Return(recs, nil)

	got, err := svc.ListAll(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, recs, got)

	_, err = svc.ListAll(ctx, "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	m.AssertExpectations(t)
}

func TestRecordService_CollectionsAndPing(t *testing.T) {
	ctx := context.Background()
	m := new(repoMocks.MockRecordRepository)
	svc := NewRecordService(m)

	m.On("Collections", ctx).Return([]string{"notes", "users"}, nil)
	m.On("Ping", ctx).Return(nil)

	names, err := svc.Collections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes", "users"}, names)
	assert.NoError(t, svc.Ping(ctx))
}
