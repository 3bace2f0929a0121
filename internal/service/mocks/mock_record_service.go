package mocks

import (
	"context"

	"convertapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) Insert(ctx context.Context, collection string, body []byte) (string, error) {
	args := m.Called(ctx, collection, body)
	return args.String(0), args.Error(1)
}

func (m *MockRecordService) ListAll(ctx context.Context, collection string) ([]model.Record, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockRecordService) Collections(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRecordService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
