package mocks

import (
	"context"

	"convertapi/internal/model"
	"convertapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockPDFService struct {
	mock.Mock
}

func (m *MockPDFService) Merge(ctx context.Context, inputPaths []string) (*model.ConversionResult, error) {
	args := m.Called(ctx, inputPaths)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConversionResult), args.Error(1)
}

func (m *MockPDFService) Split(ctx context.Context, inputPath string) (*service.SplitResult, error) {
	args := m.Called(ctx, inputPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SplitResult), args.Error(1)
}

func (m *MockPDFService) Encrypt(ctx context.Context, inputPath, passphrase string) (*model.ConversionResult, error) {
	args := m.Called(ctx, inputPath, passphrase)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConversionResult), args.Error(1)
}
