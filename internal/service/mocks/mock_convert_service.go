package mocks

import (
	"context"

	"convertapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockConvertService struct {
	mock.Mock
}

func (m *MockConvertService) Supports(format model.Format) bool {
	args := m.Called(format)
	return args.Bool(0)
}

func (m *MockConvertService) Convert(ctx context.Context, inputPath string, format model.Format) (*model.ConversionResult, error) {
	args := m.Called(ctx, inputPath, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConversionResult), args.Error(1)
}

func (m *MockConvertService) Formats() []model.FormatInfo {
	args := m.Called()
	return args.Get(0).([]model.FormatInfo)
}
