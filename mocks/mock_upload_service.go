package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fileservice/internal/domain"
	"fileservice/internal/service"
)

// MockUploadService is a mock implementation of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, input service.FileUploadInput) (*domain.StoredObject, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredObject), args.Error(1)
}
