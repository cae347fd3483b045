package mocks

import (
	"context"
	"io"

	"docvault/internal/model"
	"docvault/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, userID string, r io.Reader, size int64, displayName string, folderID *string) (*model.Document, error) {
	args := m.Called(ctx, userID, r, size, displayName, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) BatchUpload(ctx context.Context, userID string, files []model.FileUpload, folderID *string) (*model.BatchUploadResult, error) {
	args := m.Called(ctx, userID, files, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchUploadResult), args.Error(1)
}

func (m *MockDocumentService) RegisterStored(ctx context.Context, userID string, f service.StoredFile) (*model.Document, error) {
	args := m.Called(ctx, userID, f)
	if fn, ok := args.Get(0).(func(context.Context, string, service.StoredFile) *model.Document); ok {
		return fn(ctx, userID, f), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, userID string, q service.ListQuery) (*service.DocumentListResult, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, userID, id string) (*model.Document, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, userID, id string, in service.UpdateInput) (*model.Document, error) {
	args := m.Called(ctx, userID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockDocumentService) BatchDelete(ctx context.Context, userID string, ids []string) (*model.BatchDeleteResult, error) {
	args := m.Called(ctx, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BatchDeleteResult), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, userID, id string) (*model.Document, []byte, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Document), args.Get(1).([]byte), args.Error(2)
}

func (m *MockDocumentService) StorageInfo(ctx context.Context, userID string) (*model.StorageInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StorageInfo), args.Error(1)
}
