package mocks

import (
	"context"
	"io"

	"docvault/internal/model"
	"docvault/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockArchiveService struct {
	mock.Mock
}

func (m *MockArchiveService) Compress(ctx context.Context, userID string, ids []string, w io.Writer) (*service.ExportResult, error) {
	args := m.Called(ctx, userID, ids, w)
	if fn, ok := args.Get(0).(func(context.Context, string, []string, io.Writer) *service.ExportResult); ok {
		return fn(ctx, userID, ids, w), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}

func (m *MockArchiveService) CompressFolder(ctx context.Context, userID, folderID string, w io.Writer) (*service.ExportResult, error) {
	args := m.Called(ctx, userID, folderID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}

func (m *MockArchiveService) FolderDocuments(ctx context.Context, userID, folderID string) ([]model.Document, error) {
	args := m.Called(ctx, userID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockArchiveService) WriteDocuments(ctx context.Context, userID string, docs []model.Document, w io.Writer) (*service.ExportResult, error) {
	args := m.Called(ctx, userID, docs, w)
	if fn, ok := args.Get(0).(func(context.Context, string, []model.Document, io.Writer) *service.ExportResult); ok {
		return fn(ctx, userID, docs, w), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}
