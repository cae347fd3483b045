package mocks

import (
	"context"

	"docvault/internal/model"
	"docvault/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if f, ok := args.Get(0).(func(context.Context, *model.Document) *model.Document); ok {
		return f(ctx, doc), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, userID, id string) (*model.Document, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, userID string, f repository.DocumentFilter, s repository.SortQuery, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, userID, f, s, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) ListByFolder(ctx context.Context, userID, folderID string) ([]model.Document, error) {
	args := m.Called(ctx, userID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) CountByFolder(ctx context.Context, userID, folderID string) (int, error) {
	args := m.Called(ctx, userID, folderID)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if f, ok := args.Get(0).(func(context.Context, *model.Document) *model.Document); ok {
		return f(ctx, doc), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) SumSizeByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	if f, ok := args.Get(0).(func() int64); ok {
		return f(), args.Error(1)
	}
	return args.Get(0).(int64), args.Error(1)
}
