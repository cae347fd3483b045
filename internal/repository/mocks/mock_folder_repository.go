package mocks

import (
	"context"

	"docvault/internal/model"
	"docvault/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockFolderRepository struct {
	mock.Mock
}

func (m *MockFolderRepository) Create(ctx context.Context, f *model.Folder) (*model.Folder, error) {
	args := m.Called(ctx, f)
	if fn, ok := args.Get(0).(func(context.Context, *model.Folder) *model.Folder); ok {
		return fn(ctx, f), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) FindByID(ctx context.Context, userID, id string) (*model.Folder, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) ExistsByName(ctx context.Context, userID string, parentID *string, name string) (bool, error) {
	args := m.Called(ctx, userID, parentID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockFolderRepository) ListByParent(ctx context.Context, userID string, parentID *string) ([]model.Folder, error) {
	args := m.Called(ctx, userID, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderRepository) CountChildren(ctx context.Context, userID, id string) (int, error) {
	args := m.Called(ctx, userID, id)
	return args.Int(0), args.Error(1)
}

func (m *MockFolderRepository) Rename(ctx context.Context, userID, id, name string, paths []repository.PathUpdate) error {
	args := m.Called(ctx, userID, id, name, paths)
	return args.Error(0)
}

func (m *MockFolderRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
