package mocks

import (
	"context"

	"docvault/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockFolderService struct {
	mock.Mock
}

func (m *MockFolderService) Create(ctx context.Context, userID, name string, parentID *string) (*model.Folder, error) {
	args := m.Called(ctx, userID, name, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) List(ctx context.Context, userID string, parentID *string) ([]model.Folder, error) {
	args := m.Called(ctx, userID, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderService) Get(ctx context.Context, userID, id string) (*model.Folder, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) Rename(ctx context.Context, userID, id, name string) (*model.Folder, error) {
	args := m.Called(ctx, userID, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockFolderService) Documents(ctx context.Context, userID, id string) ([]model.Document, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}
