package mocks

import (
	"context"

	"docvault/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockChunkUploadService struct {
	mock.Mock
}

func (m *MockChunkUploadService) AcceptChunk(ctx context.Context, userID string, c model.ChunkUpload) (*model.ChunkResult, error) {
	args := m.Called(ctx, userID, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChunkResult), args.Error(1)
}

func (m *MockChunkUploadService) UploadedChunks(ctx context.Context, userID, identifier string) ([]int, error) {
	args := m.Called(ctx, userID, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockChunkUploadService) Cancel(ctx context.Context, userID, identifier string) error {
	args := m.Called(ctx, userID, identifier)
	return args.Error(0)
}
