package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Store(ctx context.Context, userID, displayName string, r io.Reader, size int64) (string, error) {
	args := m.Called(ctx, userID, displayName, r, size)
	if f, ok := args.Get(0).(func(context.Context, string, string, io.Reader, int64) string); ok {
		return f(ctx, userID, displayName, r, size), args.Error(1)
	}
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) Load(ctx context.Context, token string) (io.ReadCloser, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockFileStore) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockFileStore) Exists(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}
