package mocks

import (
	"context"
	"io"

	"osmdev/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Write(ctx context.Context, name string, content []byte) (storage.FileInfo, error) {
	args := m.Called(ctx, name, content)
	if f, ok := args.Get(0).(func(context.Context, string, []byte) storage.FileInfo); ok {
		return f(ctx, name, content), args.Error(1)
	}
	return args.Get(0).(storage.FileInfo), args.Error(1)
}

func (m *MockStore) Open(ctx context.Context, name string) (io.ReadCloser, storage.FileInfo, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.FileInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.FileInfo), args.Error(2)
}
