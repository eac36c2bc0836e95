// Package mocks provides mock implementations of the keystore use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
)

// MockRecordRepository is a mock implementation of RecordRepository.
type MockRecordRepository struct {
	mock.Mock
}

// Put mocks the Put method of RecordRepository.
func (m *MockRecordRepository) Put(ctx context.Context, table string, item keystoreDomain.Item) error {
	args := m.Called(ctx, table, item)
	return args.Error(0)
}

// PutIfAbsent mocks the PutIfAbsent method of RecordRepository.
func (m *MockRecordRepository) PutIfAbsent(ctx context.Context, table string, item keystoreDomain.Item) error {
	args := m.Called(ctx, table, item)
	return args.Error(0)
}

// GetByVersion mocks the GetByVersion method of RecordRepository.
func (m *MockRecordRepository) GetByVersion(
	ctx context.Context,
	table, name, version string,
) (keystoreDomain.Item, error) {
	args := m.Called(ctx, table, name, version)
	return args.Get(0).(keystoreDomain.Item), args.Error(1)
}

// GetLatest mocks the GetLatest method of RecordRepository.
func (m *MockRecordRepository) GetLatest(ctx context.Context, table, name string) (keystoreDomain.Item, error) {
	args := m.Called(ctx, table, name)
	return args.Get(0).(keystoreDomain.Item), args.Error(1)
}

// MockKeystoreUseCase is a mock implementation of KeystoreUseCase.
type MockKeystoreUseCase struct {
	mock.Mock
}

// Store mocks the Store method of KeystoreUseCase.
func (m *MockKeystoreUseCase) Store(
	ctx context.Context,
	name, value, version string,
) (keystoreDomain.Record, error) {
	args := m.Called(ctx, name, value, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(keystoreDomain.Record), args.Error(1)
}

// Retrieve mocks the Retrieve method of KeystoreUseCase.
func (m *MockKeystoreUseCase) Retrieve(ctx context.Context, name, version string) (string, error) {
	args := m.Called(ctx, name, version)
	return args.String(0), args.Error(1)
}

// RetrieveSecret mocks the RetrieveSecret method of KeystoreUseCase.
func (m *MockKeystoreUseCase) RetrieveSecret(
	ctx context.Context,
	name, version string,
) (keystoreDomain.Secret, error) {
	args := m.Called(ctx, name, version)
	return args.Get(0).(keystoreDomain.Secret), args.Error(1)
}
