// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

// Package mocks provides testify mocks for the clipboard package interfaces.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/clipvault/clipvault/internal/clipboard"
)

// MockItemRepository is a mock implementation of clipboard.ItemRepository.
type MockItemRepository struct {
	mock.Mock
}

// NewMockItemRepository creates a MockItemRepository whose expectations are
// asserted when the test finishes.
func NewMockItemRepository(t *testing.T) *MockItemRepository {
	t.Helper()
	m := &MockItemRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockItemRepository) ListByOwner(ctx context.Context, ownerID int64) ([]clipboard.Item, error) {
	args := m.Called(ctx, ownerID)
	if items := args.Get(0); items != nil {
		return items.([]clipboard.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockItemRepository) Create(ctx context.Context, item *clipboard.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetForOwner(ctx context.Context, ownerID, itemID int64) (*clipboard.Item, error) {
	args := m.Called(ctx, ownerID, itemID)
	if item := args.Get(0); item != nil {
		return item.(*clipboard.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockItemRepository) UpdateContent(ctx context.Context, ownerID, itemID int64, content string) (*clipboard.Item, error) {
	args := m.Called(ctx, ownerID, itemID, content)
	if item := args.Get(0); item != nil {
		return item.(*clipboard.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockItemRepository) Delete(ctx context.Context, ownerID, itemID int64) error {
	args := m.Called(ctx, ownerID, itemID)
	return args.Error(0)
}

func (m *MockItemRepository) Share(ctx context.Context, ownerID, itemID int64, code string) error {
	args := m.Called(ctx, ownerID, itemID, code)
	return args.Error(0)
}

func (m *MockItemRepository) Unshare(ctx context.Context, ownerID, itemID int64) error {
	args := m.Called(ctx, ownerID, itemID)
	return args.Error(0)
}

func (m *MockItemRepository) GetByShareCode(ctx context.Context, code string) (*clipboard.SharedView, error) {
	args := m.Called(ctx, code)
	if view := args.Get(0); view != nil {
		return view.(*clipboard.SharedView), args.Error(1)
	}
	return nil, args.Error(1)
}

// Compile-time interface check.
var _ clipboard.ItemRepository = (*MockItemRepository)(nil)
