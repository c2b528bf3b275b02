package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kavirajan452/poel-step-registeration-form/internal/model"
	"github.com/kavirajan452/poel-step-registeration-form/internal/repository"
)

type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) Create(ctx context.Context, reg *model.Registration) (*model.Registration, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) SetMeta(ctx context.Context, registrationID, key, value string) error {
	args := m.Called(ctx, registrationID, key, value)
	return args.Error(0)
}

func (m *MockRegistrationRepository) AddFile(ctx context.Context, registrationID string, f *model.StoredFile) error {
	args := m.Called(ctx, registrationID, f)
	return args.Error(0)
}

func (m *MockRegistrationRepository) FindByID(ctx context.Context, id string) (*model.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Registration], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Registration]), args.Error(1)
}

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) Countries(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLocationRepository) StatesByCountry(ctx context.Context, country string) ([]string, error) {
	args := m.Called(ctx, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLocationRepository) CitiesByState(ctx context.Context, state string) ([]string, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
