package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kavirajan452/poel-step-registeration-form/internal/model"
	"github.com/kavirajan452/poel-step-registeration-form/internal/service"
)

type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Submit(ctx context.Context, in service.SubmitInput) (*model.Registration, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *MockSubmissionService) Get(ctx context.Context, id string) (*model.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *MockSubmissionService) List(ctx context.Context, formType string, limit, offset int) (*service.RegistrationListResult, error) {
	args := m.Called(ctx, formType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RegistrationListResult), args.Error(1)
}
