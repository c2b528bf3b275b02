package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kavirajan452/poel-step-registeration-form/internal/notify"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, to string, email notify.Email, attachments []notify.Attachment) error {
	args := m.Called(ctx, to, email, attachments)
	return args.Error(0)
}
