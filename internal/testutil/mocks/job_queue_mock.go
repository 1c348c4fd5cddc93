package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/matchlog/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueDeckSave(mode models.Mode, decks []models.Deck) error {
	args := m.Called(mode, decks)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueTagSave(tags []models.Tag) error {
	args := m.Called(tags)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueSettingsSave(settings models.Settings) error {
	args := m.Called(settings)
	return args.Error(0)
}
