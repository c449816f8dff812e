package mocks

import (
	"context"

	"travelmap/db"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of the tracker store, used to inject failures
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListUsers(ctx context.Context) ([]db.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]db.User)
	return users, args.Error(1)
}

func (m *MockStore) CreateUser(ctx context.Context, arg db.CreateUserParams) (db.User, error) {
	args := m.Called(ctx, arg)
	user, _ := args.Get(0).(db.User)
	return user, args.Error(1)
}

func (m *MockStore) FindCountriesByName(ctx context.Context, fragment string) ([]db.Country, error) {
	args := m.Called(ctx, fragment)
	countries, _ := args.Get(0).([]db.Country)
	return countries, args.Error(1)
}

func (m *MockStore) ListVisitedCountryCodes(ctx context.Context, userID int64) ([]string, error) {
	args := m.Called(ctx, userID)
	codes, _ := args.Get(0).([]string)
	return codes, args.Error(1)
}

func (m *MockStore) AddVisitedCountry(ctx context.Context, arg db.AddVisitedCountryParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}
