package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"travelmap/db"

	"github.com/lib/pq"
)

// MemoryStore is an in-memory stand-in for db.Queries that keeps the same
// ordering and constraint behaviour as the postgres schema.
type MemoryStore struct {
	mu         sync.Mutex
	users      []db.User
	countries  []db.Country
	visited    []db.VisitedCountry
	nextUserID int64
	nextVisit  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextUserID: 1, nextVisit: 1}
}

func (m *MemoryStore) SeedUsers(users ...db.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range users {
		m.users = append(m.users, u)
		if u.ID >= m.nextUserID {
			m.nextUserID = u.ID + 1
		}
	}
}

func (m *MemoryStore) SeedCountries(countries ...db.Country) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.countries = append(m.countries, countries...)
}

// Visited returns a copy of every visited record
func (m *MemoryStore) Visited() []db.VisitedCountry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]db.VisitedCountry, len(m.visited))
	copy(out, m.visited)
	return out
}

func (m *MemoryStore) ListUsers(_ context.Context) ([]db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]db.User, len(m.users))
	copy(out, m.users)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) CreateUser(_ context.Context, arg db.CreateUserParams) (db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := db.User{ID: m.nextUserID, Name: arg.Name, Color: arg.Color}
	m.nextUserID++
	m.users = append(m.users, u)
	return u, nil
}

func (m *MemoryStore) FindCountriesByName(_ context.Context, fragment string) ([]db.Country, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fragment = strings.ToLower(fragment)

	var out []db.Country
	for _, c := range m.countries {
		if strings.Contains(strings.ToLower(c.CountryName), fragment) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CountryCode < out[j].CountryCode })
	return out, nil
}

func (m *MemoryStore) ListVisitedCountryCodes(_ context.Context, userID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	for _, v := range m.visited {
		if v.UserID == userID {
			out = append(out, v.CountryCode)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryStore) AddVisitedCountry(_ context.Context, arg db.AddVisitedCountryParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range m.visited {
		if v.UserID == arg.UserID && v.CountryCode == arg.CountryCode {
			return &pq.Error{
				Code:       "23505",
				Message:    `duplicate key value violates unique constraint "visited_country_user_id_country_code_key"`,
				Constraint: "visited_country_user_id_country_code_key",
			}
		}
	}

	m.visited = append(m.visited, db.VisitedCountry{
		ID:          m.nextVisit,
		CountryCode: arg.CountryCode,
		UserID:      arg.UserID,
	})
	m.nextVisit++
	return nil
}
