package mock

import (
	"context"
	"sync"

	"github.com/garnizeh/seekaclimb/pkg/models"
)

// Test helpers and mocks
type Mocks struct {
	UserRepo *mockUserRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		UserRepo: &mockUserRepo{},
	}
}

// mockUserRepo keeps users in memory. CreateErr and LookupErr force the
// matching calls to fail.
type mockUserRepo struct {
	mu        sync.Mutex
	Users     []models.User
	CreateErr error
	LookupErr error
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	id := int64(len(m.Users) + 1)
	m.Users = append(m.Users, models.User{ID: id, Name: u.Name, Password: u.Password, PPURL: u.PPURL})
	return id, nil
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	for i := range m.Users {
		if m.Users[i].ID == id {
			u := m.Users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	for i := range m.Users {
		if m.Users[i].Name == name {
			u := m.Users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// Count returns how many users are stored under name.
func (m *mockUserRepo) Count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, u := range m.Users {
		if u.Name == name {
			n++
		}
	}
	return n
}
