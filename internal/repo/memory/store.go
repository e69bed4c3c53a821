package memory

import "sync"

// storedUser is the repository-internal persisted shape. Only this package
// reads or writes it; everything above the repo sees the user entity.
type storedUser struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     string
}

// Store owns the in-memory user collection. It is constructed once at
// process start and injected into the repository, so tests get isolated
// instances instead of sharing module-level state.
//
// The mutex makes individual operations memory-safe under gin's concurrent
// handlers. It does not make GenerateID-then-Create atomic; see the repo.
type Store struct {
	mu    sync.RWMutex
	users []storedUser
}

func NewStore() *Store {
	return &Store{}
}

// NewSeededStore returns a store preloaded with the fixed seed set. The
// duplicate james@gmail.com entry is intentional: email is not unique and
// lookups are first-match.
func NewSeededStore() *Store {
	return &Store{
		users: []storedUser{
			{ID: "1", Name: "John Doe", Email: "john@gmail.com", Password: "testpassword", Role: "admin"},
			{ID: "2", Name: "Jane Doe", Email: "jane@gmail.com", Password: "testpassword", Role: "user"},
			{ID: "3", Name: "James Smith", Email: "james@gmail.com", Password: "testpassword", Role: "user"},
			{ID: "4", Name: "Jessica Smith", Email: "jessica@gmail.com", Password: "testpassword", Role: "user"},
			{ID: "5", Name: "James Smith", Email: "james@gmail.com", Password: "testpassword", Role: "user"},
		},
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users)
}
