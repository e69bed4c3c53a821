package service

import "github.com/geocoder89/userhub/internal/domain/user"

// UserRepository is the persistence seam. The in-memory repo is the only
// implementation in scope; a real backend would slot in here.
type UserRepository interface {
	FindMany() ([]user.User, error)
	FindByID(id string) (user.User, error)
	FindByEmail(email string) (user.User, error)
	Create(u user.User) (user.User, error)
	Update(u user.User) (user.User, error)
	GenerateID() string
}

// UserService mediates between the HTTP handlers and the repository. It
// carries no business validation (duplicate emails are allowed through);
// its one invariant is that ids are assigned before persistence.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetUsers() ([]user.User, error) {
	return s.repo.FindMany()
}

func (s *UserService) GetUser(id string) (user.User, error) {
	return s.repo.FindByID(id)
}

// GetUserByEmail exists for the login flow; it is first-match because email
// is not unique in the store.
func (s *UserService) GetUserByEmail(email string) (user.User, error) {
	return s.repo.FindByEmail(email)
}

// Create assigns a generated id before handing the entity to the repo.
// The ordering is load-bearing: the repo stores whatever id the entity
// carries, so skipping this would persist a record with an empty id.
func (s *UserService) Create(u user.User) (user.User, error) {
	u.ID = s.repo.GenerateID()
	return s.repo.Create(u)
}

// Update assumes the entity already carries a valid existing id; callers
// merge partial fields onto a fetched entity first.
func (s *UserService) Update(u user.User) (user.User, error) {
	return s.repo.Update(u)
}
