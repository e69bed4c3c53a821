package memory

import (
	"fmt"
	"strconv"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/observability"
)

// UsersRepo is the single concrete implementation of the repository seam.
// It is the only component allowed to touch the raw stored shape.
type UsersRepo struct {
	store   *Store
	metrics *observability.Prom
}

// metrics may be nil (tests).
func NewUsersRepo(store *Store, metrics *observability.Prom) *UsersRepo {
	return &UsersRepo{store: store, metrics: metrics}
}

// FindMany returns every user as an entity, in insertion order.
func (r *UsersRepo) FindMany() ([]user.User, error) {
	var out []user.User

	_ = r.metrics.ObserveStore("find_many", func() error {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()

		out = make([]user.User, 0, len(r.store.users))

		for _, su := range r.store.users {
			out = append(out, toEntity(su))
		}
		return nil
	})

	return out, nil
}

func (r *UsersRepo) FindByID(id string) (user.User, error) {
	var found user.User

	err := r.metrics.ObserveStore("find_by_id", func() error {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()

		for _, su := range r.store.users {
			if su.ID == id {
				found = toEntity(su)
				return nil
			}
		}
		return user.ErrNotFound
	})

	if err != nil {
		return user.User{}, err
	}

	return found, nil
}

// FindByEmail returns the first stored record with a matching email. Email
// is not unique in the collection, so this is first-match semantics, not a
// uniqueness guarantee.
func (r *UsersRepo) FindByEmail(email string) (user.User, error) {
	var found user.User

	err := r.metrics.ObserveStore("find_by_email", func() error {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()

		for _, su := range r.store.users {
			if su.Email == email {
				found = toEntity(su)
				return nil
			}
		}
		return user.ErrNotFound
	})

	if err != nil {
		return user.User{}, err
	}

	return found, nil
}

// Create appends a stored record derived from the entity. Role is forced to
// "user" regardless of what the caller supplied; the entity is returned as
// given. The caller (UserService) must have assigned the id already.
func (r *UsersRepo) Create(u user.User) (user.User, error) {
	_ = r.metrics.ObserveStore("create", func() error {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()

		r.store.users = append(r.store.users, storedUser{
			ID:       u.ID,
			Name:     u.Name,
			Email:    u.Email,
			Password: u.Password,
			Role:     user.RoleUser,
		})

		if r.metrics != nil {
			r.metrics.StoreUsers.Set(float64(len(r.store.users)))
		}
		return nil
	})

	return u, nil
}

// Update replaces the stored record for u.ID, carrying the previously
// stored role forward. An unknown id is a caller logic fault (stale or
// fabricated id) and propagates as an error; callers are expected to have
// fetched the entity first.
func (r *UsersRepo) Update(u user.User) (user.User, error) {
	err := r.metrics.ObserveStore("update", func() error {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()

		for i, su := range r.store.users {
			if su.ID == u.ID {
				r.store.users[i] = storedUser{
					ID:       u.ID,
					Name:     u.Name,
					Email:    u.Email,
					Password: u.Password,
					Role:     su.Role,
				}
				return nil
			}
		}
		return fmt.Errorf("update user %q: %w", u.ID, user.ErrNotFound)
	})

	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

// GenerateID returns the decimal string form of (collection size + 1).
// The scheme is non-stable: ids stay unique only while creation is strictly
// sequential and nothing is ever deleted. Two in-flight creates can observe
// the same size and mint the same id; that hazard is documented in tests
// rather than patched over with an atomic counter.
func (r *UsersRepo) GenerateID() string {
	return strconv.Itoa(r.store.Len() + 1)
}

func toEntity(su storedUser) user.User {
	return user.User{
		ID:       su.ID,
		Name:     su.Name,
		Email:    su.Email,
		Password: su.Password,
		Role:     su.Role,
	}
}
