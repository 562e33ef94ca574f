package repository

import (
	"auction-house/internal/biddingerrors"
	model "auction-house/internal/models"
	"auction-house/utils"
	"context"
	"fmt"
	"strings"
	"sync"
)

// UserRepo is the credential store: it owns the user collection
type UserRepo struct {
	mu       sync.Mutex
	store    Store
	comparer PasswordComparer
}

type UserRepoOption func(*UserRepo)

// WithPasswordComparer replaces the default plain-text comparer
func WithPasswordComparer(comparer PasswordComparer) UserRepoOption {
	return func(r *UserRepo) {
		r.comparer = comparer
	}
}

// NewUserRepo creates a new credential store backed by store
func NewUserRepo(store Store, opts ...UserRepoOption) *UserRepo {
	r := &UserRepo{
		store:    store,
		comparer: PlainComparer{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// load reads all users. Callers must hold r.mu.
func (r *UserRepo) load(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if _, err := r.store.Load(ctx, KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

func findByEmail(users []model.User, email string) (model.User, bool) {
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return model.User{}, false
}

// FindByEmail looks a user up by case-insensitive email
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return model.User{}, false, err
	}
	user, ok := findByEmail(users, email)
	return user, ok, nil
}

// Insert adds a user, encoding its secret with the configured comparer
func (r *UserRepo) Insert(ctx context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return model.User{}, err
	}
	user, err = r.prepare(users, user)
	if err != nil {
		return model.User{}, err
	}

	users = append(users, user)
	if err := r.store.Save(ctx, KeyUsers, users); err != nil {
		return model.User{}, fmt.Errorf("save users: %w", err)
	}
	return user, nil
}

// prepare checks user against users and fills in the stored password, id and role.
func (r *UserRepo) prepare(users []model.User, user model.User) (model.User, error) {
	if _, exists := findByEmail(users, user.Email); exists {
		return model.User{}, fmt.Errorf("insert user %s: %w", user.Email, biddingerrors.ErrDuplicateEmail)
	}

	encoded, err := r.comparer.Encode(user.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("insert user %s: %w", user.Email, err)
	}
	user.Password = encoded
	if user.ID == "" {
		user.ID = utils.GenerateOrderedID()
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	return user, nil
}

// Verify returns the user only when the email matches case-insensitively and the
// secret matches. A missing user and a wrong secret are indistinguishable.
func (r *UserRepo) Verify(ctx context.Context, email, secret string) (model.User, bool, error) {
	user, ok, err := r.FindByEmail(ctx, email)
	if err != nil || !ok {
		return model.User{}, false, err
	}

	matches, err := r.comparer.Matches(user.Password, secret)
	if err != nil {
		utils.Warn("credential comparison failed", map[string]any{"email": user.Email, "error": err.Error()})
		return model.User{}, false, nil
	}
	if !matches {
		return model.User{}, false, nil
	}
	return user, true, nil
}

// SeedIfEmpty inserts users only when the collection holds no users yet.
// It returns the number of users inserted.
func (r *UserRepo) SeedIfEmpty(ctx context.Context, seed []model.User) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	if len(users) > 0 {
		return 0, nil
	}

	for _, u := range seed {
		prepared, err := r.prepare(users, u)
		if err != nil {
			return 0, fmt.Errorf("seed users: %w", err)
		}
		users = append(users, prepared)
	}
	if len(users) == 0 {
		return 0, nil
	}
	if err := r.store.Save(ctx, KeyUsers, users); err != nil {
		return 0, fmt.Errorf("seed users: %w", err)
	}
	return len(users), nil
}
