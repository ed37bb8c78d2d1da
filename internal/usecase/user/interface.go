package user

import (
	"context"

	domain "user-directory-service/internal/domain/user"
)

// Usecase defines the user directory operations exposed to the transport
// layer.
type Usecase interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*UpdateUserResponse, error)
	DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error)
	GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error)
	ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error)
}

// Repository defines the interface for user data access operations.
// It abstracts the data layer so different backends can be used
// interchangeably, including caching decorators.
type Repository interface {
	// Create stores a new user and returns its generated ID.
	Create(ctx context.Context, u *domain.User) (int64, error)
	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// GetByEmailOrMobile retrieves the first user whose email or mobile
	// number matches. A miss is reported as (nil, nil).
	GetByEmailOrMobile(ctx context.Context, email, mobile string) (*domain.User, error)
	// Update persists the given user over its existing record.
	Update(ctx context.Context, u *domain.User) (int64, error)
	// Delete removes a user by ID.
	Delete(ctx context.Context, id int64) (int64, error)
	// List returns every stored user.
	List(ctx context.Context) ([]domain.User, error)
}
