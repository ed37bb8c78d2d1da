package user

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Name         string `validate:"required"`
	Email        string `validate:"required"`
	MobileNumber string `validate:"required"`
}

// CreateUserResponse carries the stored user after a successful create.
type CreateUserResponse struct {
	User User
}

// UpdateUserRequest represents the request payload for updating an existing user.
// An update replaces every mutable field of the record.
type UpdateUserRequest struct {
	ID           int64
	Name         string `validate:"required"`
	Email        string `validate:"required"`
	MobileNumber string `validate:"required"`
}

// UpdateUserResponse carries the stored user after a successful update.
type UpdateUserResponse struct {
	User User
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64
}

// DeleteUserResponse represents the response payload after deleting a user.
type DeleteUserResponse struct {
	ID int64
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// GetUserResponse represents the response payload for user details.
type GetUserResponse struct {
	ID           int64
	Name         string
	Email        string
	MobileNumber string
}

// ListUsersRequest represents the request payload for listing users.
// Every stored user is returned; there are no filters.
type ListUsersRequest struct{}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []User
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID           int64
	Name         string
	Email        string
	MobileNumber string
}
