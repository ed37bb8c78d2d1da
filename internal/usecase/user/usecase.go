package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "user-directory-service/internal/domain/user"
	pkgerrors "user-directory-service/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// MsgDuplicateUser is returned when a create collides with a stored email
// or mobile number.
const MsgDuplicateUser = "User with this email or mobile number already exists"

// userUsecase implements the business logic for user directory operations.
// It provides a clean separation between the transport layer and data layer.
type userUsecase struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new user usecase backed by the provided repository.
func New(r Repository, log *zap.Logger) Usecase {
	return &userUsecase{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a typed
// validation error with a human-readable message.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		return pkgerrors.NewValidationError("", strings.Join(messages, ", "))
	}
	return err
}

// internalOrPassthrough keeps typed errors intact and wraps anything else
// so raw storage errors never reach the transport layer.
func internalOrPassthrough(message string, err error) error {
	var statuser pkgerrors.HTTPStatuser
	if errors.As(err, &statuser) {
		return err
	}
	return pkgerrors.NewInternalError(message, err)
}

// CreateUser creates a new user after validating the request and checking
// that neither the email nor the mobile number is already taken. Both fields
// are checked with a single lookup.
func (uc *userUsecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	uc.log.Info("creating user",
		zap.String("name", in.Name),
		zap.String("email", in.Email),
		zap.String("mobile_number", in.MobileNumber),
	)

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := uc.repo.GetByEmailOrMobile(ctx, in.Email, in.MobileNumber)
	if err != nil {
		uc.log.Error("failed to check user uniqueness", zap.String("email", in.Email), zap.Error(err))
		return nil, internalOrPassthrough("failed to check user uniqueness", err)
	}
	if existing != nil {
		uc.log.Warn("duplicate email or mobile number",
			zap.String("email", in.Email),
			zap.Int64("existing_id", existing.ID),
		)
		return nil, pkgerrors.NewConflictError("user", MsgDuplicateUser)
	}

	id, err := uc.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		MobileNumber: in.MobileNumber,
	})
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, internalOrPassthrough("failed to create user", err)
	}

	return &CreateUserResponse{User: User{
		ID:           id,
		Name:         in.Name,
		Email:        in.Email,
		MobileNumber: in.MobileNumber,
	}}, nil
}

// UpdateUser replaces the name, email and mobile number of an existing user.
// The record must exist; uniqueness of the new values is not re-checked, so
// a collision surfaces as a storage error from the unique indexes.
func (uc *userUsecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*UpdateUserResponse, error) {
	uc.log.Info("updating user",
		zap.Int64("id", in.ID),
		zap.String("name", in.Name),
		zap.String("email", in.Email),
	)

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Warn("failed to load user for update", zap.Int64("id", in.ID), zap.Error(err))
		return nil, internalOrPassthrough("failed to load user", err)
	}

	existing.Name = in.Name
	existing.Email = in.Email
	existing.MobileNumber = in.MobileNumber

	if _, err := uc.repo.Update(ctx, existing); err != nil {
		uc.log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, internalOrPassthrough("failed to update user", err)
	}

	return &UpdateUserResponse{User: User{
		ID:           existing.ID,
		Name:         existing.Name,
		Email:        existing.Email,
		MobileNumber: existing.MobileNumber,
	}}, nil
}

// DeleteUser removes an existing user. The record must exist.
func (uc *userUsecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	uc.log.Info("deleting user", zap.Int64("id", in.ID))

	if _, err := uc.repo.GetByID(ctx, in.ID); err != nil {
		uc.log.Warn("failed to load user for delete", zap.Int64("id", in.ID), zap.Error(err))
		return nil, internalOrPassthrough("failed to load user", err)
	}

	id, err := uc.repo.Delete(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, internalOrPassthrough("failed to delete user", err)
	}

	return &DeleteUserResponse{ID: id}, nil
}

// GetUser retrieves a user by ID.
func (uc *userUsecase) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Warn("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, internalOrPassthrough("failed to get user", err)
	}

	return &GetUserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		MobileNumber: u.MobileNumber,
	}, nil
}

// ListUsers retrieves every stored user.
func (uc *userUsecase) ListUsers(ctx context.Context, _ ListUsersRequest) (*ListUsersResponse, error) {
	domainUsers, err := uc.repo.List(ctx)
	if err != nil {
		uc.log.Error("failed to list users", zap.Error(err))
		return nil, internalOrPassthrough("failed to list users", err)
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = User{
			ID:           du.ID,
			Name:         du.Name,
			Email:        du.Email,
			MobileNumber: du.MobileNumber,
		}
	}

	return &ListUsersResponse{Users: users}, nil
}
