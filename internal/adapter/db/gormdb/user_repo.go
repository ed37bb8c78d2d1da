package gormdb

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-directory-service/internal/domain/user"
	pkgerrors "user-directory-service/pkg/errors"
)

// UserRepo implements the Repository interface on top of GORM. It works
// against any configured dialect (sqlite for local setups, postgres in
// production).
type UserRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema is the row shape of the users table. Email and mobile number
// carry unique indexes, the storage-level backstop behind the uniqueness
// check done on create.
type UserSchema struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"not null;unique"`
	MobileNumber string `gorm:"not null;unique"`
}

// TableName maps UserSchema onto the users table.
func (UserSchema) TableName() string {
	return "users"
}

// Migrate creates the users table if it does not exist yet.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

func (s *UserSchema) toDomain() *user.User {
	return &user.User{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		MobileNumber: s.MobileNumber,
	}
}

// Create inserts a new user row and returns the generated id.
func (r *UserRepo) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	row := UserSchema{Name: u.Name, Email: u.Email, MobileNumber: u.MobileNumber}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		r.log.Error("user insert failed", zap.String("email", u.Email), zap.Error(err))
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user row inserted", zap.Int64("id", row.ID))
	return row.ID, nil
}

// Update overwrites the row identified by u.ID with u's values.
func (r *UserRepo) Update(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	row := UserSchema{ID: u.ID, Name: u.Name, Email: u.Email, MobileNumber: u.MobileNumber}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		r.log.Error("user update failed", zap.Int64("id", u.ID), zap.Error(err))
		return 0, fmt.Errorf("failed to update user: %w", err)
	}

	r.log.Info("user row updated", zap.Int64("id", row.ID))
	return row.ID, nil
}

// Delete removes the row for the given id.
func (r *UserRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, errors.New("invalid user id")
	}

	if err := r.db.WithContext(ctx).Delete(&UserSchema{}, id).Error; err != nil {
		r.log.Error("user delete failed", zap.Int64("id", id), zap.Error(err))
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}

	r.log.Info("user row deleted", zap.Int64("id", id))
	return id, nil
}

// GetByID loads a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var row UserSchema
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user not found", zap.Int64("id", id))
			return nil, pkgerrors.NewNotFoundError("user", "User not found")
		}
		r.log.Error("user lookup failed", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return row.toDomain(), nil
}

// GetByEmailOrMobile retrieves the first user whose email or mobile number
// matches. A miss is reported as (nil, nil) so callers can distinguish
// "no such user" from a storage failure.
func (r *UserRepo) GetByEmailOrMobile(ctx context.Context, email, mobile string) (*user.User, error) {
	var row UserSchema
	err := r.db.WithContext(ctx).
		Where("email = ? OR mobile_number = ?", email, mobile).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("no user holds email or mobile number", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("user uniqueness lookup failed", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to get user by email or mobile: %w", err)
	}

	return row.toDomain(), nil
}

// List returns every stored user.
func (r *UserRepo) List(ctx context.Context) ([]user.User, error) {
	var rows []UserSchema
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		r.log.Error("user list failed", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, 0, len(rows))
	for i := range rows {
		users = append(users, *rows[i].toDomain())
	}

	return users, nil
}
