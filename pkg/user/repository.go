package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cu-events/events-api/internal/errdef"
	"github.com/google/uuid"

	"github.com/cu-events/events-api/pkg/model"
	"gorm.io/gorm"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) save(ctx context.Context, identity *model.Identity) error {
	return r.db.WithContext(ctx).Save(identity).Error
}

func (r repository) create(ctx context.Context, identity *model.Identity) error {
	err := r.db.WithContext(ctx).Create(identity).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("user %q already exists", identity.Email)
	}

	return err
}

func (r repository) findByEmail(ctx context.Context, email string) (*model.Identity, error) {
	var identity *model.Identity
	err := r.db.
		WithContext(ctx).
		Where("email = ?", email).
		First(&identity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find user with email %q", email)
	}
	return identity, err
}

func (r repository) findByEmailToken(ctx context.Context, token uuid.UUID) (*model.Identity, error) {
	var identity *model.Identity
	err := r.db.WithContext(ctx).First(&identity, "email_token = ?", token.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find user with email token %q", token.String())
	}
	return identity, err
}

func (r repository) findByPasswordResetToken(ctx context.Context, token string) (*model.Identity, error) {
	var identity *model.Identity
	err := r.db.WithContext(ctx).First(&identity, "password_token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find user with the given reset token")
	}
	return identity, err
}

func (r repository) findById(ctx context.Context, id string) (*model.Identity, error) {
	var identity *model.Identity
	err := r.db.
		WithContext(ctx).
		First(&identity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find user with id %q", id)
	}
	return identity, err
}

func (r repository) delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx).Unscoped().Delete(&model.Identity{}, "id = ?", id)
	if db.Error != nil {
		return fmt.Errorf("failed to delete user with id %q: %v", id, db.Error)
	} else if db.RowsAffected < 1 {
		return errdef.NewNotFound("failed to find user with id %q", id)
	}

	return nil
}

func (r repository) resetPassword(ctx context.Context, identity *model.Identity) error {
	updated := model.Identity{
		Password:      identity.Password,
		PasswordToken: sql.NullString{String: "", Valid: false},
	}

	err := r.db.
		WithContext(ctx).
		Model(identity).
		Select("Password", "PasswordToken").
		Updates(updated).Error
	if err != nil {
		return fmt.Errorf("failed to update user password: %v", err)
	}

	return nil
}
