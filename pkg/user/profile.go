package user

import (
	"errors"
	"time"

	"github.com/cu-events/events-api/internal/errdef"
	"github.com/cu-events/events-api/pkg/docstore"
	"github.com/cu-events/events-api/pkg/model"
)

const (
	fieldName      = "name"
	fieldEmail     = "email"
	fieldCreatedAt = "createdAt"
)

func encodeProfile(user model.User) docstore.Record {
	return docstore.Record{
		fieldName:      user.Name,
		fieldEmail:     user.Email,
		fieldCreatedAt: user.CreatedAt.UTC(),
	}
}

func decodeProfile(id string, record docstore.Record) (*model.User, error) {
	name, nameErr := record.String(fieldName)
	email, emailErr := record.String(fieldEmail)
	createdAt, createdAtErr := record.Time(fieldCreatedAt)
	if err := errors.Join(nameErr, emailErr, createdAtErr); err != nil {
		return nil, errdef.NewMalformedRecord("user %q: %v", id, err)
	}

	return &model.User{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: createdAt.In(time.UTC),
	}, nil
}
