package user

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cu-events/events-api/internal/errdef"
	"github.com/cu-events/events-api/pkg/docstore"

	"github.com/cu-events/events-api/pkg/model"
	"github.com/go-mail/mail"
	"golang.org/x/crypto/argon2"
)

const from = "CU Events <no-reply@colorado.edu>"

func NewService(logger *slog.Logger, uiUrl string, passwordTokenTtl uint, repository identityRepository, profiles profileStore, dialer dailer) *Service {
	return &Service{
		logger:           logger,
		uiUrl:            uiUrl,
		passwordTokenTtl: passwordTokenTtl,
		repository:       repository,
		profiles:         profiles,
		dailer:           dialer,
	}
}

type identityRepository interface {
	create(ctx context.Context, identity *model.Identity) error
	save(ctx context.Context, identity *model.Identity) error
	findById(ctx context.Context, id string) (*model.Identity, error)
	findByEmail(ctx context.Context, email string) (*model.Identity, error)
	findByEmailToken(ctx context.Context, token uuid.UUID) (*model.Identity, error)
	findByPasswordResetToken(ctx context.Context, token string) (*model.Identity, error)
	resetPassword(ctx context.Context, identity *model.Identity) error
	delete(ctx context.Context, id string) error
}

type profileStore interface {
	Get(ctx context.Context, collection, id string) (docstore.Record, error)
	Set(ctx context.Context, collection, id string, record docstore.Record, merge bool) error
	Delete(ctx context.Context, collection, id string) error
}

type dailer interface {
	DialAndSend(m ...*mail.Message) error
}

// Service is the identity provider. Credentials are kept in a relational identity record while the
// profile of the user is a document in the Users collection sharing the identity's id.
type Service struct {
	logger           *slog.Logger
	uiUrl            string
	passwordTokenTtl uint
	repository       identityRepository
	profiles         profileStore
	dailer           dailer
}

// SignUp creates the identity and the profile of a new user and sends the email verification link.
// The user can't sign in before the email is verified.
func (s Service) SignUp(ctx context.Context, name string, email string, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errdef.NewBadRequest("name is required")
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %v", err)
	}

	identity := &model.Identity{
		ID:         uuid.NewString(),
		Email:      email,
		EmailToken: uuid.New(),
		Password:   hashedPassword,
	}
	err = s.repository.create(ctx, identity)
	if err != nil {
		return nil, err
	}

	user := model.User{
		ID:        identity.ID,
		Name:      name,
		Email:     email,
		CreatedAt: identity.CreatedAt.UTC(),
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	ctx = context.WithoutCancel(ctx)
	if err := s.profiles.Set(ctx, docstore.Users, user.ID, encodeProfile(user), false); err != nil {
		if err := s.repository.delete(ctx, identity.ID); err != nil {
			s.logger.ErrorContext(ctx, "Failed to remove identity of incomplete sign up", "id", identity.ID, "error", err)
		}
		return nil, fmt.Errorf("failed to store profile of user %q: %v", email, err)
	}

	if err := s.sendValidationEmail(identity); err != nil {
		s.logger.ErrorContext(ctx, "Failed to send validation email", "id", identity.ID, "error", err)
	}

	return &user, nil
}

// SendVerificationEmail sends the email verification link again. Nothing is sent if no user with
// the given email exists or the email is already verified.
func (s Service) SendVerificationEmail(ctx context.Context, email string) error {
	identity, err := s.repository.findByEmail(ctx, email)
	if err != nil {
		if errdef.IsNotFound(err) {
			return nil
		}
		return err
	}

	if identity.Validated {
		return nil
	}

	if err := s.sendValidationEmail(identity); err != nil {
		return fmt.Errorf("failed to send validation email: %v", err)
	}
	return nil
}

func (s Service) sendValidationEmail(identity *model.Identity) error {
	m := mail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", identity.Email)
	m.SetHeader("Subject", "Welcome to CU Events")
	link := fmt.Sprintf("%s/validate/%s", s.uiUrl, identity.EmailToken)
	body := fmt.Sprintf("Hello, please click the below link to verify your email.<br/>%s", link)
	m.SetBody("text/html", body)
	return s.dailer.DialAndSend(m)
}

// Argon2id parameters stored alongside every hash. Hashes made with other parameters still verify.
const (
	argonMemory  = 64 * 1024
	argonTime    = 3
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

func hashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonTime,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func comparePasswords(storedPassword string, suppliedPassword string) (bool, error) {
	parts := strings.Split(storedPassword, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, errors.New("invalid password hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("invalid password hash version: %v", err)
	}
	if version != argon2.Version {
		return false, fmt.Errorf("incompatible argon2 version: %d", version)
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, fmt.Errorf("invalid password parameters: %v", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %v", err)
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %v", err)
	}

	supplied := argon2.IDKey([]byte(suppliedPassword), salt, iterations, memory, threads, uint32(len(hash)))

	return subtle.ConstantTimeCompare(hash, supplied) == 1, nil
}

func (s Service) ValidateEmail(ctx context.Context, token uuid.UUID) error {
	identity, err := s.repository.findByEmailToken(ctx, token)
	if err != nil {
		return err
	}

	identity.Validated = true
	return s.repository.save(context.WithoutCancel(ctx), identity)
}

func (s Service) SignIn(ctx context.Context, email string, password string) (*model.Identity, error) {
	const unauthorizedError = "invalid email and password combination"

	identity, err := s.repository.findByEmail(ctx, email)
	if err != nil {
		if errdef.IsNotFound(err) {
			return nil, errdef.NewUnauthorized(unauthorizedError)
		}
		return nil, err
	}

	match, err := comparePasswords(identity.Password, password)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %v", err)
	}

	if !match {
		return nil, errdef.NewUnauthorized(unauthorizedError)
	}

	if !identity.Validated {
		return nil, errdef.NewForbidden("account not validated")
	}

	return identity, nil
}

// FindByID returns the profile of a user.
func (s Service) FindByID(ctx context.Context, id string) (*model.User, error) {
	record, err := s.profiles.Get(ctx, docstore.Users, id)
	if err != nil {
		return nil, err
	}

	return decodeProfile(id, record)
}

// FindIdentityByID returns the identity record of a user.
func (s Service) FindIdentityByID(ctx context.Context, id string) (*model.Identity, error) {
	return s.repository.findById(ctx, id)
}

// UpdateName changes the name on the profile of a user. The email is written alongside the name so
// the profile always carries the email of the identity.
func (s Service) UpdateName(ctx context.Context, id string, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errdef.NewBadRequest("name is required")
	}

	identity, err := s.repository.findById(ctx, id)
	if err != nil {
		return nil, err
	}

	record := docstore.Record{
		fieldName:  name,
		fieldEmail: identity.Email,
	}
	if err := s.profiles.Set(context.WithoutCancel(ctx), docstore.Users, id, record, true); err != nil {
		return nil, errdef.NewUpdateFailed("failed to update user %q: %v", id, err)
	}

	return s.FindByID(ctx, id)
}

// Delete removes the profile of a user and then its identity. Events the user RSVPed to keep the
// users id.
func (s Service) Delete(ctx context.Context, id string) error {
	ctx = context.WithoutCancel(ctx)
	if err := s.profiles.Delete(ctx, docstore.Users, id); err != nil {
		return fmt.Errorf("failed to delete profile of user %q: %v", id, err)
	}

	return s.repository.delete(ctx, id)
}

func (s Service) sendResetPasswordEmail(identity *model.Identity) error {
	m := mail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", identity.Email)
	m.SetHeader("Subject", "Reset your CU Events password")
	link := fmt.Sprintf("%s/reset-password/%s", s.uiUrl, identity.PasswordToken.String)
	body := fmt.Sprintf("Hello, please click the link below to reset your password.<br/>%s", link)
	m.SetBody("text/html", body)
	return s.dailer.DialAndSend(m)
}

// RequestPasswordReset sends a password reset link. Unknown emails are ignored so the endpoint
// can't be used to find out who has an account.
func (s Service) RequestPasswordReset(ctx context.Context, email string) error {
	identity, err := s.repository.findByEmail(ctx, email)
	if err != nil {
		if errdef.IsNotFound(err) {
			return nil
		}
		return err
	}

	bytes := make([]byte, 64)
	if _, err := rand.Read(bytes); err != nil {
		return err
	}
	token := base64.URLEncoding.EncodeToString(bytes)

	identity.PasswordToken = sql.NullString{String: token, Valid: true}
	identity.PasswordTokenTTL = uint(time.Now().Unix()) + s.passwordTokenTtl

	err = s.sendResetPasswordEmail(identity)
	if err != nil {
		return err
	}

	return s.repository.save(context.WithoutCancel(ctx), identity)
}

func (s Service) ResetPassword(ctx context.Context, token string, password string) error {
	identity, err := s.repository.findByPasswordResetToken(ctx, token)
	if err != nil {
		return err
	}

	tokenTtl := time.Unix(int64(identity.PasswordTokenTTL), 0).UTC()
	if tokenTtl.Before(time.Now()) {
		return errdef.NewBadRequest("reset token has expired")
	}

	identity.Password, err = hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	return s.repository.resetPassword(context.WithoutCancel(ctx), identity)
}
