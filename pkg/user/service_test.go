package user

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cu-events/events-api/internal/errdef"
	"github.com/cu-events/events-api/pkg/docstore"
	"github.com/cu-events/events-api/pkg/model"
	"github.com/go-mail/mail"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

func TestHashPassword(t *testing.T) {
	t.Run("basic hashing", func(t *testing.T) {
		password := "mySecurePassword123"
		hash, err := hashPassword(password)

		require.NoError(t, err)
		require.NotEmpty(t, hash)
		require.Contains(t, hash, "$argon2id$")
	})

	t.Run("hash format and components", func(t *testing.T) {
		password := "testPassword"
		hash, err := hashPassword(password)

		require.NoError(t, err)
		parts := strings.Split(hash, "$")
		require.Len(t, parts, 6)
		require.Equal(t, "argon2id", parts[1])
		require.Contains(t, parts[3], "m=65536")
		require.Contains(t, parts[3], "t=3")
		require.Contains(t, parts[3], "p=4")
	})

	t.Run("hash uniqueness", func(t *testing.T) {
		password := "samePassword"

		hash1, err := hashPassword(password)
		require.NoError(t, err)

		hash2, err := hashPassword(password)
		require.NoError(t, err)

		require.NotEqual(t, hash1, hash2)
	})

	t.Run("verification with comparePasswords", func(t *testing.T) {
		password := "verifyThisPassword"

		hash, err := hashPassword(password)
		require.NoError(t, err)

		match, err := comparePasswords(hash, password)
		require.NoError(t, err)
		require.True(t, match)
	})

	t.Run("empty password", func(t *testing.T) {
		hash, err := hashPassword("")

		require.NoError(t, err)
		require.NotEmpty(t, hash)
	})
}

func TestComparePasswords(t *testing.T) {
	t.Run("successful match", func(t *testing.T) {
		password := "correctPassword123"
		hash, _ := hashPassword(password)

		match, err := comparePasswords(hash, password)

		require.NoError(t, err)
		require.True(t, match)
	})

	t.Run("incorrect password", func(t *testing.T) {
		password := "correctPassword123"
		wrongPassword := "wrongPassword123"
		hash, _ := hashPassword(password)

		match, err := comparePasswords(hash, wrongPassword)

		require.NoError(t, err)
		require.False(t, match)
	})

	t.Run("match with other parameters", func(t *testing.T) {
		salt := []byte("0123456789abcdef")
		hash := argon2.IDKey([]byte("correctPassword123"), salt, 1, 8*1024, 1, 32)
		stored := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s", argon2.Version, 8*1024, 1, 1,
			base64.RawStdEncoding.EncodeToString(salt), base64.RawStdEncoding.EncodeToString(hash))

		match, err := comparePasswords(stored, "correctPassword123")
		require.NoError(t, err)
		require.True(t, match)

		match, err = comparePasswords(stored, "wrongPassword123")
		require.NoError(t, err)
		require.False(t, match)
	})

	t.Run("invalid hash format", func(t *testing.T) {
		invalidHash := "invalidHash"

		match, err := comparePasswords(invalidHash, "anyPassword")

		require.Error(t, err)
		require.False(t, match)
		require.Contains(t, err.Error(), "invalid password hash")
	})

	t.Run("invalid parameters format", func(t *testing.T) {
		invalidHash := "$argon2id$v=19$invalid_params$salt$hash"

		match, err := comparePasswords(invalidHash, "anyPassword")

		require.Error(t, err)
		require.False(t, match)
		require.Contains(t, err.Error(), "invalid password parameters")
	})

	t.Run("invalid base64 salt", func(t *testing.T) {
		invalidHash := "$argon2id$v=19$m=128,t=3,p=4$invalid!!salt$hash"

		match, err := comparePasswords(invalidHash, "anyPassword")

		require.Error(t, err)
		require.False(t, match)
		require.Contains(t, err.Error(), "failed to decode salt")
	})
}

func TestSignUp(t *testing.T) {
	t.Run("CreatesIdentityAndProfile", func(t *testing.T) {
		service, repository, profiles, dialer := newService(t)

		user, err := service.SignUp(context.Background(), " Ralphie ", "ralphie@colorado.edu", "ralphieralphie123")
		require.NoError(t, err)

		assert.Equal(t, "Ralphie", user.Name)
		assert.Equal(t, "ralphie@colorado.edu", user.Email)
		assert.False(t, user.CreatedAt.IsZero())
		identity, err := repository.findById(context.Background(), user.ID)
		require.NoError(t, err)
		assert.False(t, identity.Validated)
		assert.NotEqual(t, "ralphieralphie123", identity.Password)
		record, err := profiles.Get(context.Background(), docstore.Users, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ralphie", record["name"])
		require.Len(t, dialer.sent, 1)
		assert.Equal(t, []string{"ralphie@colorado.edu"}, dialer.sent[0].GetHeader("To"))
	})

	t.Run("NameIsRequired", func(t *testing.T) {
		service, repository, _, _ := newService(t)

		_, err := service.SignUp(context.Background(), "  ", "ralphie@colorado.edu", "ralphieralphie123")

		assert.True(t, errdef.IsBadRequest(err))
		assert.Empty(t, repository.identities)
	})

	t.Run("DuplicatedEmail", func(t *testing.T) {
		service, _, _, _ := newService(t)
		_, err := service.SignUp(context.Background(), "Ralphie", "ralphie@colorado.edu", "ralphieralphie123")
		require.NoError(t, err)

		_, err = service.SignUp(context.Background(), "Ralphie", "ralphie@colorado.edu", "ralphieralphie123")

		assert.True(t, errdef.IsDuplicated(err))
	})

	t.Run("MailFailureDoesNotFailSignUp", func(t *testing.T) {
		service, _, _, dialer := newService(t)
		dialer.err = errors.New("smtp unavailable")

		user, err := service.SignUp(context.Background(), "Ralphie", "ralphie@colorado.edu", "ralphieralphie123")

		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
	})
}

func TestSignIn(t *testing.T) {
	service, repository, _, _ := newService(t)
	user, err := service.SignUp(context.Background(), "Ralphie", "ralphie@colorado.edu", "ralphieralphie123")
	require.NoError(t, err)

	_, err = service.SignIn(context.Background(), "ralphie@colorado.edu", "ralphieralphie123")
	assert.True(t, errdef.IsForbidden(err), "want unverified email to be rejected")

	identity, err := repository.findById(context.Background(), user.ID)
	require.NoError(t, err)
	require.NoError(t, service.ValidateEmail(context.Background(), identity.EmailToken))

	signedIn, err := service.SignIn(context.Background(), "ralphie@colorado.edu", "ralphieralphie123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)

	_, err = service.SignIn(context.Background(), "ralphie@colorado.edu", "wrongwrongwrong123")
	assert.True(t, errdef.IsUnauthorized(err))
	assert.EqualError(t, err, "invalid email and password combination")

	_, err = service.SignIn(context.Background(), "nobody@colorado.edu", "ralphieralphie123")
	assert.True(t, errdef.IsUnauthorized(err))
	assert.EqualError(t, err, "invalid email and password combination")
}

func TestSendVerificationEmail(t *testing.T) {
	service, repository, _, dialer := newService(t)
	user, err := service.SignUp(context.Background(), "Ralphie", "ralphie@colorado.edu", "ralphieralphie123")
	require.NoError(t, err)

	require.NoError(t, service.SendVerificationEmail(context.Background(), "ralphie@colorado.edu"))
	assert.Len(t, dialer.sent, 2)

	require.NoError(t, service.SendVerificationEmail(context.Background(), "nobody@colorado.edu"))
	assert.Len(t, dialer.sent, 2, "want no email sent to unknown users")

	identity, err := repository.findById(context.Background(), user.ID)
	require.NoError(t, err)
	require.NoError(t, service.ValidateEmail(context.Background(), identity.EmailToken))
	require.NoError(t, service.SendVerificationEmail(context.Background(), "ralphie@colorado.edu"))
	assert.Len(t, dialer.sent, 2, "want no email sent to verified users")
}

func TestPasswordReset(t *testing.T) {
	service, repository, _, dialer := newService(t)
	user, err := service.SignUp(context.Background(), "Ralphie", "ralphie@colorado.edu", "ralphieralphie123")
	require.NoError(t, err)
	identity, err := repository.findById(context.Background(), user.ID)
	require.NoError(t, err)
	require.NoError(t, service.ValidateEmail(context.Background(), identity.EmailToken))

	require.NoError(t, service.RequestPasswordReset(context.Background(), "ralphie@colorado.edu"))
	require.Len(t, dialer.sent, 2)
	identity, err = repository.findById(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, identity.PasswordToken.Valid)

	require.NoError(t, service.ResetPassword(context.Background(), identity.PasswordToken.String, "newpasswordnewpassword"))

	_, err = service.SignIn(context.Background(), "ralphie@colorado.edu", "newpasswordnewpassword")
	assert.NoError(t, err)
	assert.True(t, errdef.IsNotFound(service.ResetPassword(context.Background(), identity.PasswordToken.String, "anotherpasswordanother")), "want reset token to be usable once")

	assert.NoError(t, service.RequestPasswordReset(context.Background(), "nobody@colorado.edu"))
}

func TestResetPasswordExpiredToken(t *testing.T) {
	service, repository, _, _ := newService(t)
	_, err := service.SignUp(context.Background(), "Ralphie", "ralphie@colorado.edu", "ralphieralphie123")
	require.NoError(t, err)
	require.NoError(t, service.RequestPasswordReset(context.Background(), "ralphie@colorado.edu"))
	identity, err := repository.findByEmail(context.Background(), "ralphie@colorado.edu")
	require.NoError(t, err)
	identity.PasswordTokenTTL = uint(time.Now().Add(-time.Minute).Unix())
	require.NoError(t, repository.save(context.Background(), identity))

	err = service.ResetPassword(context.Background(), identity.PasswordToken.String, "newpasswordnewpassword")

	assert.True(t, errdef.IsBadRequest(err))
}

func TestUpdateName(t *testing.T) {
	service, _, profiles, _ := newService(t)
	user, err := service.SignUp(context.Background(), "Ralphie", "ralphie@colorado.edu", "ralphieralphie123")
	require.NoError(t, err)

	updated, err := service.UpdateName(context.Background(), user.ID, "Ralphie the Buffalo")
	require.NoError(t, err)

	assert.Equal(t, "Ralphie the Buffalo", updated.Name)
	assert.Equal(t, "ralphie@colorado.edu", updated.Email)
	assert.True(t, user.CreatedAt.Equal(updated.CreatedAt), "want createdAt kept by the merge-write")

	_, err = service.UpdateName(context.Background(), user.ID, "")
	assert.True(t, errdef.IsBadRequest(err))

	profiles.failSet = true
	_, err = service.UpdateName(context.Background(), user.ID, "Chip")
	assert.True(t, errdef.IsUpdateFailed(err))
}

func TestDelete(t *testing.T) {
	service, repository, profiles, _ := newService(t)
	user, err := service.SignUp(context.Background(), "Ralphie", "ralphie@colorado.edu", "ralphieralphie123")
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), user.ID))

	_, err = service.FindByID(context.Background(), user.ID)
	assert.True(t, errdef.IsNotFound(err))
	_, err = repository.findById(context.Background(), user.ID)
	assert.True(t, errdef.IsNotFound(err))
	_, err = profiles.Get(context.Background(), docstore.Users, user.ID)
	assert.True(t, errdef.IsNotFound(err))

	assert.True(t, errdef.IsNotFound(service.Delete(context.Background(), user.ID)))
}

func newService(t *testing.T) (*Service, *fakeRepository, *fakeProfiles, *fakeDialer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repository := &fakeRepository{identities: map[string]*model.Identity{}}
	profiles := &fakeProfiles{Store: docstore.NewMemory()}
	dialer := &fakeDialer{}
	return NewService(logger, "https://events.colorado.edu", 900, repository, profiles, dialer), repository, profiles, dialer
}

type fakeDialer struct {
	sent []*mail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*mail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

type fakeProfiles struct {
	docstore.Store
	failSet bool
}

func (p *fakeProfiles) Set(ctx context.Context, collection, id string, record docstore.Record, merge bool) error {
	if p.failSet {
		return errors.New("store unavailable")
	}
	return p.Store.Set(ctx, collection, id, record, merge)
}

// fakeRepository keeps identities in memory. Returned identities are copies like the rows read by
// gorm.
type fakeRepository struct {
	mu         sync.Mutex
	identities map[string]*model.Identity
}

func (r *fakeRepository) find(match func(*model.Identity) bool) (*model.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, identity := range r.identities {
		if match(identity) {
			c := *identity
			return &c, nil
		}
	}
	return nil, errdef.NewNotFound("identity not found")
}

func (r *fakeRepository) create(_ context.Context, identity *model.Identity) error {
	if _, err := r.findByEmail(context.Background(), identity.Email); err == nil {
		return errdef.NewDuplicated("user %q already exists", identity.Email)
	}
	return r.save(context.Background(), identity)
}

func (r *fakeRepository) save(_ context.Context, identity *model.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = time.Now()
	}
	c := *identity
	r.identities[identity.ID] = &c
	return nil
}

func (r *fakeRepository) findById(_ context.Context, id string) (*model.Identity, error) {
	return r.find(func(i *model.Identity) bool { return i.ID == id })
}

func (r *fakeRepository) findByEmail(_ context.Context, email string) (*model.Identity, error) {
	return r.find(func(i *model.Identity) bool { return i.Email == email })
}

func (r *fakeRepository) findByEmailToken(_ context.Context, token uuid.UUID) (*model.Identity, error) {
	return r.find(func(i *model.Identity) bool { return i.EmailToken == token })
}

func (r *fakeRepository) findByPasswordResetToken(_ context.Context, token string) (*model.Identity, error) {
	return r.find(func(i *model.Identity) bool { return i.PasswordToken.Valid && i.PasswordToken.String == token })
}

func (r *fakeRepository) resetPassword(ctx context.Context, identity *model.Identity) error {
	identity.PasswordToken.Valid = false
	identity.PasswordToken.String = ""
	return r.save(ctx, identity)
}

func (r *fakeRepository) delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.identities[id]; !ok {
		return errdef.NewNotFound("identity not found")
	}
	delete(r.identities, id)
	return nil
}
