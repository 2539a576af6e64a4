package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/auth"
	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/cryptox"
	"github.com/dmitrijs2005/invoicekeeper/internal/kv"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/dmitrijs2005/invoicekeeper/internal/records"
	"github.com/dmitrijs2005/invoicekeeper/internal/validation"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create a local account; e-mails are unique (case-insensitive).
//   - Login: verify the password and persist a signed session token.
//   - Logout: drop the session token.
//   - CurrentUser: resolve the session token to its user.
type AuthService interface {
	Register(ctx context.Context, name, email, company string, password []byte) (models.User, error)
	Login(ctx context.Context, email string, password []byte) (models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (models.User, error)
}

type authService struct {
	store     kv.Store
	users     *records.Collection[models.User]
	validator *validation.Validator
	log       logging.Logger

	secret []byte
	ttl    time.Duration
}

// NewAuthService constructs an AuthService. The session token is signed with
// secret and expires after ttl.
func NewAuthService(store kv.Store, repos *records.Repositories, v *validation.Validator, log logging.Logger, secret []byte, ttl time.Duration) AuthService {
	return &authService{
		store:     store,
		users:     repos.Users,
		validator: v,
		log:       log.With("service", "auth"),
		secret:    secret,
		ttl:       ttl,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register generates a random salt, derives a master key from the password
// and stores only the resulting verifier.
func (a *authService) Register(ctx context.Context, name, email, company string, password []byte) (models.User, error) {
	email = normalizeEmail(email)
	if err := a.validator.Registration(name, email, company, password); err != nil {
		return models.User{}, err
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveMasterKey(password, salt)
	defer common.WipeByteArray(key)

	draft := models.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Company:  strings.TrimSpace(company),
		Salt:     salt,
		Verifier: cryptox.MakeVerifier(key),
	}

	var user models.User
	err := inTx(ctx, a.store, func(ctx context.Context, r *records.Repositories) error {
		existing, err := r.Users.Find(ctx, func(u models.User) bool { return u.Email == email })
		if err != nil {
			return err
		}
		if existing.IsPresent() {
			return fmt.Errorf("%w: e-mail %s is taken", common.ErrAlreadyExists, email)
		}
		user, err = r.Users.Create(ctx, draft)
		return err
	})
	if err != nil {
		return models.User{}, err
	}

	a.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the password against the stored verifier. Unknown e-mails
// and wrong passwords both yield common.ErrUnauthorized.
func (a *authService) Login(ctx context.Context, email string, password []byte) (models.User, error) {
	email = normalizeEmail(email)

	opt, err := a.users.Find(ctx, func(u models.User) bool { return u.Email == email })
	if err != nil {
		return models.User{}, err
	}
	user, ok := opt.Get()
	if !ok || !cryptox.CheckPassword(password, user.Salt, user.Verifier) {
		a.log.Warn(ctx, "login rejected", "email", email)
		return models.User{}, common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, a.secret, a.ttl)
	if err != nil {
		return models.User{}, fmt.Errorf("token error: %w", err)
	}
	if err := a.store.Set(ctx, records.KeySession, []byte(token)); err != nil {
		return models.User{}, fmt.Errorf("session saving error: %w", err)
	}

	a.log.Info(ctx, "user logged in", "user_id", user.ID)
	return user, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.store.Delete(ctx, records.KeySession)
}

// CurrentUser returns the user of the saved session. Without a session, or
// when its user is gone, it returns common.ErrUnauthorized. An expired
// session is removed and reported as common.ErrTokenExpired.
func (a *authService) CurrentUser(ctx context.Context) (models.User, error) {
	token, err := a.store.Get(ctx, records.KeySession)
	if err != nil {
		return models.User{}, err
	}
	if token == nil {
		return models.User{}, common.ErrUnauthorized
	}

	userID, err := auth.GetUserIDFromToken(string(token), a.secret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			_ = a.store.Delete(ctx, records.KeySession)
		}
		return models.User{}, err
	}

	opt, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	user, ok := opt.Get()
	if !ok {
		return models.User{}, common.ErrUnauthorized
	}
	return user, nil
}
