package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/minishop-api/internal/config"
	"github.com/vasapolrittideah/minishop-api/internal/model"
	"github.com/vasapolrittideah/minishop-api/internal/repository"
	"github.com/vasapolrittideah/minishop-api/shared/apperror"
	"github.com/vasapolrittideah/minishop-api/shared/auth"
	"github.com/vasapolrittideah/minishop-api/shared/wechat"
)

// AuthUsecase defines the interface for login-related use cases.
type AuthUsecase interface {
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)
}

// LoginParams defines the parameters for a mini-program login.
type LoginParams struct {
	Code          string
	IV            string
	EncryptedData string
}

// LoginResult is the outcome of a successful login: the decrypted profile,
// a fresh identity assertion, and the role computed for this request.
type LoginResult struct {
	Profile *wechat.Profile
	Token   string
	Role    model.Role
}

type authUsecase struct {
	userRepo  repository.UserRepository
	sessions  wechat.SessionProvider
	decrypter *wechat.Decrypter
	tokens    *auth.TokenService
	cfg       *config.Config
	logger    *zerolog.Logger
}

// NewAuthUsecase creates a new AuthUsecase instance.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	sessions wechat.SessionProvider,
	decrypter *wechat.Decrypter,
	tokens *auth.TokenService,
	cfg *config.Config,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		sessions:  sessions,
		decrypter: decrypter,
		tokens:    tokens,
		cfg:       cfg,
		logger:    logger,
	}
}

// Login exchanges the one-time code for a provider session, decrypts the
// profile payload with the session key, lazily materializes a user for a
// previously unseen subject, and issues an identity assertion.
func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	session, err := u.sessions.ExchangeCode(ctx, params.Code)
	if err != nil {
		return nil, err
	}

	profile, err := u.decrypter.DecryptProfile(session.SessionKey, params.IV, params.EncryptedData)
	if err != nil {
		return nil, err
	}

	if _, err := u.userRepo.GetUserByOpenID(ctx, session.OpenID); err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewSystem("failed to look up user", err)
		}

		if _, err := u.userRepo.CreateUser(ctx, &model.User{OpenID: session.OpenID}); err != nil {
			// A concurrent first login may have won the unique-index race.
			if !mongo.IsDuplicateKeyError(err) {
				return nil, apperror.NewSystem("failed to create user", err)
			}
		}
	}

	token, err := u.tokens.Issue(session.OpenID)
	if err != nil {
		return nil, err
	}

	// The admin role is computed per request from the allow-list, never
	// stored on the user document.
	role := model.RoleUser
	if u.cfg.IsAdmin(session.OpenID) {
		role = model.RoleAdmin
	}

	return &LoginResult{Profile: profile, Token: token, Role: role}, nil
}
