package usecase_test

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/minishop-api/internal/config"
	"github.com/vasapolrittideah/minishop-api/internal/model"
	"github.com/vasapolrittideah/minishop-api/internal/usecase"
	"github.com/vasapolrittideah/minishop-api/shared/apperror"
	"github.com/vasapolrittideah/minishop-api/shared/auth"
	"github.com/vasapolrittideah/minishop-api/shared/wechat"
)

const (
	testAppID  = "wx-test-app"
	testSecret = "test-signing-secret"
)

type fakeUserRepo struct {
	users   map[string]*model.User
	created int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	if _, ok := f.users[user.OpenID]; ok {
		return nil, errors.New("duplicate key")
	}

	user.ID = bson.NewObjectID()
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	f.users[user.OpenID] = user
	f.created++

	return user, nil
}

func (f *fakeUserRepo) GetUserByOpenID(_ context.Context, openID string) (*model.User, error) {
	user, ok := f.users[openID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	return user, nil
}

type fakeSessionProvider struct {
	session *wechat.Session
	err     error
}

func (f *fakeSessionProvider) ExchangeCode(context.Context, string) (*wechat.Session, error) {
	return f.session, f.err
}

// encryptProfile produces a provider-style AES-128-CBC payload for the given
// app id, returning the base64 session key, iv and ciphertext.
func encryptProfile(t *testing.T, appID string, profile map[string]any) (string, string, string) {
	t.Helper()

	profile["watermark"] = map[string]any{"appid": appID}

	plain, err := json.Marshal(profile)
	require.NoError(t, err)

	key := bytes.Repeat([]byte{0x42}, 16)
	iv := bytes.Repeat([]byte{0x24}, 16)

	padding := aes.BlockSize - len(plain)%aes.BlockSize
	plain = append(plain, bytes.Repeat([]byte{byte(padding)}, padding)...)

	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	cipherText := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(cipherText, plain)

	return base64.StdEncoding.EncodeToString(key),
		base64.StdEncoding.EncodeToString(iv),
		base64.StdEncoding.EncodeToString(cipherText)
}

func newAuthFixture(userRepo *fakeUserRepo, sessions wechat.SessionProvider, adminSubjects ...string) (usecase.AuthUsecase, *auth.TokenService) {
	logger := zerolog.Nop()
	cfg := &config.Config{AppID: testAppID, AdminSubjects: adminSubjects}
	tokens := auth.NewTokenService(testSecret)

	return usecase.NewAuthUsecase(
		userRepo,
		sessions,
		wechat.NewDecrypter(testAppID),
		tokens,
		cfg,
		&logger,
	), tokens
}

func TestLoginCreatesUserLazily(t *testing.T) {
	sessionKey, iv, encryptedData := encryptProfile(t, testAppID, map[string]any{"nickName": "张三"})

	userRepo := newFakeUserRepo()
	sessions := &fakeSessionProvider{session: &wechat.Session{OpenID: "openid-123", SessionKey: sessionKey}}
	authUsecase, tokens := newAuthFixture(userRepo, sessions)

	params := usecase.LoginParams{Code: "abc", IV: iv, EncryptedData: encryptedData}

	result, err := authUsecase.Login(context.Background(), params)
	require.NoError(t, err)
	require.Equal(t, model.RoleUser, result.Role)
	require.Equal(t, "张三", result.Profile.NickName)
	require.Equal(t, 1, userRepo.created)
	require.Equal(t, model.RoleUser, userRepo.users["openid-123"].Role)

	// The issued assertion binds the provider subject.
	subject, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	require.Equal(t, "openid-123", subject)

	// A second login for the same subject must not create another user.
	_, err = authUsecase.Login(context.Background(), params)
	require.NoError(t, err)
	require.Equal(t, 1, userRepo.created)
}

func TestLoginAdminAllowList(t *testing.T) {
	sessionKey, iv, encryptedData := encryptProfile(t, testAppID, map[string]any{"nickName": "admin"})

	userRepo := newFakeUserRepo()
	sessions := &fakeSessionProvider{session: &wechat.Session{OpenID: "admin-openid", SessionKey: sessionKey}}
	authUsecase, _ := newAuthFixture(userRepo, sessions, "admin-openid")

	result, err := authUsecase.Login(context.Background(), usecase.LoginParams{
		Code: "abc", IV: iv, EncryptedData: encryptedData,
	})
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, result.Role)

	// The admin role is computed, never stored.
	require.Equal(t, model.RoleUser, userRepo.users["admin-openid"].Role)
}

func TestLoginExchangeFailure(t *testing.T) {
	sessions := &fakeSessionProvider{err: apperror.NewSystem("code exchange returned no session", nil)}
	authUsecase, _ := newAuthFixture(newFakeUserRepo(), sessions)

	_, err := authUsecase.Login(context.Background(), usecase.LoginParams{Code: "abc"})
	require.Error(t, err)
	require.True(t, apperror.IsKind(err, apperror.KindSystem))
}

func TestLoginTamperedPayload(t *testing.T) {
	// Payload encrypted for a different app id: decrypts, then fails the
	// watermark check.
	sessionKey, iv, encryptedData := encryptProfile(t, "wx-other-app", map[string]any{"nickName": "张三"})

	userRepo := newFakeUserRepo()
	sessions := &fakeSessionProvider{session: &wechat.Session{OpenID: "openid-123", SessionKey: sessionKey}}
	authUsecase, _ := newAuthFixture(userRepo, sessions)

	_, err := authUsecase.Login(context.Background(), usecase.LoginParams{
		Code: "abc", IV: iv, EncryptedData: encryptedData,
	})
	require.Error(t, err)
	require.True(t, apperror.IsKind(err, apperror.KindInput))
	require.EqualError(t, err, "illegal buffer")

	// No user materializes for a rejected login.
	require.Equal(t, 0, userRepo.created)
}
