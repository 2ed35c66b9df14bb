package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"vidtube/internal/core/domain"
	"vidtube/internal/core/ports"
	apperrors "vidtube/pkg/errors"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	appErr := apperrors.GetAppError(err)
	assert.NotNil(t, appErr, "expected an application error, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestUserService_Register_DuplicateUser(t *testing.T) {
	users := new(mockUserRepo)
	media := new(mockMediaStorage)
	svc := NewUserService(users, media, newTestTokenService())

	existing := &domain.User{Username: "alice"}
	users.On("FindOne", mock.Anything, mock.Anything).Return(existing, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username:   "alice",
		Email:      "alice@example.com",
		FullName:   "Alice",
		Password:   "secret1",
		AvatarPath: "/tmp/avatar.png",
	})

	assertCode(t, err, apperrors.ErrCodeConflict)
	media.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestUserService_Register_MissingAvatar(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users, new(mockMediaStorage), newTestTokenService())

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice",
		Password: "secret1",
	})

	assertCode(t, err, apperrors.ErrCodeInvalidArgument)
	users.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
}

func TestUserService_Register_StripsPasswordFromResult(t *testing.T) {
	users := new(mockUserRepo)
	media := new(mockMediaStorage)
	svc := NewUserService(users, media, newTestTokenService())

	users.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	media.On("Upload", mock.Anything, "/tmp/avatar.png").Return(ports.UploadResult{
		Ref: domain.MediaRef{URL: "https://cdn/avatar.png", PublicID: "avatar-1"},
	}, nil)
	users.On("Create", mock.Anything, mock.Anything).Return(&domain.User{
		ID:       primitive.NewObjectID(),
		Username: "alice",
		Password: "$2a$hash",
	}, nil)

	created, err := svc.Register(context.Background(), RegisterInput{
		Username:   "Alice",
		Email:      "alice@example.com",
		FullName:   "Alice",
		Password:   "secret1",
		AvatarPath: "/tmp/avatar.png",
	})

	assert.NoError(t, err)
	assert.Empty(t, created.Password)
	assert.Equal(t, "alice", created.Username)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users, new(mockMediaStorage), newTestTokenService())

	user := &domain.User{
		ID:       primitive.NewObjectID(),
		Username: "alice",
		Password: hashPassword(t, "correct-password"),
	}
	users.On("FindOne", mock.Anything, mock.Anything).Return(user, nil)

	_, _, err := svc.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "wrong-password",
	})

	assertCode(t, err, apperrors.ErrCodeUnauthorized)
}

func TestUserService_Login_UnknownUser(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users, new(mockMediaStorage), newTestTokenService())

	users.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	_, _, err := svc.Login(context.Background(), LoginInput{
		Username: "ghost",
		Password: "whatever",
	})

	assertCode(t, err, apperrors.ErrCodeUnauthorized)
}

func TestUserService_Login_IssuesAndPersistsTokens(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users, new(mockMediaStorage), newTestTokenService())

	userID := primitive.NewObjectID()
	user := &domain.User{
		ID:       userID,
		Username: "alice",
		Password: hashPassword(t, "secret1"),
	}
	users.On("FindOne", mock.Anything, mock.Anything).Return(user, nil)
	users.On("UpdateByID", mock.Anything, userID, mock.Anything).Return(user, nil)

	loggedIn, pair, err := svc.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "secret1",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Empty(t, loggedIn.Password)
	assert.Empty(t, loggedIn.RefreshToken)
	users.AssertCalled(t, "UpdateByID", mock.Anything, userID, mock.Anything)
}

func TestUserService_RefreshTokens_RotatedTokenRejected(t *testing.T) {
	users := new(mockUserRepo)
	tokens := newTestTokenService()
	svc := NewUserService(users, new(mockMediaStorage), tokens)

	userID := primitive.NewObjectID()
	presented, err := tokens.GenerateRefreshToken(userID.Hex())
	assert.NoError(t, err)
	stored, err := tokens.GenerateRefreshToken(userID.Hex())
	assert.NoError(t, err)

	// The persisted token has moved on; the presented one is signed and
	// unexpired but no longer current.
	users.On("FindByID", mock.Anything, userID).Return(&domain.User{
		ID:           userID,
		RefreshToken: stored,
	}, nil)

	_, err = svc.RefreshTokens(context.Background(), presented)
	assertCode(t, err, apperrors.ErrCodeUnauthorized)
	users.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_RefreshTokens_CurrentTokenRotates(t *testing.T) {
	users := new(mockUserRepo)
	tokens := newTestTokenService()
	svc := NewUserService(users, new(mockMediaStorage), tokens)

	userID := primitive.NewObjectID()
	current, err := tokens.GenerateRefreshToken(userID.Hex())
	assert.NoError(t, err)

	users.On("FindByID", mock.Anything, userID).Return(&domain.User{
		ID:           userID,
		RefreshToken: current,
	}, nil)
	users.On("UpdateByID", mock.Anything, userID, mock.Anything).Return(&domain.User{ID: userID}, nil)

	pair, err := svc.RefreshTokens(context.Background(), current)
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestUserService_RefreshTokens_MissingToken(t *testing.T) {
	svc := NewUserService(new(mockUserRepo), new(mockMediaStorage), newTestTokenService())

	_, err := svc.RefreshTokens(context.Background(), "")
	assertCode(t, err, apperrors.ErrCodeUnauthorized)
}

func TestUserService_ChangePassword_WrongCurrentPassword(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users, new(mockMediaStorage), newTestTokenService())

	userID := primitive.NewObjectID()
	users.On("FindByID", mock.Anything, userID).Return(&domain.User{
		ID:       userID,
		Password: hashPassword(t, "actual-password"),
	}, nil)

	err := svc.ChangePassword(context.Background(), userID, "guessed-password", "new-password")
	assertCode(t, err, apperrors.ErrCodeInvalidArgument)
	users.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Logout_ClearsRefreshToken(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users, new(mockMediaStorage), newTestTokenService())

	userID := primitive.NewObjectID()
	users.On("UpdateByID", mock.Anything, userID, mock.MatchedBy(func(patch bson.D) bool {
		for _, e := range patch {
			if e.Key == "$unset" {
				return true
			}
		}
		return false
	})).Return(&domain.User{ID: userID}, nil)

	err := svc.Logout(context.Background(), userID)
	assert.NoError(t, err)
	users.AssertExpectations(t)
}

func TestUserService_UpdateAvatar_DeletesPreviousAfterSwap(t *testing.T) {
	users := new(mockUserRepo)
	media := new(mockMediaStorage)
	svc := NewUserService(users, media, newTestTokenService())

	userID := primitive.NewObjectID()
	users.On("FindByID", mock.Anything, userID).Return(&domain.User{
		ID:     userID,
		Avatar: domain.MediaRef{URL: "https://cdn/old.png", PublicID: "old-avatar"},
	}, nil)
	media.On("Upload", mock.Anything, "/tmp/new.png").Return(ports.UploadResult{
		Ref: domain.MediaRef{URL: "https://cdn/new.png", PublicID: "new-avatar"},
	}, nil)
	users.On("UpdateByID", mock.Anything, userID, mock.Anything).Return(&domain.User{
		ID:     userID,
		Avatar: domain.MediaRef{URL: "https://cdn/new.png", PublicID: "new-avatar"},
	}, nil)
	media.On("Delete", mock.Anything, "old-avatar").Return(nil)

	updated, err := svc.UpdateAvatar(context.Background(), userID, "/tmp/new.png")
	assert.NoError(t, err)
	assert.Equal(t, "new-avatar", updated.Avatar.PublicID)
	media.AssertCalled(t, "Delete", mock.Anything, "old-avatar")
}

func TestUserService_GetChannelProfile_UnknownChannel(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users, new(mockMediaStorage), newTestTokenService())

	users.On("Aggregate", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.GetChannelProfile(context.Background(), "nosuchchannel", primitive.NewObjectID())
	assertCode(t, err, apperrors.ErrCodeNotFound)
}

func TestUserService_GetChannelProfile_ReturnsAggregates(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users, new(mockMediaStorage), newTestTokenService())

	users.On("Aggregate", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		out := args.Get(2).(*[]domain.ChannelProfile)
		*out = append(*out, domain.ChannelProfile{
			Username:                 "alice",
			SubscriberCount:          42,
			ChannelSubscribedToCount: 7,
			IsSubscribed:             true,
			CreatedAt:                time.Now(),
		})
	}).Return(nil)

	profile, err := svc.GetChannelProfile(context.Background(), "alice", primitive.NewObjectID())
	assert.NoError(t, err)
	assert.Equal(t, int64(42), profile.SubscriberCount)
	assert.True(t, profile.IsSubscribed)
}
