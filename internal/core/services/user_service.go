package services

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"vidtube/internal/core/domain"
	"vidtube/internal/core/ports"
	"vidtube/internal/core/query"
	apperrors "vidtube/pkg/errors"
	"vidtube/pkg/utils"
	"vidtube/pkg/validation"
)

// RegisterInput carries registration fields plus local temp paths of the
// uploaded profile media. CoverImagePath may be empty.
type RegisterInput struct {
	Username       string
	Email          string
	FullName       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// LoginInput accepts either username or email as the account identifier.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// TokenPair is an access/refresh credential pair issued together.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*domain.User, *TokenPair, error)
	Logout(ctx context.Context, userID primitive.ObjectID) error
	RefreshTokens(ctx context.Context, presentedRefreshToken string) (*TokenPair, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error
	GetByID(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateAccount(ctx context.Context, userID primitive.ObjectID, fullName, email string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID primitive.ObjectID, localPath string) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, userID primitive.ObjectID, localPath string) (*domain.User, error)
	GetChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (*domain.ChannelProfile, error)
	GetWatchHistory(ctx context.Context, userID primitive.ObjectID) ([]domain.VideoWithOwner, error)
}

type userService struct {
	users  ports.UserRepository
	media  ports.MediaStorage
	tokens TokenService
}

func NewUserService(users ports.UserRepository, media ports.MediaStorage, tokens TokenService) UserService {
	return &userService{
		users:  users,
		media:  media,
		tokens: tokens,
	}
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := utils.NormalizeUsername(input.Username)
	email := utils.NormalizeEmail(input.Email)

	if err := validation.ValidateUsername(username); err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error())
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error())
	}
	if err := validation.ValidateNonEmptyString(input.FullName, "fullname"); err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error())
	}
	if input.AvatarPath == "" {
		return nil, apperrors.NewInvalidArgumentError("avatar is required")
	}

	existing, err := s.users.FindOne(ctx, query.Or(
		query.Eq("username", username),
		query.Eq("email", email),
	))
	if err == nil && existing != nil {
		return nil, apperrors.NewConflictError("user with this username or email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to hash password", http.StatusInternalServerError)
	}

	avatar, err := s.media.Upload(ctx, input.AvatarPath)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to upload avatar", http.StatusInternalServerError)
	}

	var cover ports.UploadResult
	if input.CoverImagePath != "" {
		cover, err = s.media.Upload(ctx, input.CoverImagePath)
		if err != nil {
			return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to upload cover image", http.StatusInternalServerError)
		}
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:   username,
		Email:      email,
		FullName:   utils.SanitizeString(input.FullName),
		Password:   string(hashed),
		Avatar:     avatar.Ref,
		CoverImage: cover.Ref,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, repoError(err, "user")
	}

	created.Password = ""
	return created, nil
}

func (s *userService) Login(ctx context.Context, input LoginInput) (*domain.User, *TokenPair, error) {
	if input.Username == "" && input.Email == "" {
		return nil, nil, apperrors.NewInvalidArgumentError("username or email is required")
	}
	if input.Password == "" {
		return nil, nil, apperrors.NewInvalidArgumentError("password is required")
	}

	filter := query.Or(
		query.Eq("username", utils.NormalizeUsername(input.Username)),
		query.Eq("email", utils.NormalizeEmail(input.Email)),
	)
	user, err := s.users.FindOne(ctx, filter)
	if err != nil {
		return nil, nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	user.Password = ""
	user.RefreshToken = ""
	return user, pair, nil
}

func (s *userService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	patch := bson.D{
		{Key: "$unset", Value: bson.D{{Key: "refresh_token", Value: ""}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now().UTC()}}},
	}
	if _, err := s.users.UpdateByID(ctx, userID, patch); err != nil {
		return repoError(err, "user")
	}
	return nil
}

// RefreshTokens exchanges a valid, still-persisted refresh token for a fresh
// pair. A rotated-out token fails even when its own signature and expiry are
// valid.
func (s *userService) RefreshTokens(ctx context.Context, presentedRefreshToken string) (*TokenPair, error) {
	if presentedRefreshToken == "" {
		return nil, apperrors.NewUnauthorizedError("refresh token is missing")
	}

	claims, err := s.tokens.ValidateRefreshToken(presentedRefreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := parseID(claims.UserID, "user ID")
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid refresh token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid refresh token")
	}

	if subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(presentedRefreshToken)) != 1 {
		return nil, apperrors.NewUnauthorizedError("refresh token is expired or already used")
	}

	return s.issueTokens(ctx, user.ID)
}

func (s *userService) issueTokens(ctx context.Context, userID primitive.ObjectID) (*TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(userID.Hex())
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to generate access token", http.StatusInternalServerError)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(userID.Hex())
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to generate refresh token", http.StatusInternalServerError)
	}

	patch := bson.D{{Key: "$set", Value: bson.D{
		{Key: "refresh_token", Value: refreshToken},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	if _, err := s.users.UpdateByID(ctx, userID, patch); err != nil {
		return nil, repoError(err, "user")
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return apperrors.NewInvalidArgumentError(err.Error())
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return repoError(err, "user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return apperrors.NewInvalidArgumentError("current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to hash password", http.StatusInternalServerError)
	}

	patch := bson.D{{Key: "$set", Value: bson.D{
		{Key: "password", Value: string(hashed)},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	if _, err := s.users.UpdateByID(ctx, userID, patch); err != nil {
		return repoError(err, "user")
	}
	return nil
}

func (s *userService) GetByID(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, repoError(err, "user")
	}
	user.Password = ""
	user.RefreshToken = ""
	return user, nil
}

func (s *userService) UpdateAccount(ctx context.Context, userID primitive.ObjectID, fullName, email string) (*domain.User, error) {
	if utils.IsEmpty(fullName) && utils.IsEmpty(email) {
		return nil, apperrors.NewInvalidArgumentError("fullname or email is required")
	}

	set := bson.D{{Key: "updated_at", Value: time.Now().UTC()}}
	if !utils.IsEmpty(fullName) {
		set = append(set, bson.E{Key: "fullname", Value: utils.SanitizeString(fullName)})
	}
	if !utils.IsEmpty(email) {
		email = utils.NormalizeEmail(email)
		if err := validation.ValidateEmail(email); err != nil {
			return nil, apperrors.NewInvalidArgumentError(err.Error())
		}
		set = append(set, bson.E{Key: "email", Value: email})
	}

	user, err := s.users.UpdateByID(ctx, userID, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return nil, repoError(err, "user")
	}
	user.Password = ""
	user.RefreshToken = ""
	return user, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID primitive.ObjectID, localPath string) (*domain.User, error) {
	return s.replaceProfileMedia(ctx, userID, localPath, "avatar", func(u *domain.User) domain.MediaRef { return u.Avatar })
}

func (s *userService) UpdateCoverImage(ctx context.Context, userID primitive.ObjectID, localPath string) (*domain.User, error) {
	return s.replaceProfileMedia(ctx, userID, localPath, "cover_image", func(u *domain.User) domain.MediaRef { return u.CoverImage })
}

func (s *userService) replaceProfileMedia(ctx context.Context, userID primitive.ObjectID, localPath, field string, current func(*domain.User) domain.MediaRef) (*domain.User, error) {
	if localPath == "" {
		return nil, apperrors.NewInvalidArgumentError(field + " file is missing")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, repoError(err, "user")
	}
	previous := current(user)

	uploaded, err := s.media.Upload(ctx, localPath)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to upload "+field, http.StatusInternalServerError)
	}

	patch := bson.D{{Key: "$set", Value: bson.D{
		{Key: field, Value: uploaded.Ref},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	updated, err := s.users.UpdateByID(ctx, userID, patch)
	if err != nil {
		return nil, repoError(err, "user")
	}

	if !previous.IsZero() {
		if err := s.media.Delete(ctx, previous.PublicID); err != nil {
			return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to delete previous "+field, http.StatusInternalServerError)
		}
	}

	updated.Password = ""
	updated.RefreshToken = ""
	return updated, nil
}

// GetChannelProfile resolves a public channel page: the user document plus
// subscriber aggregates and whether the viewing principal is subscribed.
func (s *userService) GetChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (*domain.ChannelProfile, error) {
	username = utils.NormalizeUsername(username)
	if err := validation.ValidateUsername(username); err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error())
	}

	pipeline, err := query.NewBuilder().
		Match(query.Eq("username", username)).
		Join(domain.CollectionSubscriptions, "_id", "channel", "subscribers").
		Join(domain.CollectionSubscriptions, "_id", "subscriber", "subscribed_to").
		ComputeField("subscriber_count", query.SizeExpr{Field: "subscribers"}).
		ComputeField("channels_subscribed_to_count", query.SizeExpr{Field: "subscribed_to"}).
		ComputeField("is_subscribed", query.CondInExpr{Elem: viewer, Field: "subscribers.subscriber"}).
		Reshape(
			query.ProjectField{Name: "username"},
			query.ProjectField{Name: "email"},
			query.ProjectField{Name: "fullname"},
			query.ProjectField{Name: "avatar"},
			query.ProjectField{Name: "cover_image"},
			query.ProjectField{Name: "subscriber_count"},
			query.ProjectField{Name: "channels_subscribed_to_count"},
			query.ProjectField{Name: "is_subscribed"},
			query.ProjectField{Name: "created_at"},
		).
		Build()
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to build channel pipeline", http.StatusInternalServerError)
	}

	var profiles []domain.ChannelProfile
	if err := s.users.Aggregate(ctx, pipeline, &profiles); err != nil {
		return nil, repoError(err, "channel")
	}
	if len(profiles) == 0 {
		return nil, apperrors.NewNotFoundError("channel")
	}
	return &profiles[0], nil
}

// GetWatchHistory joins the viewer's watch history onto video documents with
// each video's owner collapsed to a public profile.
func (s *userService) GetWatchHistory(ctx context.Context, userID primitive.ObjectID) ([]domain.VideoWithOwner, error) {
	ownerJoin := []query.Stage{
		query.JoinStage{
			From:         domain.CollectionUsers,
			LocalField:   "owner",
			ForeignField: "_id",
			As:           "owner_profile",
			Inner: []query.Stage{
				query.ReshapeStage{Fields: []query.ProjectField{
					{Name: "username"},
					{Name: "fullname"},
					{Name: "avatar"},
				}},
			},
		},
		query.ComputeFieldStage{Name: "owner_profile", Expr: query.FirstExpr{Field: "owner_profile"}},
	}

	pipeline, err := query.NewBuilder().
		Match(query.EqID("_id", userID)).
		Join(domain.CollectionVideos, "watch_history", "_id", "watch_history", ownerJoin...).
		Build()
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to build watch history pipeline", http.StatusInternalServerError)
	}

	var results []struct {
		WatchHistory []domain.VideoWithOwner `bson:"watch_history"`
	}
	if err := s.users.Aggregate(ctx, pipeline, &results); err != nil {
		return nil, repoError(err, "watch history")
	}
	if len(results) == 0 {
		return nil, apperrors.NewNotFoundError("user")
	}
	return results[0].WatchHistory, nil
}
