package user

import (
	"context"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	users      map[uint]*entities.User
	subscribes map[[2]uint]bool
	recipes    map[uint][]*entities.Recipe
	nextID     uint
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users:      make(map[uint]*entities.User),
		subscribes: make(map[[2]uint]bool),
		recipes:    make(map[uint][]*entities.Recipe),
	}
}

func (f *fakeUserRepository) CreateUser(_ context.Context, user *entities.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepository) GetUserByID(_ context.Context, id uint) (*entities.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetUsers(_ context.Context, _, _ int) ([]*entities.User, int64, error) {
	result := make([]*entities.User, 0, len(f.users))
	for _, user := range f.users {
		result = append(result, user)
	}
	return result, int64(len(result)), nil
}

func (f *fakeUserRepository) UpdateUser(_ context.Context, user *entities.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepository) IsSubscribed(_ context.Context, userID, authorID uint) (bool, error) {
	return f.subscribes[[2]uint{userID, authorID}], nil
}

func (f *fakeUserRepository) CreateSubscribe(_ context.Context, subscribe *entities.Subscribe) error {
	key := [2]uint{subscribe.UserID, subscribe.AuthorID}
	if f.subscribes[key] {
		return gorm.ErrDuplicatedKey
	}
	f.subscribes[key] = true
	return nil
}

func (f *fakeUserRepository) DeleteSubscribe(_ context.Context, userID, authorID uint) (int64, error) {
	key := [2]uint{userID, authorID}
	if !f.subscribes[key] {
		return 0, nil
	}
	delete(f.subscribes, key)
	return 1, nil
}

func (f *fakeUserRepository) GetSubscriptions(_ context.Context, userID uint, _, _ int) ([]*entities.User, int64, error) {
	var result []*entities.User
	for key := range f.subscribes {
		if key[0] == userID {
			result = append(result, f.users[key[1]])
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeUserRepository) CountRecipesByAuthor(_ context.Context, authorID uint) (int64, error) {
	return int64(len(f.recipes[authorID])), nil
}

func (f *fakeUserRepository) GetRecipesByAuthor(_ context.Context, authorID uint, limit int) ([]*entities.Recipe, error) {
	recipes := f.recipes[authorID]
	if limit > 0 && limit < len(recipes) {
		recipes = recipes[:limit]
	}
	return recipes, nil
}

func newTestUserService(repo *fakeUserRepository) UserService {
	return NewUserService(repo, jwt.NewJWTService(), nil)
}

func seedUser(repo *fakeUserRepository, email, password string) *entities.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &entities.User{
		Email:     email,
		Username:  email,
		FirstName: "Test",
		LastName:  "User",
		Password:  string(hashed),
	}
	_ = repo.CreateUser(context.Background(), user)
	return user
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepository()
	service := newTestUserService(repo)
	ctx := context.Background()

	req := domain.RegisterRequest{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "First",
		LastName:  "Last",
		Password:  "supersecret",
	}
	_, err := service.Register(ctx, req)
	assert.NoError(t, err)

	req.Username = "othercook"
	_, err = service.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepository()
	service := newTestUserService(repo)
	ctx := context.Background()
	seedUser(repo, "cook@example.com", "supersecret")

	res, err := service.Login(ctx, domain.LoginRequest{Email: "cook@example.com", Password: "supersecret"})
	assert.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = service.Login(ctx, domain.LoginRequest{Email: "cook@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)

	_, err = service.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)
}

func TestSetPasswordWrongCurrent(t *testing.T) {
	repo := newFakeUserRepository()
	service := newTestUserService(repo)
	ctx := context.Background()
	user := seedUser(repo, "cook@example.com", "supersecret")

	err := service.SetPassword(ctx, domain.SetPasswordRequest{
		NewPassword:     "evenmoresecret",
		CurrentPassword: "wrong",
	}, user.ID)
	assert.ErrorIs(t, err, domain.ErrPasswordNotMatch)

	err = service.SetPassword(ctx, domain.SetPasswordRequest{
		NewPassword:     "evenmoresecret",
		CurrentPassword: "supersecret",
	}, user.ID)
	assert.NoError(t, err)

	_, err = service.Login(ctx, domain.LoginRequest{Email: "cook@example.com", Password: "evenmoresecret"})
	assert.NoError(t, err)
}

func TestSubscribeToSelf(t *testing.T) {
	repo := newFakeUserRepository()
	service := newTestUserService(repo)
	ctx := context.Background()
	user := seedUser(repo, "cook@example.com", "supersecret")

	// the error is the same whether or not a subscription row could exist
	_, err := service.Subscribe(ctx, user.ID, user.ID)
	assert.ErrorIs(t, err, domain.ErrSelfSubscribe)

	_, err = service.CheckSubscription(ctx, user.ID, user.ID)
	assert.ErrorIs(t, err, domain.ErrSelfSubscribe)
}

func TestSubscribeLifecycle(t *testing.T) {
	repo := newFakeUserRepository()
	service := newTestUserService(repo)
	ctx := context.Background()
	follower := seedUser(repo, "follower@example.com", "supersecret")
	author := seedUser(repo, "author@example.com", "supersecret")

	res, err := service.Subscribe(ctx, author.ID, follower.ID)
	assert.NoError(t, err)
	assert.Equal(t, author.ID, res.ID)
	assert.True(t, res.IsSubscribed)

	_, err = service.Subscribe(ctx, author.ID, follower.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)

	assert.NoError(t, service.Unsubscribe(ctx, author.ID, follower.ID))
	assert.ErrorIs(t, service.Unsubscribe(ctx, author.ID, follower.ID), domain.ErrSubscribeNotFound)
}

func TestSubscribeMissingAuthor(t *testing.T) {
	repo := newFakeUserRepository()
	service := newTestUserService(repo)
	follower := seedUser(repo, "follower@example.com", "supersecret")

	_, err := service.Subscribe(context.Background(), 42, follower.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetSubscriptionsRecipesLimit(t *testing.T) {
	repo := newFakeUserRepository()
	service := newTestUserService(repo)
	ctx := context.Background()
	follower := seedUser(repo, "follower@example.com", "supersecret")
	author := seedUser(repo, "author@example.com", "supersecret")

	for i := 0; i < 5; i++ {
		repo.recipes[author.ID] = append(repo.recipes[author.ID], &entities.Recipe{
			ID:          uint(i + 1),
			AuthorID:    author.ID,
			Name:        "Recipe",
			CookingTime: 10,
		})
	}

	_, err := service.Subscribe(ctx, author.ID, follower.ID)
	assert.NoError(t, err)

	subs, count, err := service.GetSubscriptions(ctx, 1, 6, 2, follower.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Len(t, subs, 1)
	assert.Len(t, subs[0].Recipes, 2, "recipes_limit caps the summaries")
	assert.Equal(t, int64(5), subs[0].RecipesCount, "count stays uncapped")
	assert.True(t, subs[0].IsSubscribed)
}

func TestGetUserDetailSubscribedFlag(t *testing.T) {
	repo := newFakeUserRepository()
	service := newTestUserService(repo)
	ctx := context.Background()
	follower := seedUser(repo, "follower@example.com", "supersecret")
	author := seedUser(repo, "author@example.com", "supersecret")

	_, err := service.Subscribe(ctx, author.ID, follower.ID)
	assert.NoError(t, err)

	res, err := service.GetUserDetail(ctx, author.ID, follower.ID)
	assert.NoError(t, err)
	assert.True(t, res.IsSubscribed)

	// anonymous requester never sees a subscription
	res, err = service.GetUserDetail(ctx, author.ID, 0)
	assert.NoError(t, err)
	assert.False(t, res.IsSubscribed)
}
