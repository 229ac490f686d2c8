package recipe

import (
	"context"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

var testIngredients = map[uint]*entities.Ingredient{
	1: {ID: 1, Name: "Salt", MeasurementUnit: "g"},
	2: {ID: 2, Name: "Flour", MeasurementUnit: "g"},
}

type fakeRecipeRepository struct {
	recipes   map[uint]*entities.Recipe
	favorites map[[2]uint]bool
	carts     map[[2]uint]bool
	shopList  []domain.ShopListItem
	created   int
}

func newFakeRecipeRepository() *fakeRecipeRepository {
	return &fakeRecipeRepository{
		recipes:   make(map[uint]*entities.Recipe),
		favorites: make(map[[2]uint]bool),
		carts:     make(map[[2]uint]bool),
	}
}

// store mimics the repository preload: amounts come back with their
// ingredient resolved.
func (f *fakeRecipeRepository) store(recipe *entities.Recipe, tags []*entities.Tag, amounts []*entities.AmountIngredient) {
	for _, amount := range amounts {
		amount.RecipeID = recipe.ID
		amount.Ingredient = testIngredients[amount.IngredientID]
	}
	recipe.Tags = tags
	recipe.Amounts = amounts
	f.recipes[recipe.ID] = recipe
}

func (f *fakeRecipeRepository) CreateRecipe(_ context.Context, recipe *entities.Recipe, tags []*entities.Tag, amounts []*entities.AmountIngredient) error {
	f.created++
	recipe.ID = uint(f.created)
	f.store(recipe, tags, amounts)
	return nil
}

func (f *fakeRecipeRepository) UpdateRecipe(_ context.Context, recipe *entities.Recipe, tags []*entities.Tag, amounts []*entities.AmountIngredient) error {
	f.store(recipe, tags, amounts)
	return nil
}

func (f *fakeRecipeRepository) GetRecipeByID(_ context.Context, id uint) (*entities.Recipe, error) {
	recipe, ok := f.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return recipe, nil
}

func (f *fakeRecipeRepository) GetRecipes(_ context.Context, _ domain.RecipeFilter, _ uint) ([]*entities.Recipe, int64, error) {
	result := make([]*entities.Recipe, 0, len(f.recipes))
	for _, recipe := range f.recipes {
		result = append(result, recipe)
	}
	return result, int64(len(result)), nil
}

func (f *fakeRecipeRepository) DeleteRecipe(_ context.Context, id uint) error {
	delete(f.recipes, id)
	return nil
}

func (f *fakeRecipeRepository) AddFavorite(_ context.Context, userID, recipeID uint) error {
	key := [2]uint{userID, recipeID}
	if f.favorites[key] {
		return gorm.ErrDuplicatedKey
	}
	f.favorites[key] = true
	return nil
}

func (f *fakeRecipeRepository) RemoveFavorite(_ context.Context, userID, recipeID uint) (int64, error) {
	key := [2]uint{userID, recipeID}
	if !f.favorites[key] {
		return 0, nil
	}
	delete(f.favorites, key)
	return 1, nil
}

func (f *fakeRecipeRepository) IsFavorited(_ context.Context, userID, recipeID uint) (bool, error) {
	return f.favorites[[2]uint{userID, recipeID}], nil
}

func (f *fakeRecipeRepository) AddToCart(_ context.Context, userID, recipeID uint) error {
	key := [2]uint{userID, recipeID}
	if f.carts[key] {
		return gorm.ErrDuplicatedKey
	}
	f.carts[key] = true
	return nil
}

func (f *fakeRecipeRepository) RemoveFromCart(_ context.Context, userID, recipeID uint) (int64, error) {
	key := [2]uint{userID, recipeID}
	if !f.carts[key] {
		return 0, nil
	}
	delete(f.carts, key)
	return 1, nil
}

func (f *fakeRecipeRepository) IsInCart(_ context.Context, userID, recipeID uint) (bool, error) {
	return f.carts[[2]uint{userID, recipeID}], nil
}

func (f *fakeRecipeRepository) GetShopList(_ context.Context, _ uint) ([]domain.ShopListItem, error) {
	return f.shopList, nil
}

type fakeUserRepository struct {
	subscribed map[[2]uint]bool
}

func (f *fakeUserRepository) CreateUser(_ context.Context, _ *entities.User) error { return nil }
func (f *fakeUserRepository) GetUserByID(_ context.Context, _ uint) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepository) GetUserByEmail(_ context.Context, _ string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepository) GetUsers(_ context.Context, _, _ int) ([]*entities.User, int64, error) {
	return nil, 0, nil
}
func (f *fakeUserRepository) UpdateUser(_ context.Context, _ *entities.User) error { return nil }
func (f *fakeUserRepository) IsSubscribed(_ context.Context, userID, authorID uint) (bool, error) {
	return f.subscribed[[2]uint{userID, authorID}], nil
}
func (f *fakeUserRepository) CreateSubscribe(_ context.Context, _ *entities.Subscribe) error {
	return nil
}
func (f *fakeUserRepository) DeleteSubscribe(_ context.Context, _, _ uint) (int64, error) {
	return 0, nil
}
func (f *fakeUserRepository) GetSubscriptions(_ context.Context, _ uint, _, _ int) ([]*entities.User, int64, error) {
	return nil, 0, nil
}
func (f *fakeUserRepository) CountRecipesByAuthor(_ context.Context, _ uint) (int64, error) {
	return 0, nil
}
func (f *fakeUserRepository) GetRecipesByAuthor(_ context.Context, _ uint, _ int) ([]*entities.Recipe, error) {
	return nil, nil
}

type fakeTagRepository struct {
	tags map[uint]*entities.Tag
}

func (f *fakeTagRepository) GetTags(_ context.Context) ([]*entities.Tag, error) { return nil, nil }
func (f *fakeTagRepository) GetTagByID(_ context.Context, id uint) (*entities.Tag, error) {
	tag, ok := f.tags[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tag, nil
}
func (f *fakeTagRepository) GetTagsByIDs(_ context.Context, ids []uint) ([]*entities.Tag, error) {
	result := make([]*entities.Tag, 0, len(ids))
	seen := make(map[uint]struct{})
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if tag, ok := f.tags[id]; ok {
			result = append(result, tag)
		}
	}
	return result, nil
}

type fakeIngredientRepository struct {
	ingredients map[uint]*entities.Ingredient
}

func (f *fakeIngredientRepository) GetIngredients(_ context.Context, _ string) ([]*entities.Ingredient, error) {
	return nil, nil
}
func (f *fakeIngredientRepository) GetIngredientByID(_ context.Context, id uint) (*entities.Ingredient, error) {
	item, ok := f.ingredients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}
func (f *fakeIngredientRepository) CountByIDs(_ context.Context, ids []uint) (int64, error) {
	var count int64
	for _, id := range ids {
		if _, ok := f.ingredients[id]; ok {
			count++
		}
	}
	return count, nil
}

func newTestRecipeService(repo *fakeRecipeRepository) RecipeService {
	return NewRecipeService(
		repo,
		&fakeUserRepository{subscribed: make(map[[2]uint]bool)},
		&fakeTagRepository{tags: map[uint]*entities.Tag{
			1: {ID: 1, Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		}},
		&fakeIngredientRepository{ingredients: testIngredients},
		nil,
	)
}

func validCreateRequest() domain.CreateRecipeRequest {
	return domain.CreateRecipeRequest{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 15,
		Tags:        []uint{1},
		Ingredients: []domain.AmountIngredientRequest{{ID: 1, Amount: 5}},
	}
}

func TestCreateRecipeAmountOutOfRange(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := newTestRecipeService(repo)
	ctx := context.Background()

	for _, amount := range []int{0, -3, domain.MaxIngredientAmount + 1} {
		req := validCreateRequest()
		req.Ingredients = []domain.AmountIngredientRequest{{ID: 1, Amount: amount}}

		_, err := service.CreateRecipe(ctx, req, 1)
		assert.ErrorIs(t, err, domain.ErrAmountOutOfRange)
	}
	assert.Empty(t, repo.recipes, "rejected recipes must not be persisted")
}

func TestCreateRecipeAmountBounds(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := newTestRecipeService(repo)
	ctx := context.Background()

	req := validCreateRequest()
	req.Ingredients = []domain.AmountIngredientRequest{{ID: 1, Amount: domain.MaxIngredientAmount}}
	_, err := service.CreateRecipe(ctx, req, 1)
	assert.NoError(t, err)

	req = validCreateRequest()
	req.Name = "Toast"
	req.Ingredients = []domain.AmountIngredientRequest{{ID: 1, Amount: 1}}
	_, err = service.CreateRecipe(ctx, req, 1)
	assert.NoError(t, err)
}

func TestCreateRecipeDuplicateIngredient(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := newTestRecipeService(repo)

	req := validCreateRequest()
	req.Ingredients = []domain.AmountIngredientRequest{
		{ID: 1, Amount: 5},
		{ID: 1, Amount: 7},
	}

	_, err := service.CreateRecipe(context.Background(), req, 1)
	assert.ErrorIs(t, err, domain.ErrDuplicateIngredient)
	assert.Empty(t, repo.recipes)
}

func TestCreateRecipeUnknownAssociations(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := newTestRecipeService(repo)
	ctx := context.Background()

	req := validCreateRequest()
	req.Tags = []uint{99}
	_, err := service.CreateRecipe(ctx, req, 1)
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	req = validCreateRequest()
	req.Ingredients = []domain.AmountIngredientRequest{{ID: 99, Amount: 5}}
	_, err = service.CreateRecipe(ctx, req, 1)
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}

func TestUpdateRecipeRequiresAuthor(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := newTestRecipeService(repo)
	ctx := context.Background()

	created, err := service.CreateRecipe(ctx, validCreateRequest(), 1)
	assert.NoError(t, err)

	name := "Stolen"
	req := domain.UpdateRecipeRequest{
		Name:        &name,
		Tags:        []uint{1},
		Ingredients: []domain.AmountIngredientRequest{{ID: 1, Amount: 5}},
	}
	_, err = service.UpdateRecipe(ctx, created.ID, req, 2)
	assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)

	err = service.DeleteRecipe(ctx, created.ID, 2)
	assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)
}

func TestUpdateRecipeKeepsOmittedScalars(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := newTestRecipeService(repo)
	ctx := context.Background()

	created, err := service.CreateRecipe(ctx, validCreateRequest(), 1)
	assert.NoError(t, err)

	time := 30
	req := domain.UpdateRecipeRequest{
		CookingTime: &time,
		Tags:        []uint{1},
		Ingredients: []domain.AmountIngredientRequest{{ID: 2, Amount: 200}},
	}
	updated, err := service.UpdateRecipe(ctx, created.ID, req, 1)
	assert.NoError(t, err)
	assert.Equal(t, "Pancakes", updated.Name)
	assert.Equal(t, "Mix and fry.", updated.Text)
	assert.Equal(t, 30, updated.CookingTime)
	assert.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "Flour", updated.Ingredients[0].Name)
}

func TestFavoriteLifecycle(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := newTestRecipeService(repo)
	ctx := context.Background()

	created, err := service.CreateRecipe(ctx, validCreateRequest(), 1)
	assert.NoError(t, err)

	summary, err := service.Favorite(ctx, created.ID, 2)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, summary.ID)
	assert.Equal(t, "Pancakes", summary.Name)

	_, err = service.Favorite(ctx, created.ID, 2)
	assert.ErrorIs(t, err, domain.ErrAlreadyFavorited)

	assert.NoError(t, service.Unfavorite(ctx, created.ID, 2))
	assert.ErrorIs(t, service.Unfavorite(ctx, created.ID, 2), domain.ErrNotFavorited)
}

func TestFavoriteMissingRecipe(t *testing.T) {
	service := newTestRecipeService(newFakeRecipeRepository())

	_, err := service.Favorite(context.Background(), 42, 1)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestCartLifecycle(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := newTestRecipeService(repo)
	ctx := context.Background()

	created, err := service.CreateRecipe(ctx, validCreateRequest(), 1)
	assert.NoError(t, err)

	summary, err := service.AddToCart(ctx, created.ID, 2)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, summary.ID)

	_, err = service.AddToCart(ctx, created.ID, 2)
	assert.ErrorIs(t, err, domain.ErrAlreadyInCart)

	assert.NoError(t, service.RemoveFromCart(ctx, created.ID, 2))
	assert.ErrorIs(t, service.RemoveFromCart(ctx, created.ID, 2), domain.ErrNotInCart)
}

func TestDownloadShopListFormatting(t *testing.T) {
	repo := newFakeRecipeRepository()
	repo.shopList = []domain.ShopListItem{
		{Name: "Salt", MeasurementUnit: "g", Amount: 5},
		{Name: "Flour", MeasurementUnit: "g", Amount: 400},
	}
	service := newTestRecipeService(repo)

	text, err := service.DownloadShopList(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, "\nSalt - 5 g\nFlour - 400 g", text)
}

func TestDownloadShopListEmptyCart(t *testing.T) {
	service := newTestRecipeService(newFakeRecipeRepository())

	text, err := service.DownloadShopList(context.Background(), 1)
	assert.NoError(t, err)
	assert.Empty(t, text)
}

func TestAnonymousRequesterFlags(t *testing.T) {
	repo := newFakeRecipeRepository()
	service := newTestRecipeService(repo)
	ctx := context.Background()

	created, err := service.CreateRecipe(ctx, validCreateRequest(), 1)
	assert.NoError(t, err)

	_, err = service.Favorite(ctx, created.ID, 2)
	assert.NoError(t, err)

	res, err := service.GetRecipeDetail(ctx, created.ID, 0)
	assert.NoError(t, err)
	assert.False(t, res.IsFavorited)
	assert.False(t, res.IsInShoppingCart)
	assert.False(t, res.Author.IsSubscribed)
}
