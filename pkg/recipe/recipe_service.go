package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils/storage"
	"foodgram-backend/pkg/ingredient"
	"foodgram-backend/pkg/tag"
	"foodgram-backend/pkg/user"

	"gorm.io/gorm"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID uint) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, id uint, req domain.UpdateRecipeRequest, requesterID uint) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, id uint, requesterID uint) error
		GetRecipeDetail(ctx context.Context, id uint, requesterID uint) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, requesterID uint) ([]domain.RecipeResponse, int64, error)

		Favorite(ctx context.Context, recipeID, userID uint) (domain.RecipeSummary, error)
		Unfavorite(ctx context.Context, recipeID, userID uint) error
		AddToCart(ctx context.Context, recipeID, userID uint) (domain.RecipeSummary, error)
		RemoveFromCart(ctx context.Context, recipeID, userID uint) error
		DownloadShopList(ctx context.Context, userID uint) (string, error)
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		userRepository       user.UserRepository
		tagRepository        tag.TagRepository
		ingredientRepository ingredient.IngredientRepository
		s3                   storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	userRepository user.UserRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		userRepository:       userRepository,
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		s3:                   s3,
	}
}

// validateIngredients rejects out-of-range amounts and repeated ingredient
// ids before anything touches the database.
func validateIngredients(items []domain.AmountIngredientRequest) error {
	seen := make(map[uint]struct{}, len(items))
	for _, item := range items {
		if item.Amount < 1 || item.Amount > domain.MaxIngredientAmount {
			return domain.ErrAmountOutOfRange
		}
		if _, ok := seen[item.ID]; ok {
			return domain.ErrDuplicateIngredient
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

func (s *recipeService) resolveAssociations(ctx context.Context, tagIDs []uint, items []domain.AmountIngredientRequest) ([]*entities.Tag, []*entities.AmountIngredient, error) {
	if err := validateIngredients(items); err != nil {
		return nil, nil, err
	}

	tags, err := s.tagRepository.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(tags) != len(uniqueIDs(tagIDs)) {
		return nil, nil, domain.ErrTagNotFound
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	count, err := s.ingredientRepository.CountByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	if count != int64(len(ids)) {
		return nil, nil, domain.ErrIngredientNotFound
	}

	amounts := make([]*entities.AmountIngredient, 0, len(items))
	for _, item := range items {
		amounts = append(amounts, &entities.AmountIngredient{
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	return tags, amounts, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID uint) (domain.RecipeResponse, error) {
	tags, amounts, err := s.resolveAssociations(ctx, req.Tags, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	imageURL := ""
	if req.Image != "" {
		imageURL, err = s.s3.UploadBase64(ctx, req.Image, "recipes")
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	recipe := &entities.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       imageURL,
		CookingTime: req.CookingTime,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe, tags, amounts); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeResponse{}, domain.ErrRecipeAlreadyExists
		}
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipe.ID, authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id uint, req domain.UpdateRecipeRequest, requesterID uint) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	if recipe.AuthorID != requesterID {
		return domain.RecipeResponse{}, domain.ErrNotRecipeAuthor
	}

	tags, amounts, err := s.resolveAssociations(ctx, req.Tags, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if req.Text != nil {
		recipe.Text = *req.Text
	}
	if req.CookingTime != nil {
		recipe.CookingTime = *req.CookingTime
	}
	if req.Image != "" {
		imageURL, err := s.s3.UploadBase64(ctx, req.Image, "recipes")
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		if recipe.Image != "" {
			_ = s.s3.DeleteFile(ctx, s.s3.GetObjectKeyFromLink(recipe.Image))
		}
		recipe.Image = imageURL
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, tags, amounts); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeResponse{}, domain.ErrRecipeAlreadyExists
		}
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipe.ID, requesterID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id uint, requesterID uint) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}
	if recipe.AuthorID != requesterID {
		return domain.ErrNotRecipeAuthor
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	if recipe.Image != "" {
		_ = s.s3.DeleteFile(ctx, s.s3.GetObjectKeyFromLink(recipe.Image))
	}
	return nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, id uint, requesterID uint) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	return s.toRecipeResponse(ctx, recipe, requesterID)
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, requesterID uint) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, requesterID)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		res, err := s.toRecipeResponse(ctx, recipe, requesterID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, res)
	}
	return result, count, nil
}

func (s *recipeService) Favorite(ctx context.Context, recipeID, userID uint) (domain.RecipeSummary, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeSummary{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeSummary{}, err
	}

	favorited, err := s.recipeRepository.IsFavorited(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeSummary{}, err
	}
	if favorited {
		return domain.RecipeSummary{}, domain.ErrAlreadyFavorited
	}

	if err := s.recipeRepository.AddFavorite(ctx, userID, recipeID); err != nil {
		// A concurrent request may win the unique-constraint race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeSummary{}, domain.ErrAlreadyFavorited
		}
		return domain.RecipeSummary{}, err
	}
	return toRecipeSummary(recipe), nil
}

func (s *recipeService) Unfavorite(ctx context.Context, recipeID, userID uint) error {
	rows, err := s.recipeRepository.RemoveFavorite(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFavorited
	}
	return nil
}

func (s *recipeService) AddToCart(ctx context.Context, recipeID, userID uint) (domain.RecipeSummary, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeSummary{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeSummary{}, err
	}

	inCart, err := s.recipeRepository.IsInCart(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeSummary{}, err
	}
	if inCart {
		return domain.RecipeSummary{}, domain.ErrAlreadyInCart
	}

	if err := s.recipeRepository.AddToCart(ctx, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeSummary{}, domain.ErrAlreadyInCart
		}
		return domain.RecipeSummary{}, err
	}
	return toRecipeSummary(recipe), nil
}

func (s *recipeService) RemoveFromCart(ctx context.Context, recipeID, userID uint) error {
	rows, err := s.recipeRepository.RemoveFromCart(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotInCart
	}
	return nil
}

// DownloadShopList renders the aggregated cart ingredients as the plain-text
// shop list, one "{name} - {amount} {unit}" line per ingredient.
func (s *recipeService) DownloadShopList(ctx context.Context, userID uint) (string, error) {
	items, err := s.recipeRepository.GetShopList(ctx, userID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("\n%s - %d %s", item.Name, item.Amount, item.MeasurementUnit))
	}
	return sb.String(), nil
}

func (s *recipeService) toRecipeResponse(ctx context.Context, recipe *entities.Recipe, requesterID uint) (domain.RecipeResponse, error) {
	tags := make([]domain.TagResponse, 0, len(recipe.Tags))
	for _, t := range recipe.Tags {
		tags = append(tags, domain.TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug})
	}

	ingredients := make([]domain.AmountIngredientResponse, 0, len(recipe.Amounts))
	for _, amount := range recipe.Amounts {
		res := domain.AmountIngredientResponse{
			ID:     amount.IngredientID,
			Amount: amount.Amount,
		}
		if amount.Ingredient != nil {
			res.Name = amount.Ingredient.Name
			res.MeasurementUnit = amount.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, res)
	}

	author := domain.UserResponse{ID: recipe.AuthorID}
	if recipe.Author != nil {
		author.Email = recipe.Author.Email
		author.Username = recipe.Author.Username
		author.FirstName = recipe.Author.FirstName
		author.LastName = recipe.Author.LastName
	}

	isFavorited := false
	isInCart := false
	if requesterID != 0 {
		var err error
		if isFavorited, err = s.recipeRepository.IsFavorited(ctx, requesterID, recipe.ID); err != nil {
			return domain.RecipeResponse{}, err
		}
		if isInCart, err = s.recipeRepository.IsInCart(ctx, requesterID, recipe.ID); err != nil {
			return domain.RecipeResponse{}, err
		}
		if requesterID != recipe.AuthorID {
			subscribed, err := s.userRepository.IsSubscribed(ctx, requesterID, recipe.AuthorID)
			if err != nil {
				return domain.RecipeResponse{}, err
			}
			author.IsSubscribed = subscribed
		}
	}

	return domain.RecipeResponse{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}, nil
}

func toRecipeSummary(recipe *entities.Recipe) domain.RecipeSummary {
	return domain.RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
