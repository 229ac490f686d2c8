package domain

import "errors"

// MaxIngredientAmount bounds a single ingredient quantity in a recipe write.
const MaxIngredientAmount = 32000

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessFavorite        = "recipe added to favorites"
	MessageSuccessUnfavorite      = "recipe removed from favorites"
	MessageSuccessAddToCart       = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart  = "recipe removed from shopping cart"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedFavorite        = "failed to add recipe to favorites"
	MessageFailedUnfavorite      = "failed to remove recipe from favorites"
	MessageFailedCart            = "failed to update shopping cart"
	MessageFailedDownloadCart    = "failed to download shopping cart"

	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrRecipeAlreadyExists = errors.New("name: you already have a recipe with this name")
	ErrNotRecipeAuthor     = errors.New("only the author can modify this recipe")
	ErrAmountOutOfRange    = errors.New("amount: ingredient amount must be between 1 and 32000")
	ErrDuplicateIngredient = errors.New("ingredient: ingredients must be unique")
	ErrIngredientNotFound  = errors.New("ingredient not found")
	ErrTagNotFound         = errors.New("tag not found")
	ErrAlreadyFavorited    = errors.New("recipe already added to favorites")
	ErrNotFavorited        = errors.New("recipe is not in favorites")
	ErrAlreadyInCart       = errors.New("recipe already added to shopping cart")
	ErrNotInCart           = errors.New("recipe is not in shopping cart")
)

type (
	AmountIngredientRequest struct {
		ID     uint `json:"id" validate:"required"`
		Amount int  `json:"amount" validate:"required"`
	}

	CreateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1,max=300"`
		Image       string                    `json:"image"`
		Tags        []uint                    `json:"tags" validate:"required,min=1"`
		Ingredients []AmountIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	// UpdateRecipeRequest carries a partial update: nil scalar fields keep
	// their stored values, the tag and ingredient lists always replace the
	// stored associations.
	UpdateRecipeRequest struct {
		Name        *string                   `json:"name" validate:"omitempty,max=200"`
		Text        *string                   `json:"text"`
		CookingTime *int                      `json:"cooking_time" validate:"omitempty,min=1,max=300"`
		Image       string                    `json:"image"`
		Tags        []uint                    `json:"tags" validate:"required,min=1"`
		Ingredients []AmountIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	AmountIngredientResponse struct {
		ID              uint   `json:"id"`
		Name            string `json:"name"`
		Amount          int    `json:"amount"`
		MeasurementUnit string `json:"measurement_unit"`
	}

	TagResponse struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}

	RecipeResponse struct {
		ID               uint                       `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           UserResponse               `json:"author"`
		Ingredients      []AmountIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Name             string                     `json:"name"`
		Image            string                     `json:"image"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
	}

	RecipeSummary struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeFilter struct {
		Tags             []string
		Author           uint
		IsFavorited      bool
		IsInShoppingCart bool
		Page             int
		Limit            int
	}

	// ShopListItem is one aggregated line of the shopping cart download.
	ShopListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}
)
