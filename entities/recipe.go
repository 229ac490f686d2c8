package entities

import "time"

type Recipe struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	AuthorID    uint   `gorm:"uniqueIndex:idx_recipes_name_author;not null" json:"author_id"`
	Name        string `gorm:"size:200;uniqueIndex:idx_recipes_name_author;not null" json:"name"`
	Text        string `gorm:"type:text" json:"text"`
	Image       string `json:"image,omitempty"`
	CookingTime int    `gorm:"check:cooking_time BETWEEN 1 AND 300" json:"cooking_time"`

	Author  *User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Tags    []*Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Amounts []*AmountIngredient `gorm:"foreignKey:RecipeID" json:"amounts,omitempty"`
	Timestamp
}

// AmountIngredient links a recipe to an ingredient with the required quantity.
type AmountIngredient struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RecipeID     uint `gorm:"uniqueIndex:idx_amounts_recipe_ingredient;not null" json:"recipe_id"`
	IngredientID uint `gorm:"uniqueIndex:idx_amounts_recipe_ingredient;not null" json:"ingredient_id"`
	Amount       int  `gorm:"check:amount >= 1" json:"amount"`

	Recipe     *Recipe     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}

type FavoriteRecipe struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_favorites_user_recipe;not null" json:"user_id"`
	RecipeID  uint      `gorm:"uniqueIndex:idx_favorites_user_recipe;not null" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

type ShoppingCart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_shopping_carts_user_recipe;not null" json:"user_id"`
	RecipeID  uint      `gorm:"uniqueIndex:idx_shopping_carts_user_recipe;not null" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}
