package entities

import "time"

// Subscribe is a directed follow edge from a user to a recipe author.
type Subscribe struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_subscribes_user_author;not null" json:"user_id"`
	AuthorID  uint      `gorm:"uniqueIndex:idx_subscribes_user_author;not null" json:"author_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}
