package models

import "time"

// Favorite represents a user favoriting an article. The (article, user)
// pair is unique; attach and detach are idempotent.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ArticleID uint      `json:"article_id" gorm:"index;uniqueIndex:idx_article_user_favorite"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_article_user_favorite"`
	CreatedAt time.Time `json:"created_at"`
}
