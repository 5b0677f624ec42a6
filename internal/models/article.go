package models

import (
	"time"

	"github.com/conduitlabs/conduit/backend/internal/pagination"
)

// Article is an authored article (PostgreSQL). CreatedAt is immutable
// after creation and, together with ID, forms the listing order every
// pagination cursor points into.
type Article struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;size:255"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PagePosition reports where the article sits in the listing order.
func (a Article) PagePosition() pagination.Position {
	return pagination.Position{CreatedAt: a.CreatedAt.UnixMicro(), ID: a.ID}
}

// CreateArticleRequest defines the request body for creating an article
type CreateArticleRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required,max=55"`
	Body        string `json:"body" validate:"required"`
}

// UpdateArticleRequest defines the request body for updating an article.
// All fields are optional; empty values leave the stored field untouched.
type UpdateArticleRequest struct {
	Title       string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description string `json:"description,omitempty" validate:"omitempty,max=55"`
	Body        string `json:"body,omitempty"`
}
