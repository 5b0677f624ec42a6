package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on an article, stored in MongoDB
type Comment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ArticleID uint               `json:"article_id" bson:"article_id"`
	UserID    uint               `json:"user_id" bson:"user_id"`
	Body      string             `json:"body" bson:"body"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateCommentRequest defines the request body for commenting on an article
type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=500"`
}
