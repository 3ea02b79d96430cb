package models

import "time"

// BlogPost stores markdown content. ContentHTML is filled in on read and never persisted.
type BlogPost struct {
	ID             string    `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Category       string    `json:"category" db:"category"`
	Excerpt        string    `json:"excerpt" db:"excerpt"`
	Content        string    `json:"content" db:"content"`
	ContentHTML    string    `json:"content_html,omitempty"`
	Tags           []string  `json:"tags" db:"tags"`
	CoverImageURL  string    `json:"cover_image_url" db:"cover_image_url"`
	CoverImagePath string    `json:"cover_image_path" db:"cover_image_path"`
	Status         string    `json:"status" db:"status"`
	ReadTime       int       `json:"read_time" db:"read_time"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type PostInput struct {
	ID            string `json:"id" form:"id" binding:"omitempty,slug"`
	Title         string `json:"title" form:"title" binding:"required,max=255"`
	Category      string `json:"category" form:"category" binding:"max=100"`
	Excerpt       string `json:"excerpt" form:"excerpt"`
	Content       string `json:"content" form:"content" binding:"required"`
	Tags          string `json:"tags" form:"tags"`
	CoverImageURL string `json:"cover_image_url" form:"cover_image_url"`
	Status        string `json:"status" form:"status" binding:"omitempty,oneof=draft published"`
}

type PreviewRequest struct {
	Content string `json:"content"`
}
