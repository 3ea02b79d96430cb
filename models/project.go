package models

import "time"

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Project is a portfolio case study. ID is a slug and doubles as the URL segment.
type Project struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Category        string    `json:"category" db:"category"`
	Description     string    `json:"description" db:"description"`
	FullDescription string    `json:"full_description" db:"full_description"`
	Client          string    `json:"client" db:"client"`
	Timeline        string    `json:"timeline" db:"timeline"`
	Role            string    `json:"role" db:"role"`
	Tags            []string  `json:"tags" db:"tags"`
	CoverImageURL   string    `json:"cover_image_url" db:"cover_image_url"`
	CoverImagePath  string    `json:"cover_image_path" db:"cover_image_path"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// ProjectInput is the admin form payload. Tags arrive as a comma separated
// string and ID may be left blank to derive it from the title.
type ProjectInput struct {
	ID              string `json:"id" form:"id" binding:"omitempty,slug"`
	Title           string `json:"title" form:"title" binding:"required,max=255"`
	Category        string `json:"category" form:"category" binding:"max=100"`
	Description     string `json:"description" form:"description"`
	FullDescription string `json:"full_description" form:"full_description"`
	Client          string `json:"client" form:"client" binding:"max=255"`
	Timeline        string `json:"timeline" form:"timeline" binding:"max=100"`
	Role            string `json:"role" form:"role" binding:"max=255"`
	Tags            string `json:"tags" form:"tags"`
	CoverImageURL   string `json:"cover_image_url" form:"cover_image_url"`
	Status          string `json:"status" form:"status" binding:"omitempty,oneof=draft published"`
}

// ListParams filters list queries. Status empty means any status.
type ListParams struct {
	Status   string `form:"status" binding:"omitempty,oneof=draft published"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Unread   bool   `form:"unread"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}
