package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio/content"
	"portfolio/markdown"
	"portfolio/models"
)

const postFolder = "blog"

// ListPosts serves published posts. The q parameter runs a full-text search.
func ListPosts(store PostStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.ListParams
		if err := c.ShouldBindQuery(&params); err != nil {
			badRequest(c, err)
			return
		}
		params.Status = models.StatusPublished

		posts, total, err := store.ListPosts(c.Request.Context(), params, strings.TrimSpace(c.Query("q")))
		if err != nil {
			storeError(c, logger, err, "post", "list posts")
			return
		}

		c.JSON(http.StatusOK, models.OK(listResponse(posts, total, params)))
	}
}

// GetPost returns a published post with its body rendered to HTML.
func GetPost(store PostStore, renderer markdown.Renderer, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := store.GetPost(c.Request.Context(), c.Param("id"))
		if err != nil {
			storeError(c, logger, err, "post", "get post")
			return
		}
		if post.Status != models.StatusPublished {
			c.JSON(http.StatusNotFound, models.Fail("post not found"))
			return
		}

		post.ContentHTML = renderer.Render(post.Content)
		c.JSON(http.StatusOK, models.OK(post))
	}
}

func AdminListPosts(store PostStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.ListParams
		if err := c.ShouldBindQuery(&params); err != nil {
			badRequest(c, err)
			return
		}

		posts, total, err := store.ListPosts(c.Request.Context(), params, strings.TrimSpace(c.Query("q")))
		if err != nil {
			storeError(c, logger, err, "post", "list posts")
			return
		}

		c.JSON(http.StatusOK, models.OK(listResponse(posts, total, params)))
	}
}

func AdminGetPost(store PostStore, renderer markdown.Renderer, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := store.GetPost(c.Request.Context(), c.Param("id"))
		if err != nil {
			storeError(c, logger, err, "post", "get post")
			return
		}

		post.ContentHTML = renderer.Render(post.Content)
		c.JSON(http.StatusOK, models.OK(post))
	}
}

// CreatePost mirrors CreateProject and also derives the read time from the body.
func CreatePost(store PostStore, uploader Uploader, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.PostInput
		if err := c.ShouldBind(&input); err != nil {
			badRequest(c, err)
			return
		}

		id := content.ResolveID(input.ID, input.Title)
		if id == "" {
			c.JSON(http.StatusBadRequest, models.Fail("id is required when the title has no usable characters"))
			return
		}

		ctx := c.Request.Context()
		post := postFromInput(input, id)

		cover, warning := coverUpload(c, uploader, logger, postFolder, id)
		if cover != nil {
			post.CoverImageURL = cover.URL
			post.CoverImagePath = cover.Path
		}

		created, err := store.CreatePost(ctx, post)
		if err != nil {
			if cover != nil {
				removeObject(ctx, uploader, logger, cover.Path)
			}
			storeError(c, logger, err, "post", "create post")
			return
		}

		logger.Info("post created", "id", created.ID, "status", created.Status)
		c.JSON(http.StatusCreated, models.Response{Data: created, Warning: warning})
	}
}

func UpdatePost(store PostStore, uploader Uploader, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.PostInput
		if err := c.ShouldBind(&input); err != nil {
			badRequest(c, err)
			return
		}

		ctx := c.Request.Context()
		id := c.Param("id")

		existing, err := store.GetPost(ctx, id)
		if err != nil {
			storeError(c, logger, err, "post", "get post")
			return
		}

		post := postFromInput(input, id)
		post.CoverImageURL, post.CoverImagePath = keptCover(
			post.CoverImageURL, existing.CoverImageURL, existing.CoverImagePath)

		cover, warning := coverUpload(c, uploader, logger, postFolder, id)
		if cover != nil {
			post.CoverImageURL = cover.URL
			post.CoverImagePath = cover.Path
		}

		updated, err := store.UpdatePost(ctx, id, post)
		if err != nil {
			if cover != nil {
				removeObject(ctx, uploader, logger, cover.Path)
			}
			storeError(c, logger, err, "post", "update post")
			return
		}

		if existing.CoverImagePath != updated.CoverImagePath {
			removeObject(ctx, uploader, logger, existing.CoverImagePath)
		}

		logger.Info("post updated", "id", updated.ID, "status", updated.Status)
		c.JSON(http.StatusOK, models.Response{Data: updated, Warning: warning})
	}
}

func DeletePost(store PostStore, uploader Uploader, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		deleted, err := store.DeletePost(ctx, c.Param("id"))
		if err != nil {
			storeError(c, logger, err, "post", "delete post")
			return
		}
		removeObject(ctx, uploader, logger, deleted.CoverImagePath)

		logger.Info("post deleted", "id", deleted.ID)
		c.JSON(http.StatusOK, models.OK(gin.H{"id": deleted.ID, "deleted": true}))
	}
}

// PreviewPost renders unsaved markdown for the editor.
func PreviewPost(renderer markdown.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PreviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		c.JSON(http.StatusOK, models.OK(gin.H{
			"html":      renderer.Render(req.Content),
			"read_time": content.ReadTime(req.Content),
		}))
	}
}

func postFromInput(in models.PostInput, id string) *models.BlogPost {
	return &models.BlogPost{
		ID:            id,
		Title:         strings.TrimSpace(in.Title),
		Category:      strings.TrimSpace(in.Category),
		Excerpt:       strings.TrimSpace(in.Excerpt),
		Content:       in.Content,
		Tags:          content.ParseTags(in.Tags),
		CoverImageURL: strings.TrimSpace(in.CoverImageURL),
		Status:        content.NormalizeStatus(in.Status),
		ReadTime:      content.ReadTime(in.Content),
	}
}
