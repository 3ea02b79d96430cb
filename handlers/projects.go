package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio/content"
	"portfolio/models"
)

const projectFolder = "projects"

// ListProjects serves the public portfolio: published projects only.
func ListProjects(store ProjectStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.ListParams
		if err := c.ShouldBindQuery(&params); err != nil {
			badRequest(c, err)
			return
		}
		params.Status = models.StatusPublished

		projects, total, err := store.ListProjects(c.Request.Context(), params)
		if err != nil {
			storeError(c, logger, err, "project", "list projects")
			return
		}

		c.JSON(http.StatusOK, models.OK(listResponse(projects, total, params)))
	}
}

func GetProject(store ProjectStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := store.GetProject(c.Request.Context(), c.Param("id"))
		if err != nil {
			storeError(c, logger, err, "project", "get project")
			return
		}
		if project.Status != models.StatusPublished {
			c.JSON(http.StatusNotFound, models.Fail("project not found"))
			return
		}

		c.JSON(http.StatusOK, models.OK(project))
	}
}

// AdminListProjects lists every project; the status query parameter narrows it.
func AdminListProjects(store ProjectStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.ListParams
		if err := c.ShouldBindQuery(&params); err != nil {
			badRequest(c, err)
			return
		}

		projects, total, err := store.ListProjects(c.Request.Context(), params)
		if err != nil {
			storeError(c, logger, err, "project", "list projects")
			return
		}

		c.JSON(http.StatusOK, models.OK(listResponse(projects, total, params)))
	}
}

func AdminGetProject(store ProjectStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := store.GetProject(c.Request.Context(), c.Param("id"))
		if err != nil {
			storeError(c, logger, err, "project", "get project")
			return
		}

		c.JSON(http.StatusOK, models.OK(project))
	}
}

// CreateProject accepts JSON or multipart form data. A blank id is derived
// from the title, and an optional cover_image file is uploaded first. When the
// upload fails the project is still created and the response carries a warning.
func CreateProject(store ProjectStore, uploader Uploader, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.ProjectInput
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
		project := projectFromInput(input, id)

		cover, warning := coverUpload(c, uploader, logger, projectFolder, id)
		if cover != nil {
			project.CoverImageURL = cover.URL
			project.CoverImagePath = cover.Path
		}

		created, err := store.CreateProject(ctx, project)
		if err != nil {
			if cover != nil {
				removeObject(ctx, uploader, logger, cover.Path)
			}
			storeError(c, logger, err, "project", "create project")
			return
		}

		logger.Info("project created", "id", created.ID, "status", created.Status)
		c.JSON(http.StatusCreated, models.Response{Data: created, Warning: warning})
	}
}

// UpdateProject replaces the editable fields of the project named in the path.
// The stored cover is kept unless a new file or a different URL is supplied.
func UpdateProject(store ProjectStore, uploader Uploader, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.ProjectInput
		if err := c.ShouldBind(&input); err != nil {
			badRequest(c, err)
			return
		}

		ctx := c.Request.Context()
		id := c.Param("id")

		existing, err := store.GetProject(ctx, id)
		if err != nil {
			storeError(c, logger, err, "project", "get project")
			return
		}

		project := projectFromInput(input, id)
		project.CoverImageURL, project.CoverImagePath = keptCover(
			project.CoverImageURL, existing.CoverImageURL, existing.CoverImagePath)

		cover, warning := coverUpload(c, uploader, logger, projectFolder, id)
		if cover != nil {
			project.CoverImageURL = cover.URL
			project.CoverImagePath = cover.Path
		}

		updated, err := store.UpdateProject(ctx, id, project)
		if err != nil {
			if cover != nil {
				removeObject(ctx, uploader, logger, cover.Path)
			}
			storeError(c, logger, err, "project", "update project")
			return
		}

		if existing.CoverImagePath != updated.CoverImagePath {
			removeObject(ctx, uploader, logger, existing.CoverImagePath)
		}

		logger.Info("project updated", "id", updated.ID, "status", updated.Status)
		c.JSON(http.StatusOK, models.Response{Data: updated, Warning: warning})
	}
}

func DeleteProject(store ProjectStore, uploader Uploader, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		deleted, err := store.DeleteProject(ctx, c.Param("id"))
		if err != nil {
			storeError(c, logger, err, "project", "delete project")
			return
		}
		removeObject(ctx, uploader, logger, deleted.CoverImagePath)

		logger.Info("project deleted", "id", deleted.ID)
		c.JSON(http.StatusOK, models.OK(gin.H{"id": deleted.ID, "deleted": true}))
	}
}

func projectFromInput(in models.ProjectInput, id string) *models.Project {
	return &models.Project{
		ID:              id,
		Title:           strings.TrimSpace(in.Title),
		Category:        strings.TrimSpace(in.Category),
		Description:     strings.TrimSpace(in.Description),
		FullDescription: strings.TrimSpace(in.FullDescription),
		Client:          strings.TrimSpace(in.Client),
		Timeline:        strings.TrimSpace(in.Timeline),
		Role:            strings.TrimSpace(in.Role),
		Tags:            content.ParseTags(in.Tags),
		CoverImageURL:   strings.TrimSpace(in.CoverImageURL),
		Status:          content.NormalizeStatus(in.Status),
	}
}

// keptCover decides the cover after an edit that uploaded no file. A blank
// URL keeps the current cover; a different URL drops the stored object.
func keptCover(inputURL, currentURL, currentPath string) (string, string) {
	switch inputURL {
	case "", currentURL:
		return currentURL, currentPath
	default:
		return inputURL, ""
	}
}
