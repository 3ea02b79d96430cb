// Package handlers exposes the site's public API and the admin API over gin.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"portfolio/database"
	"portfolio/models"
	"portfolio/storage"
)

type ProjectStore interface {
	ListProjects(ctx context.Context, params models.ListParams) ([]models.Project, int64, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, p *models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, p *models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) (*models.Project, error)
}

type PostStore interface {
	ListPosts(ctx context.Context, params models.ListParams, search string) ([]models.BlogPost, int64, error)
	GetPost(ctx context.Context, id string) (*models.BlogPost, error)
	CreatePost(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error)
	UpdatePost(ctx context.Context, id string, p *models.BlogPost) (*models.BlogPost, error)
	DeletePost(ctx context.Context, id string) (*models.BlogPost, error)
}

type MessageStore interface {
	ListMessages(ctx context.Context, params models.ListParams) ([]models.Message, int64, error)
	GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error)
	CreateMessage(ctx context.Context, m *models.Message) (*models.Message, error)
	MarkMessageRead(ctx context.Context, id uuid.UUID, read bool) (*models.Message, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
}

type SubscriberStore interface {
	Subscribe(ctx context.Context, email string) (*models.Subscriber, bool, error)
	Unsubscribe(ctx context.Context, email string) error
	ListSubscribers(ctx context.Context, params models.ListParams) ([]models.Subscriber, int64, error)
	DeleteSubscriber(ctx context.Context, email string) error
}

type StatsStore interface {
	Stats(ctx context.Context) (*models.Stats, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Store is everything the HTTP layer needs from persistence. *database.DB satisfies it.
type Store interface {
	ProjectStore
	PostStore
	MessageStore
	SubscriberStore
	StatsStore
	Pinger
}

type Uploader interface {
	UploadFile(ctx context.Context, fh *multipart.FileHeader, folder, id string) (models.UploadResult, error)
	Remove(ctx context.Context, objectPath string) error
}

type Notifier interface {
	ContactReceived(msg *models.Message)
	Subscribed(sub *models.Subscriber)
}

var _ Store = (*database.DB)(nil)

// storeError writes the response for a failed store call. Unexpected errors
// are logged and hidden behind a generic message.
func storeError(c *gin.Context, logger *slog.Logger, err error, resource, action string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, models.Fail(resource+" not found"))
	case errors.Is(err, database.ErrConflict):
		c.JSON(http.StatusConflict, models.Fail(resource+" already exists"))
	case errors.Is(err, database.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
	default:
		logger.Error("store call failed", "action", action, "error", err)
		c.JSON(http.StatusInternalServerError, models.Fail("failed to "+action))
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.Fail(bindErrorMessage(err)))
}

// bindJSON decodes the body into obj, lets normalize clean it up and only
// then runs the binding tags, so padded input is validated in its final form.
func bindJSON(c *gin.Context, obj any, normalize func()) error {
	if err := json.NewDecoder(c.Request.Body).Decode(obj); err != nil {
		return err
	}
	if normalize != nil {
		normalize()
	}
	return binding.Validator.ValidateStruct(obj)
}

// bindErrorMessage turns binding failures into messages fit for a client.
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldErrorMessage(fe))
		}
		return strings.Join(msgs, "; ")
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "request body is required"
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return typeErr.Field + " has the wrong type"
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "request body is not valid JSON"
	}
	return "invalid request"
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "slug":
		return field + " must be lowercase letters, digits and dashes"
	}
	return field + " is invalid"
}

func listResponse[T any](items []T, total int64, params models.ListParams) models.ListResponse[T] {
	limit, offset := database.Page(params.Limit, params.Offset)
	if items == nil {
		items = []T{}
	}
	return models.ListResponse[T]{
		Items:   items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset) < total-int64(limit),
	}
}

func isUploadInputError(err error) bool {
	return errors.Is(err, storage.ErrEmptyFile) ||
		errors.Is(err, storage.ErrTooLarge) ||
		errors.Is(err, storage.ErrMissingID) ||
		errors.Is(err, storage.ErrInvalidFolder) ||
		errors.Is(err, storage.ErrInvalidPath)
}

// coverUpload stores the optional cover_image form file. A missing file is
// not an error; a failed upload is reported as a warning for the caller.
func coverUpload(c *gin.Context, uploader Uploader, logger *slog.Logger, folder, id string) (*models.UploadResult, string) {
	fh, err := c.FormFile("cover_image")
	if err != nil {
		return nil, ""
	}

	result, err := uploader.UploadFile(c.Request.Context(), fh, folder, id)
	if err != nil {
		logger.Warn("cover upload failed", "folder", folder, "id", id, "error", err)
		return nil, "cover image upload failed: " + err.Error()
	}
	return &result, ""
}

func removeObject(ctx context.Context, uploader Uploader, logger *slog.Logger, objectPath string) {
	if objectPath == "" {
		return
	}
	if err := uploader.Remove(ctx, objectPath); err != nil {
		logger.Warn("failed to remove stored object", "path", objectPath, "error", err)
	}
}
