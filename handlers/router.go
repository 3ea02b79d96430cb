package handlers

import (
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"portfolio/auth"
	"portfolio/content"
	"portfolio/markdown"
	"portfolio/middleware"
)

// Deps wires the router. A nil Auth leaves the admin API unmounted.
type Deps struct {
	Store    Store
	Uploader Uploader
	Notifier Notifier
	Renderer markdown.Renderer
	Auth     *auth.Authenticator
	Logger   *slog.Logger

	CORSOrigins   []string
	SecureCookies bool

	// StorageDir is served read-only under StorageURL when both are set.
	StorageDir string
	StorageURL string
}

var registerValidatorsOnce sync.Once

// registerValidators adds the "slug" binding tag used by the admin inputs and
// reports fields by their json or form name.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return strings.ToLower(f.Name)
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return content.IsValidSlug(fl.Field().String())
		})
	})
}

func NewRouter(d Deps) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Logger), middleware.CORS(d.CORSOrigins))

	r.GET("/health", HealthCheck)
	r.GET("/ready", ReadyCheck(d.Store, d.Logger))

	if d.StorageDir != "" && d.StorageURL != "" {
		r.Static(d.StorageURL, d.StorageDir)
	}

	api := r.Group("/api")
	api.GET("/projects", ListProjects(d.Store, d.Logger))
	api.GET("/projects/:id", GetProject(d.Store, d.Logger))
	api.GET("/posts", ListPosts(d.Store, d.Logger))
	api.GET("/posts/:id", GetPost(d.Store, d.Renderer, d.Logger))
	api.POST("/contact", SubmitContact(d.Store, d.Notifier, d.Logger))
	api.POST("/newsletter", Subscribe(d.Store, d.Notifier, d.Logger))
	api.POST("/newsletter/unsubscribe", Unsubscribe(d.Store, d.Logger))

	if d.Auth == nil {
		d.Logger.Warn("admin API disabled: ADMIN_EMAIL, ADMIN_PASSWORD_HASH and JWT_SECRET are required")
		return r
	}

	api.POST("/auth/login", Login(d.Auth, d.SecureCookies, d.Logger))
	api.POST("/auth/logout", Logout(d.SecureCookies))

	admin := api.Group("/admin", middleware.AdminRequired(d.Auth))

	admin.GET("/projects", AdminListProjects(d.Store, d.Logger))
	admin.POST("/projects", CreateProject(d.Store, d.Uploader, d.Logger))
	admin.GET("/projects/:id", AdminGetProject(d.Store, d.Logger))
	admin.PUT("/projects/:id", UpdateProject(d.Store, d.Uploader, d.Logger))
	admin.DELETE("/projects/:id", DeleteProject(d.Store, d.Uploader, d.Logger))

	admin.GET("/posts", AdminListPosts(d.Store, d.Logger))
	admin.POST("/posts", CreatePost(d.Store, d.Uploader, d.Logger))
	admin.POST("/posts/preview", PreviewPost(d.Renderer))
	admin.GET("/posts/:id", AdminGetPost(d.Store, d.Renderer, d.Logger))
	admin.PUT("/posts/:id", UpdatePost(d.Store, d.Uploader, d.Logger))
	admin.DELETE("/posts/:id", DeletePost(d.Store, d.Uploader, d.Logger))

	admin.GET("/messages", ListMessages(d.Store, d.Logger))
	admin.GET("/messages/:id", GetMessage(d.Store, d.Logger))
	admin.PATCH("/messages/:id/read", MarkMessageRead(d.Store, d.Logger))
	admin.DELETE("/messages/:id", DeleteMessage(d.Store, d.Logger))

	admin.GET("/subscribers", ListSubscribers(d.Store, d.Logger))
	admin.DELETE("/subscribers/:email", DeleteSubscriber(d.Store, d.Logger))

	admin.GET("/stats", GetStats(d.Store, d.Logger))
	admin.POST("/upload", UploadFile(d.Uploader, d.Logger))

	return r
}
