package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/content"
	"portfolio/models"
)

// Subscribe adds an address to the newsletter. Subscribing an active address
// again succeeds with already_subscribed set and sends nothing.
func Subscribe(store SubscriberStore, notifier Notifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SubscribeRequest
		if err := bindJSON(c, &req, func() { req.Email = content.NormalizeEmail(req.Email) }); err != nil {
			badRequest(c, err)
			return
		}

		sub, created, err := store.Subscribe(c.Request.Context(), req.Email)
		if err != nil {
			storeError(c, logger, err, "subscriber", "subscribe")
			return
		}

		if created {
			notifier.Subscribed(sub)
			logger.Info("newsletter subscription", "email", sub.Email)
		}

		c.JSON(http.StatusOK, models.OK(gin.H{
			"success":            true,
			"already_subscribed": !created,
		}))
	}
}

func Unsubscribe(store SubscriberStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SubscribeRequest
		if err := bindJSON(c, &req, func() { req.Email = content.NormalizeEmail(req.Email) }); err != nil {
			badRequest(c, err)
			return
		}

		if err := store.Unsubscribe(c.Request.Context(), req.Email); err != nil {
			storeError(c, logger, err, "subscriber", "unsubscribe")
			return
		}

		c.JSON(http.StatusOK, models.OK(gin.H{"success": true}))
	}
}

func ListSubscribers(store SubscriberStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.ListParams
		if err := c.ShouldBindQuery(&params); err != nil {
			badRequest(c, err)
			return
		}

		subs, total, err := store.ListSubscribers(c.Request.Context(), params)
		if err != nil {
			storeError(c, logger, err, "subscriber", "list subscribers")
			return
		}

		c.JSON(http.StatusOK, models.OK(listResponse(subs, total, params)))
	}
}

func DeleteSubscriber(store SubscriberStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := content.NormalizeEmail(c.Param("email"))

		if err := store.DeleteSubscriber(c.Request.Context(), email); err != nil {
			storeError(c, logger, err, "subscriber", "delete subscriber")
			return
		}

		c.JSON(http.StatusOK, models.OK(gin.H{"email": email, "deleted": true}))
	}
}

// GetStats backs the admin dashboard.
func GetStats(store StatsStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := store.Stats(c.Request.Context())
		if err != nil {
			storeError(c, logger, err, "stats", "load stats")
			return
		}

		c.JSON(http.StatusOK, models.OK(stats))
	}
}
