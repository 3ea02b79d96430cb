package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"portfolio/content"
	"portfolio/models"
)

// SubmitContact stores a contact form message and fires the notification
// emails without waiting for them.
func SubmitContact(store MessageStore, notifier Notifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ContactRequest
		normalize := func() {
			req.Name = strings.TrimSpace(req.Name)
			req.Email = content.NormalizeEmail(req.Email)
			req.Subject = strings.TrimSpace(req.Subject)
			req.Message = strings.TrimSpace(req.Message)
		}
		if err := bindJSON(c, &req, normalize); err != nil {
			badRequest(c, err)
			return
		}

		msg, err := store.CreateMessage(c.Request.Context(), &models.Message{
			Name:    req.Name,
			Email:   req.Email,
			Subject: req.Subject,
			Message: req.Message,
		})
		if err != nil {
			storeError(c, logger, err, "message", "save message")
			return
		}

		notifier.ContactReceived(msg)

		logger.Info("contact message received", "id", msg.ID)
		c.JSON(http.StatusOK, models.OK(gin.H{"success": true, "id": msg.ID}))
	}
}

// ListMessages lists the inbox; unread=true limits it to unread messages.
func ListMessages(store MessageStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.ListParams
		if err := c.ShouldBindQuery(&params); err != nil {
			badRequest(c, err)
			return
		}

		messages, total, err := store.ListMessages(c.Request.Context(), params)
		if err != nil {
			storeError(c, logger, err, "message", "list messages")
			return
		}

		c.JSON(http.StatusOK, models.OK(listResponse(messages, total, params)))
	}
}

func GetMessage(store MessageStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := messageID(c)
		if !ok {
			return
		}

		msg, err := store.GetMessage(c.Request.Context(), id)
		if err != nil {
			storeError(c, logger, err, "message", "get message")
			return
		}

		c.JSON(http.StatusOK, models.OK(msg))
	}
}

func MarkMessageRead(store MessageStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := messageID(c)
		if !ok {
			return
		}

		var req models.MarkReadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		msg, err := store.MarkMessageRead(c.Request.Context(), id, *req.Read)
		if err != nil {
			storeError(c, logger, err, "message", "update message")
			return
		}

		c.JSON(http.StatusOK, models.OK(msg))
	}
}

func DeleteMessage(store MessageStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := messageID(c)
		if !ok {
			return
		}

		if err := store.DeleteMessage(c.Request.Context(), id); err != nil {
			storeError(c, logger, err, "message", "delete message")
			return
		}

		c.JSON(http.StatusOK, models.OK(gin.H{"id": id, "deleted": true}))
	}
}

func messageID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("invalid message ID"))
		return uuid.Nil, false
	}
	return id, true
}
