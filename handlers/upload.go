package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio/models"
)

// UploadFile stores a multipart file under folder/<id>-<timestamp><ext>.
func UploadFile(uploader Uploader, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("file is required"))
			return
		}

		folder := strings.TrimSpace(c.PostForm("folder"))
		id := strings.TrimSpace(c.PostForm("id"))
		if folder == "" || id == "" {
			c.JSON(http.StatusBadRequest, models.Fail("folder and id are required"))
			return
		}

		result, err := uploader.UploadFile(c.Request.Context(), fh, folder, id)
		if err != nil {
			if isUploadInputError(err) {
				badRequest(c, err)
				return
			}
			logger.Error("upload failed", "folder", folder, "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, models.Fail("upload failed"))
			return
		}

		c.JSON(http.StatusOK, models.OK(result))
	}
}
