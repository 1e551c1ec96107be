package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tg-miniapp-backend/internal/middleware"
	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/services"
)

var statusByCode = map[services.Code]int{
	services.CodeInvalidRequest:         http.StatusBadRequest,
	services.CodeCannotSwipeSelf:        http.StatusBadRequest,
	services.CodeCannotReportSelf:       http.StatusBadRequest,
	services.CodeCannotReportOwnListing: http.StatusBadRequest,
	services.CodeUnauthorized:           http.StatusUnauthorized,
	services.CodeUserBanned:             http.StatusForbidden,
	services.CodeForbidden:              http.StatusForbidden,
	services.CodeProfileRequired:        http.StatusConflict,
	services.CodeProfileNotActive:       http.StatusConflict,
	services.CodeAlreadyReported:        http.StatusConflict,
	services.CodeProfileNotFound:        http.StatusNotFound,
	services.CodeListingNotFound:        http.StatusNotFound,
	services.CodeUserNotFound:           http.StatusNotFound,
	services.CodeReportNotFound:         http.StatusNotFound,
	services.CodeRateLimited:            http.StatusTooManyRequests,
	services.CodeInternal:               http.StatusInternalServerError,
}

// respondError writes err as {"error": CODE, "message": ...}. Internal failures never leak their cause.
func respondError(c *gin.Context, log *logrus.Entry, err error) {
	var e *services.Error
	if !errors.As(err, &e) {
		e = services.Internal(err)
	}
	status, ok := statusByCode[e.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.JSON(status, gin.H{"error": e.Code, "message": e.Message})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": services.CodeInvalidRequest, "message": err.Error()})
}

// RegisterValidators adds the domain tags used in request bindings to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	if err := v.RegisterValidation("section", func(fl validator.FieldLevel) bool {
		return models.Section(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("decision", func(fl validator.FieldLevel) bool {
		return models.Decision(fl.Field().String()).Valid()
	})
}

func sectionParam(c *gin.Context) (models.Section, bool) {
	section := models.Section(c.Param("section"))
	if !section.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.CodeInvalidRequest, "message": "unknown section"})
		return "", false
	}
	return section, true
}

// idParam returns the uuid path parameter name, answering notFound when it is malformed.
func idParam(c *gin.Context, log *logrus.Entry, name string, notFound error) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		respondError(c, log, notFound)
		return "", false
	}
	return id, true
}

func pagination(c *gin.Context, defaultLimit, maxLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.KeyUserID)
}
