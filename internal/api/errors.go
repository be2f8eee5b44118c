package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"cinedex-backend-go/internal/core"
	"cinedex-backend-go/internal/identity"
	"cinedex-backend-go/internal/session"
	"cinedex-backend-go/internal/tmdb"
)

// mapErrorToStatus writes the reply for a service error.
func mapErrorToStatus(c *gin.Context, logger *zap.Logger, err error) {
	var (
		statusCode  int
		errResponse ErrorResponse
		apiErr      *tmdb.APIError
		netErr      *tmdb.NetworkError
	)

	switch {
	case errors.Is(err, core.ErrSignInRequired):
		statusCode = http.StatusUnauthorized
		errResponse = ErrorResponse{Error: "sign_in_required"}
	case errors.Is(err, core.ErrInvalidYearToken),
		errors.Is(err, core.ErrInvalidGenreID),
		errors.Is(err, core.ErrInvalidRating),
		errors.Is(err, core.ErrEmptyQuery),
		errors.Is(err, session.ErrInvalidMovieID),
		errors.Is(err, session.ErrInvalidRatingValue):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Invalid request", Details: err.Error()}
	case errors.As(err, &apiErr), errors.As(err, &netErr):
		kind := tmdb.Classify(err)
		statusCode = tmdbStatus(kind)
		errResponse = ErrorResponse{Error: tmdb.UserMessage(kind)}
		logger.Warn("Metadata request failed", zap.String("kind", string(kind)), zap.Error(err))
	case isIdentityError(err):
		statusCode = identityStatus(err)
		errResponse = ErrorResponse{Error: identity.UserMessage(err)}
		if statusCode >= http.StatusInternalServerError {
			logger.Error("Identity provider failure", zap.Error(err))
		}
	case errors.Is(err, core.ErrSuperseded):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: "Request superseded by a newer one"}
	default:
		logger.Error("Internal Server Error", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

func tmdbStatus(kind tmdb.Kind) int {
	switch kind {
	case tmdb.KindNotFound:
		return http.StatusNotFound
	case tmdb.KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

var identityErrors = []error{
	identity.ErrInvalidCredential, identity.ErrUserNotFound, identity.ErrTooManyAttempts,
	identity.ErrUserDisabled, identity.ErrEmailInUse, identity.ErrWeakPassword,
	identity.ErrEmailNotVerified, identity.ErrInvalidToken, identity.ErrProviderFailure,
}

func isIdentityError(err error) bool {
	for _, target := range identityErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func identityStatus(err error) int {
	switch {
	case errors.Is(err, identity.ErrInvalidCredential), errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, identity.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, identity.ErrUserDisabled), errors.Is(err, identity.ErrEmailNotVerified):
		return http.StatusForbidden
	case errors.Is(err, identity.ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, identity.ErrWeakPassword):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// respondBindError turns a binding failure into a 400 with one message per field.
func respondBindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	messages := make([]string, 0, len(ve))
	for _, e := range ve {
		messages = append(messages, fieldMessage(e))
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: strings.Join(messages, "; ")})
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field())
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	case "gt", "gte", "lte":
		return fmt.Sprintf("%s is out of range", e.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

// intParam reads a positive integer path parameter, replying 400 when it is not one.
func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("%s must be a positive integer", name)})
		return 0, false
	}
	return v, true
}

// pageQuery reads the optional page query parameter.
func pageQuery(c *gin.Context) (int, bool) {
	raw := c.Query("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 || page > 500 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "page must be between 1 and 500"})
		return 0, false
	}
	return page, true
}
