package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"billdesk/internal/domain"
	"billdesk/internal/extraction"
	"billdesk/internal/middleware"
	"billdesk/internal/validator"
)

// APIResponse is the standard envelope for all API responses. Status always
// equals the HTTP status code.
type APIResponse struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Errors  map[string]string `json:"errors,omitempty"`
	Meta    *PagMeta          `json:"meta,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Message: message, Status: http.StatusOK})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data, Message: message, Status: http.StatusCreated})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, message string, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Message: message, Status: http.StatusOK, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, msg string) {
	c.JSON(status, APIResponse{Success: false, Message: msg, Status: status})
}

// RespondValidation sends a 400 response carrying the field error map.
func RespondValidation(c *gin.Context, errs validator.FieldErrors) {
	c.JSON(http.StatusBadRequest, APIResponse{
		Success: false,
		Message: "Validation failed",
		Status:  http.StatusBadRequest,
		Errors:  errs,
	})
}

// MapDomainError translates domain errors to an HTTP status and a message
// safe to show to users.
func MapDomainError(err error) (status int, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidPaymentStatus),
		errors.Is(err, domain.ErrUnsupportedImage),
		errors.Is(err, domain.ErrImageTooLarge),
		errors.Is(err, domain.ErrMissingContact),
		errors.Is(err, domain.ErrContactInUse):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrDuplicateBill),
		errors.Is(err, domain.ErrDuplicateGSTIN),
		errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "the record was changed concurrently, please retry"
	case errors.Is(err, domain.ErrSupplierNotFound):
		return http.StatusNotFound, domain.ErrSupplierNotFound.Error()
	case errors.Is(err, domain.ErrPartyNotFound):
		return http.StatusNotFound, domain.ErrPartyNotFound.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.ErrNotFound.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusServiceUnavailable, domain.ErrTimeout.Error()
	case errors.Is(err, domain.ErrParseFailed):
		return http.StatusInternalServerError, domain.ErrParseFailed.Error()
	case errors.Is(err, domain.ErrExtractionFailed):
		return http.StatusInternalServerError, domain.ErrExtractionFailed.Error()
	default:
		return http.StatusInternalServerError, "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// Field errors are rendered with their map; rate limits add Retry-After.
func HandleError(c *gin.Context, err error) {
	var fieldErrs validator.FieldErrors
	if errors.As(err, &fieldErrs) {
		RespondValidation(c, fieldErrs)
		return
	}

	var rateErr *extraction.RateLimitError
	if errors.As(err, &rateErr) {
		c.Header("Retry-After", strconv.Itoa(int(rateErr.RetryAfter/time.Second)))
	}

	status, msg := MapDomainError(err)
	if status >= 500 {
		middleware.Log(c).Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	RespondError(c, status, msg)
}

// currentUser returns the signed-in user. Returns false if the session
// context is missing (error response already written).
func currentUser(c *gin.Context) (*domain.User, bool) {
	user, ok := middleware.GetUser(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return user, true
}

func parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

// maxJSONBody bounds the JSON bodies read whole by the save and update
// endpoints.
const maxJSONBody = 1 << 20

// readBody reads the request body up to maxJSONBody. On failure it writes the
// response and returns false.
func readBody(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxJSONBody)
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		HandleError(c, fmt.Errorf("reading request body: %v: %w", err, domain.ErrInvalidInput))
		return nil, false
	}
	return raw, true
}

// bindError turns a gin binding failure into a field error map.
func bindError(err error) validator.FieldErrors {
	return validator.BindingErrors(err)
}
