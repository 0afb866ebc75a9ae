package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/contacts-backend/internal/platform/apierr"
)

type APIError struct {
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Fields  []apierr.FieldError `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondAPIError renders err. Anything that is not an *apierr.Error becomes a
// 500 with a generic message; 5xx messages are never echoed to the client.
func RespondAPIError(c *gin.Context, err error) {
	ae, ok := apierr.As(err)
	if !ok {
		ae = apierr.New(http.StatusInternalServerError, "internal_error", err)
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	code := ae.Code
	msg := ae.Error()
	if status >= http.StatusInternalServerError {
		if code == "" {
			code = "internal_error"
		}
		msg = "internal server error"
	}
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
			Fields:  ae.Fields,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
