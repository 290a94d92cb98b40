package httpapi

import (
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"github.com/gin-gonic/gin"
)

// httpStatus maps a service error code to an HTTP status.
func httpStatus(code connect.Code) int {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeAlreadyExists:
		return http.StatusBadRequest
	case connect.CodeNotFound:
		return http.StatusNotFound
	case connect.CodeUnauthenticated:
		return http.StatusUnauthorized
	case connect.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with {"detail": ...}. Service errors already carry a
// client-safe message; anything else gets the status text.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := httpStatus(connect.CodeOf(err))
	detail := http.StatusText(status)
	var ce *connect.Error
	if errors.As(err, &ce) && ce.Message() != "" {
		detail = ce.Message()
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func badRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": detail})
}
