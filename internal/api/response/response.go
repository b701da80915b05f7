package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every JSON answer of the HTTP API.
type Response struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  any  `json:"extras"`
}

func write(c *gin.Context, code int, extras any) {
	c.JSON(code, Response{
		Success: code < http.StatusBadRequest,
		Code:    code,
		Extras:  extras,
	})
}

// SuccessResponse answers 200 with extras as the payload.
func SuccessResponse(c *gin.Context, extras any) {
	write(c, http.StatusOK, extras)
}

// ErrorResponse answers code with a message and no state.
func ErrorResponse(c *gin.Context, code int, message string) {
	write(c, code, gin.H{"message": message})
}

// RejectedResponse reports a refused request together with the unchanged state.
func RejectedResponse(c *gin.Context, err error, state any) {
	write(c, StatusFor(err), gin.H{
		"message": err.Error(),
		"state":   state,
	})
}
