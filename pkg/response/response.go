package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorItem is one entry of a 400 error list. Param and Location are empty
// for errors that are not tied to a request field.
type ErrorItem struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

type ErrorList struct {
	Errors []ErrorItem `json:"errors"`
}

type MessageBody struct {
	Msg string `json:"msg"`
}

type TokenBody struct {
	Token string `json:"token"`
}

const serverErrorText = "Server error"

// Errors writes {"errors": [...]} with the given status (400 when zero).
func Errors(ctx *gin.Context, status int, items ...ErrorItem) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	if items == nil {
		items = []ErrorItem{}
	}
	ctx.AbortWithStatusJSON(status, ErrorList{Errors: items})
}

// Error writes a single field-less error entry.
func Error(ctx *gin.Context, status int, msg string) {
	Errors(ctx, status, ErrorItem{Msg: msg})
}

// Message writes {"msg": msg}.
func Message(ctx *gin.Context, status int, msg string) {
	if status == 0 {
		status = http.StatusOK
	}
	if status >= http.StatusBadRequest {
		ctx.AbortWithStatusJSON(status, MessageBody{Msg: msg})
		return
	}
	ctx.JSON(status, MessageBody{Msg: msg})
}

func Token(ctx *gin.Context, token string) {
	ctx.JSON(http.StatusOK, TokenBody{Token: token})
}

func OK(ctx *gin.Context, data any) {
	ctx.JSON(http.StatusOK, data)
}

// ServerError writes the plain text 500 body. Details stay in the server log.
func ServerError(ctx *gin.Context) {
	ctx.Abort()
	ctx.String(http.StatusInternalServerError, serverErrorText)
}
