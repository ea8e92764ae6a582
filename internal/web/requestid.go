package web

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// requestIDMiddleware stamps every response with a request id, reusing one
// supplied by the caller instead of minting a new one when present.
func requestIDMiddleware(ctx *gin.Context) {
	id := ctx.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	ctx.Set("request_id", id)
	ctx.Header(requestIDHeader, id)
	ctx.Next()
}
