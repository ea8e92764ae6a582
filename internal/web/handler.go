package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	gmw "github.com/Laisky/gin-middlewares/v7"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/ira-labs/pem-ranker/internal/ranker"
	"github.com/ira-labs/pem-ranker/library/log"
)

// rankLogger returns the gin-middleware request-scoped logger, falling back
// to the package logger when no logging middleware ran (e.g. unit tests
// that exercise the handler directly), with the request id stamped by
// requestIDMiddleware attached to every field so a rank call's logs can be
// traced end to end.
func rankLogger(ctx *gin.Context) logSDK.Logger {
	base := log.Logger
	if l := gmw.GetLogger(ctx); l != nil {
		base = l
	}
	return base.Named("rank").With(zap.String("request_id", ctx.GetString("request_id")))
}

// rankErrorBody is the JSON body returned for a schema violation.
type rankErrorBody struct {
	Error string `json:"error"`
}

// rankHandler implements POST /rank: strict-schema decode, pipeline
// invocation, X-Ranker-Latency-ms header, JSON response. Field names must
// stay bit-exact with the documented schema, so this deliberately bypasses
// ctx.ShouldBindJSON in favor of a decoder with DisallowUnknownFields,
// which is what gives a Go service pydantic's extra="forbid" without a
// validation-tag library.
func rankHandler(ctx *gin.Context) {
	logger := rankLogger(ctx)
	start := time.Now()

	var req ranker.RankRequest
	dec := json.NewDecoder(ctx.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		logger.Warn("decode request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, rankErrorBody{Error: "invalid request body: " + err.Error()})
		return
	}

	resp, err := ranker.Rank(ctx.Request.Context(), req)
	if err != nil {
		if rerr, ok := ranker.AsError(err); ok && rerr.Code == ranker.ErrCodeSchemaViolation {
			ctx.JSON(http.StatusBadRequest, rankErrorBody{Error: rerr.Error()})
			return
		}
		logger.Error("rank", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, rankErrorBody{Error: "internal error"})
		return
	}

	elapsedMS := time.Since(start).Milliseconds()
	ctx.Header("X-Ranker-Latency-ms", strconv.FormatInt(elapsedMS, 10))
	ctx.JSON(http.StatusOK, resp)
}
