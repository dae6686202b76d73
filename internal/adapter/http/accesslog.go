package httpadapter

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// accessLogMiddleware tags every request with an id (kept from the client
// when present) and logs one line once the handler chain returns.
func accessLogMiddleware(log zerolog.Logger) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		reqID := strings.TrimSpace(string(ctx.GetHeader(requestIDHeader)))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx.Response.Header.Set(requestIDHeader, reqID)

		ctx.Next(c)

		status := ctx.Response.StatusCode()
		evt := log.Info()
		if status >= 500 {
			evt = log.Error()
		}
		evt.Str("request_id", reqID).
			Str("method", string(ctx.Method())).
			Str("path", string(ctx.Path())).
			Str("party", string(ctx.GetHeader(partyIDHeader))).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
