package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"rpsarena/internal/app/ports"
	"rpsarena/internal/app/session"
	"rpsarena/internal/domain/game"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/rs/zerolog"
)

// partyIDHeader carries the caller identity. The host validates it before
// the request reaches this handler.
const partyIDHeader = "X-Party-ID"

type Handler struct {
	SessionUC session.UseCase
	KPI       kpiSnapshotProvider
	Log       zerolog.Logger
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(), accessLogMiddleware(h.Log))

	api := s.Group("/api")
	api.POST("/instantiate", h.instantiate)
	api.POST("/execute", h.execute)
	api.POST("/query", h.query)
	api.GET("/games/:host", h.getGame)
	api.GET("/info", h.info)

	s.GET("/ops/kpi", h.kpi)
	s.GET("/healthz", h.healthz)
}

func (h Handler) instantiate(c context.Context, ctx *app.RequestContext) {
	caller, err := requireCaller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	resp, err := h.SessionUC.Initialize(c, session.InitializeRequest{Caller: caller})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) execute(c context.Context, ctx *app.RequestContext) {
	caller, err := requireCaller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var msg session.ExecuteMsg
	if err := decodeJSON(ctx, &msg); err != nil {
		writeDecodeError(ctx, err)
		return
	}

	resp, err := h.SessionUC.Execute(c, caller, msg)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) query(c context.Context, ctx *app.RequestContext) {
	var msg session.QueryMsg
	if err := decodeJSON(ctx, &msg); err != nil {
		writeDecodeError(ctx, err)
		return
	}

	resp, err := h.SessionUC.Query(c, msg)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) getGame(c context.Context, ctx *app.RequestContext) {
	resp, err := h.SessionUC.GetGame(c, session.GetGameRequest{Host: ctx.Param("host")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) info(c context.Context, ctx *app.RequestContext) {
	resp, err := h.SessionUC.ContractInfo(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) healthz(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{"status": "ok"})
}

var errTrailingData = errors.New("unexpected data after json body")

// decodeJSON rejects unknown fields, so an envelope naming a variant this
// server does not handle fails instead of running the known one.
func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}

var ErrMissingPartyID = errors.New("missing x-party-id header")

func requireCaller(ctx *app.RequestContext) (string, error) {
	caller := string(ctx.GetHeader(partyIDHeader))
	if strings.TrimSpace(caller) == "" {
		return "", ErrMissingPartyID
	}
	return caller, nil
}

func writeDecodeError(ctx *app.RequestContext, err error) {
	if errors.Is(err, game.ErrUnknownMove) {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_move", err.Error())
		return
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && strings.HasSuffix(typeErr.Field, "host_move") {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_move", "host_move must be a move name")
		return
	}
	writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
}

func writeError(ctx *app.RequestContext, err error) {
	code := ports.Code(err)
	switch {
	case errors.Is(err, ErrMissingPartyID):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_party_id", err.Error())
	case errors.Is(err, session.ErrInvalidRequest),
		errors.Is(err, session.ErrInvalidMove):
		writeErrorBody(ctx, consts.StatusBadRequest, code, err.Error())
	case errors.Is(err, session.ErrUnauthorized):
		writeErrorBody(ctx, consts.StatusForbidden, code, err.Error())
	case errors.Is(err, session.ErrGameInSession),
		errors.Is(err, session.ErrAlreadyInitialized),
		errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, code, err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, code, err.Error())
	case errors.Is(err, ports.ErrStorage):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, code, "storage failure")
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
