package handler

import (
	"context"
	"net/http"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	"github.com/Payphone-Digital/clinic-admin/internal/service"
	ctxutil "github.com/Payphone-Digital/clinic-admin/pkg/context"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ProfileManager is the member profile service of one kind
type ProfileManager[T any] interface {
	Kind() service.ProfileKind[T]
	Create(ctx context.Context, caller *service.Caller, req dto.ProfileCreate[T]) (*dto.CreatedMember[T], error)
	Get(ctx context.Context, caller *service.Caller, id string) (*T, error)
	List(ctx context.Context, caller *service.Caller, filter dto.ProfileFilter) ([]T, int64, error)
	Update(ctx context.Context, caller *service.Caller, id string, req dto.ProfileUpdate) (*T, error)
	SetPassword(ctx context.Context, caller *service.Caller, id, newPassword string) error
	SetStatus(ctx context.Context, caller *service.Caller, id string, active bool) error
}

// ProfileHandler serves doctors, receptionists and staff. The kind supplies the
// request types, so one handler body covers every member role.
type ProfileHandler[T any] struct {
	profiles ProfileManager[T]
	kind     service.ProfileKind[T]
}

func NewProfileHandler[T any](profiles ProfileManager[T]) *ProfileHandler[T] {
	return &ProfileHandler[T]{profiles: profiles, kind: profiles.Kind()}
}

func (h *ProfileHandler[T]) context(c *gin.Context, function string) context.Context {
	return ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", function+"Profile")
}

func (h *ProfileHandler[T]) Create(c *gin.Context) {
	ctx := h.context(c, "Create")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	req := h.kind.NewCreate()
	if !bindJSON(c, ctx, req) {
		return
	}

	res, err := h.profiles.Create(ctx, caller, req)
	if err != nil {
		respondError(c, ctx, "Create "+h.kind.Label, err)
		return
	}

	logger.InfoWithContext(ctx, "Member created").
		String("kind", h.kind.Label).
		String("email", req.AccountFields().Email).
		Bool("generated_password", res.TemporaryPassword != "").
		Log()
	respondData(c, http.StatusCreated, constants.MsgCreated, res)
}

func (h *ProfileHandler[T]) List(c *gin.Context) {
	ctx := h.context(c, "List")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	p := constants.ParsePaginationParams(c)
	filter := dto.ProfileFilter{
		Search: p.Search,
		Status: p.Status,
		Page:   p.Page,
		Limit:  p.Limit,
		Offset: p.Offset,
	}

	rows, total, err := h.profiles.List(ctx, caller, filter)
	if err != nil {
		respondError(c, ctx, "List "+h.kind.Label, err)
		return
	}
	c.JSON(http.StatusOK, constants.BuildListResponse(total, p.Page, p.Limit, rows))
}

func (h *ProfileHandler[T]) Get(c *gin.Context) {
	ctx := h.context(c, "Get")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	profile, err := h.profiles.Get(ctx, caller, id)
	if err != nil {
		respondError(c, ctx, "Get "+h.kind.Label, err)
		return
	}
	respondData(c, http.StatusOK, "", profile)
}

func (h *ProfileHandler[T]) Update(c *gin.Context) {
	ctx := h.context(c, "Update")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	req := h.kind.NewUpdate()
	if !bindJSON(c, ctx, req) {
		return
	}

	profile, err := h.profiles.Update(ctx, caller, id, req)
	if err != nil {
		respondError(c, ctx, "Update "+h.kind.Label, err)
		return
	}
	respondData(c, http.StatusOK, constants.MsgUpdated, profile)
}

func (h *ProfileHandler[T]) SetPassword(c *gin.Context) {
	ctx := h.context(c, "SetPassword")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.SetPasswordRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	if err := h.profiles.SetPassword(ctx, caller, id, req.NewPassword); err != nil {
		respondError(c, ctx, "Set "+h.kind.Label+" password", err)
		return
	}
	respondData(c, http.StatusOK, "Password updated", nil)
}

func (h *ProfileHandler[T]) SetStatus(c *gin.Context) {
	ctx := h.context(c, "SetStatus")

	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.SetStatusRequest
	if !bindJSON(c, ctx, &req) {
		return
	}

	if err := h.profiles.SetStatus(ctx, caller, id, *req.IsActive); err != nil {
		respondError(c, ctx, "Set "+h.kind.Label+" status", err)
		return
	}
	respondData(c, http.StatusOK, "Status updated", gin.H{"id": id, "is_active": *req.IsActive})
}
