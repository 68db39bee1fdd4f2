package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

type adminOrdersResponse struct {
	usecase.AdminOrderList
	Error *string `json:"error"`
}

type auditLogsResponse struct {
	usecase.AuditLogList
	Error *string `json:"error"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, jwtSecret string) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(jwtSecret))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/orders", h.list)
	admin.PUT("/orders/:id/status", h.updateStatus)
	admin.GET("/audit-logs", h.listAuditLogs)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	fail := func(status int, msg string) error {
		return c.JSON(status, adminOrdersResponse{
			AdminOrderList: usecase.AdminOrderList{Orders: []usecase.OrderDetail{}},
			Error:          &msg,
		})
	}

	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fail(http.StatusBadRequest, "invalid page")
		}
		page = p
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return fail(http.StatusBadRequest, "invalid limit")
		}
		limit = l
	}

	from, err := usecase.ParseDateTimeRFC3339(c.QueryParam("from"))
	if err != nil {
		return fail(http.StatusBadRequest, "invalid from")
	}
	to, err := usecase.ParseDateTimeRFC3339(c.QueryParam("to"))
	if err != nil {
		return fail(http.StatusBadRequest, "invalid to")
	}

	out, err := h.uc.List(c.Request().Context(), repository.AdminOrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
		UserID: c.QueryParam("user_id"),
		From:   from,
		To:     to,
	})
	if err != nil {
		return fail(errorStatus(err))
	}

	return c.JSON(http.StatusOK, adminOrdersResponse{AdminOrderList: out})
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	//操作した管理者ID（監査ログ用）
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResult("login required"))
	}

	if err := h.uc.UpdateStatus(c.Request().Context(), adminID, c.Param("id"), req.Status); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, okResult())
}

// 空のクエリは条件にしない
func optionalQuery(c echo.Context, name string) *string {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	return &v
}

func (h *AdminOrderHandler) listAuditLogs(c echo.Context) error {
	fail := func(status int, msg string) error {
		return c.JSON(status, auditLogsResponse{
			AuditLogList: usecase.AuditLogList{AuditLogs: []model.AuditLog{}},
			Error:        &msg,
		})
	}

	f := repository.AuditLogFilter{
		ActorUserID: optionalQuery(c, "actor_user_id"),
		ResourceID:  optionalQuery(c, "resource_id"),
	}
	if v := optionalQuery(c, "action"); v != nil {
		a := model.AuditAction(*v)
		f.Action = &a
	}
	if v := optionalQuery(c, "resource_type"); v != nil {
		rt := model.AuditResourceType(*v)
		f.ResourceType = &rt
	}

	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return fail(http.StatusBadRequest, "invalid limit")
		}
		f.Limit = l
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return fail(http.StatusBadRequest, "invalid offset")
		}
		f.Offset = o
	}

	var err error
	if f.CreatedFrom, err = usecase.ParseDateTimeRFC3339(c.QueryParam("from")); err != nil {
		return fail(http.StatusBadRequest, "invalid from")
	}
	if f.CreatedTo, err = usecase.ParseDateTimeRFC3339(c.QueryParam("to")); err != nil {
		return fail(http.StatusBadRequest, "invalid to")
	}

	out, err := h.uc.ListAuditLogs(c.Request().Context(), f)
	if err != nil {
		return fail(errorStatus(err))
	}
	return c.JSON(http.StatusOK, auditLogsResponse{AuditLogList: out})
}
