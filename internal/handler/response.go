package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 更新系のレスポンス。error は利用者向けの短い文言（無ければnull）
type Result struct {
	Success bool    `json:"success"`
	Error   *string `json:"error"`
}

func okResult() Result {
	return Result{Success: true}
}

func errorResult(msg string) Result {
	return Result{Success: false, Error: &msg}
}

// errをHTTPステータスと文言に変換する
func errorStatus(err error) (int, string) {
	if he, ok := usecase.AsHTTPError(err); ok {
		return he.Status, he.Message
	}
	if he, ok := err.(*echo.HTTPError); ok {
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	}

	//500
	return http.StatusInternalServerError, "internal error"
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	status, msg := errorStatus(err)
	return c.JSON(status, errorResult(msg))
}

func bindError(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, errorResult("invalid body"))
}

func strPtr(s string) *string {
	return &s
}

func getUserIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// echo全体のエラーハンドラ（404ルート・panicなども同じ形にそろえる）
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, msg := errorStatus(err)
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, errorResult(msg))
}
