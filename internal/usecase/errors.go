package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// 利用者にそのまま返すエラー。Status はHTTPステータスに対応する。
//
//	401 未ログイン / 400 入力不正・在庫不足 / 404 無い・他人のもの
//	409 状態の競合 / 500 ストレージ
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func errUnauthorized() error {
	return NewHTTPError(http.StatusUnauthorized, "login required")
}

func errStorage(message string) error {
	return NewHTTPError(http.StatusInternalServerError, message)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
