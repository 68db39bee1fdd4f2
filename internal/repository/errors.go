package repository

import "errors"

var (
	// 0件、または「1件」のはずが複数件ヒットした
	ErrNotFound = errors.New("not found")

	// 一意制約違反
	ErrConflict = errors.New("conflict")
)
