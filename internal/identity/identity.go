// Package identity は外部IDプロバイダが認証した「現在のユーザー」をcontext経由で受け渡す。
package identity

import "context"

type ctxKey int

const (
	userIDKey ctxKey = iota
	roleKey
)

const RoleAdmin = "ADMIN"

// Provider はリクエストの呼び出し元ユーザーIDを返す。未認証なら false
type Provider interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}

// AuthJWTミドルウェアが入れた値を読む
type ContextProvider struct{}

func (ContextProvider) CurrentUserID(ctx context.Context) (string, bool) {
	return UserIDFromContext(ctx)
}
