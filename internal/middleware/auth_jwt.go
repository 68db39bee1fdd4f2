package middleware

import (
	"errors"
	"net/http"
	"strings"

	"storefront/internal/identity"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey   = "user_id"   // string（IDプロバイダのsub）
	CtxUserRoleKey = "user_role" // string
)

var errNoToken = errors.New("no bearer token")

// bearerAuth用のJWT検証ミドルウェア。
// トークンは外部IDプロバイダが発行する（HS256, sub=ユーザーID, role は任意）。
func AuthJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, role, err := parseBearer(c, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("login required"))
			}

			setIdentity(c, userID, role)
			return next(c)
		}
	}
}

// トークンが無い・不正でも通す（未ログインとして扱う）
func OptionalAuthJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID, role, err := parseBearer(c, secret); err == nil {
				setIdentity(c, userID, role)
			}
			return next(c)
		}
	}
}

//contextへ保存（usecaseは identity.Provider 経由で読む）
func setIdentity(c echo.Context, userID string, role string) {
	c.Set(CtxUserIDKey, userID)
	c.Set(CtxUserRoleKey, role)

	ctx := identity.WithRole(identity.WithUserID(c.Request().Context(), userID), role)
	c.SetRequest(c.Request().WithContext(ctx))
}

func parseBearer(c echo.Context, secret string) (string, string, error) {
	//Authorizationヘッダを取得
	authz := c.Request().Header.Get("Authorization")
	if authz == "" {
		return "", "", errNoToken
	}

	//Bearer形式か確認してtokenを抜く
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "", errNoToken
	}
	rawToken := strings.TrimSpace(parts[1])
	if rawToken == "" {
		return "", "", errNoToken
	}

	//JWTをパースして検証する
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid claims")
	}

	userID, ok := claims["sub"].(string)
	if !ok || strings.TrimSpace(userID) == "" {
		return "", "", errors.New("invalid sub")
	}

	// role は無くてもよい
	role, _ := claims["role"].(string)
	return userID, role, nil
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Success: false, Error: msg}
}
