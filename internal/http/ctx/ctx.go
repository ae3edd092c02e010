package ctx

import (
	"github.com/valyala/fasthttp"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/store"
)

const (
	userKey   = "user"
	apiKeyKey = "apiKey"
)

func SetUser(ctx *fasthttp.RequestCtx, user *store.User) {
	ctx.SetUserValue(userKey, user)
}

func UserFromCtx(ctx *fasthttp.RequestCtx) (*store.User, bool) {
	v := ctx.UserValue(userKey)
	if v == nil {
		return nil, false
	}
	u, ok := v.(*store.User)
	return u, ok
}

func SetAPIKey(ctx *fasthttp.RequestCtx, apiKey *store.APIKey) {
	ctx.SetUserValue(apiKeyKey, apiKey)
}

func APIKeyFromCtx(ctx *fasthttp.RequestCtx) (*store.APIKey, bool) {
	v := ctx.UserValue(apiKeyKey)
	if v == nil {
		return nil, false
	}
	ak, ok := v.(*store.APIKey)
	return ak, ok
}
