package handlers

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	httpctx "github.com/mcoutinho2512/cor-social-dashboard/internal/http/ctx"
	"github.com/mcoutinho2512/cor-social-dashboard/internal/store"
)

// MustUser returns the authenticated user from context, or sends 401.
func MustUser(ctx *fasthttp.RequestCtx) (*store.User, bool) {
	user, ok := httpctx.UserFromCtx(ctx)
	if !ok || user == nil {
		ctx.SetStatusCode(fasthttp.StatusUnauthorized)
		ctx.SetBodyString("unauthorized")
		return nil, false
	}
	return user, true
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginKey struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// Login verifies credentials and returns the user's active API keys so
// clients can pick one up for bearer auth.
func Login(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var req loginRequest
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}

		var user store.User
		if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				errResponse(ctx, fasthttp.StatusUnauthorized, "invalid username or password")
				return
			}
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			errResponse(ctx, fasthttp.StatusUnauthorized, "invalid username or password")
			return
		}

		var keys []store.APIKey
		if err := db.Where("user_id = ? AND active = ?", user.ID, true).Order("created_at DESC").Find(&keys).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load API keys")
			return
		}

		out := make([]loginKey, 0, len(keys))
		for _, k := range keys {
			out = append(out, loginKey{Name: k.Name, Key: k.Key})
		}
		jsonResponse(ctx, map[string]any{"username": user.Username, "api_keys": out})
	}
}
