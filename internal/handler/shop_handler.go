package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"shop-platform/internal/middleware"
	"shop-platform/pkg/apierror"
)

// ShopHandler serves the shop-scoped page that subdomain traffic is
// rewritten to. Unauthenticated visitors are redirected to the sign-in
// entry point carrying the original URL for post-login return.
type ShopHandler struct {
	auth       *middleware.AuthMiddleware
	signInPath string
}

func NewShopHandler(auth *middleware.AuthMiddleware, signInPath string) *ShopHandler {
	if signInPath == "" {
		signInPath = "/signin"
	}
	return &ShopHandler{auth: auth, signInPath: signInPath}
}

func (h *ShopHandler) Page(w http.ResponseWriter, r *http.Request) {
	shopName := chi.URLParam(r, "shopName")
	if shopName == "" {
		writeError(w, apierror.New("VALIDATION_ERROR", "shop name is required", "shopName", http.StatusBadRequest))
		return
	}

	user, err := h.auth.Authenticate(r)
	if err != nil {
		http.Redirect(w, r, h.signInPath+"?redirect="+url.QueryEscape(originalURL(r)), http.StatusFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"shop":    shopName,
		"message": fmt.Sprintf("This is %s shop", shopName),
		"user":    user,
	})
}

func originalURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
