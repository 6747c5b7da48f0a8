package httpapi

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
)

const defaultLoginRedirect = "/admin"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Redirect string `json:"redirect"`
}

// login accepts JSON or a classic form post. On success it sets the session
// cookie and answers 303 so browsers follow with a GET.
func (a *API) login(w http.ResponseWriter, r *http.Request) {
	req, err := a.readLogin(w, r)
	if err != nil {
		a.writeError(w, r, "", fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	token, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, "", err)
		return
	}

	maxAge := int(token.ExpiresAt.Sub(a.now()).Seconds())
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token.Value,
		Path:     "/",
		Expires:  token.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.opts.Production,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, safeRedirect(req.Redirect), http.StatusSeeOther)
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.opts.Production,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) readLogin(w http.ResponseWriter, r *http.Request) (*loginRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return &loginRequest{
			Email:    r.PostForm.Get("email"),
			Password: r.PostForm.Get("password"),
			Redirect: r.FormValue("redirect"),
		}, nil
	default:
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return nil, err
		}
		if req.Redirect == "" {
			req.Redirect = r.URL.Query().Get("redirect")
		}
		return &req, nil
	}
}

// safeRedirect only allows same-origin absolute paths.
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return defaultLoginRedirect
	}
	return target
}
