package routes

import (
	"errors"
	"net/http"

	"gitlab.com/agorahq/agora/internal/db"
	"gitlab.com/agorahq/agora/internal/models"
)

func (routes *Routes) GetSignup(w http.ResponseWriter, r *http.Request) {
	routes.tmpls.RenderHTML(w, "signup", nil)
}

func (routes *Routes) PostSignup(w http.ResponseWriter, r *http.Request) AppError {
	user := &models.User{
		Name:  r.FormValue("name"),
		Email: r.FormValue("email"),
	}
	_, err := routes.db.CreateUser(r.Context(), user, r.FormValue("password"))
	switch {
	case errors.Is(err, db.ErrInvalidFormat):
		return &ErrBadRequest{Cause: err, Motivation: "Bad email syntax"}
	case errors.Is(err, db.ErrWeakPasswd):
		return &ErrBadRequest{Cause: err, Motivation: "The password is too weak"}
	case errors.Is(err, db.ErrEmailAlreadyUsed):
		return &ErrBadRequest{Cause: err, Motivation: "The email is already used"}
	case err != nil:
		return &ErrInternal{Cause: err}
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return nil
}

func (routes *Routes) GetLogin(w http.ResponseWriter, r *http.Request) {
	routes.tmpls.RenderHTML(w, "login", nil)
}

func (routes *Routes) PostLogin(w http.ResponseWriter, r *http.Request) AppError {
	token, err := routes.db.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		return &ErrBadRequest{Cause: err, Motivation: "Wrong email or password"}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}

func (routes *Routes) GetLogout(w http.ResponseWriter, r *http.Request) AppError {
	cookie, err := r.Cookie(sessionCookie)
	if err == nil {
		if err := routes.db.Logout(r.Context(), cookie.Value); err != nil {
			return &ErrInternal{Cause: err}
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}
