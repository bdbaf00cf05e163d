package routes

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"gitlab.com/agorahq/agora/internal/db"
	"gitlab.com/agorahq/agora/internal/models"
	"gitlab.com/agorahq/agora/internal/render"
)

const sessionCookie = "session"

type ctxKey int

const (
	UserHCtxKey ctxKey = iota
	PostHCtxKey
)

type Routes struct {
	envConfig *models.EnvConfig
	db        *db.SharedDB
	tmpls     *render.Templates
	logger    zerolog.Logger
}

func NewRouter(envConfig *models.EnvConfig, database *db.SharedDB, logger zerolog.Logger, tmpls *render.Templates) chi.Router {
	routes := &Routes{
		envConfig: envConfig,
		db:        database,
		tmpls:     tmpls,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(logger))
	r.Use(middleware.Recoverer)
	r.Use(routes.UserCtx)

	r.Get("/", routes.AppHandler(routes.GetHome))

	r.Get("/signup", routes.GetSignup)
	r.Post("/signup", routes.AppHandler(routes.PostSignup))
	r.Get("/login", routes.GetLogin)
	r.Post("/login", routes.AppHandler(routes.PostLogin))
	r.Get("/logout", routes.AppHandler(routes.GetLogout))

	r.Route("/post", func(r chi.Router) {
		r.With(routes.EnforceLogin).Get("/new", routes.GetNewPost)
		r.With(routes.EnforceLogin).Post("/", routes.AppHandler(routes.PostPost))

		specificPost := r.With(routes.PostCtx)
		specificPost.Get("/{boardID}/{postID}", routes.AppHandler(routes.GetPost))
		specificPost.With(routes.EnforceLogin).Get("/{boardID}/{postID}/edit", routes.AppHandler(routes.GetEditPost))
		specificPost.With(routes.EnforceLogin).Post("/{boardID}/{postID}/edit", routes.AppHandler(routes.PostEditPost))
		specificPost.With(routes.EnforceLogin).Post("/{boardID}/{postID}/pollvote", routes.AppHandler(routes.PostPollVote))
	})

	r.With(routes.PostCtx).Get("/poll/{boardID}/{postID}", routes.AppHandler(routes.GetPollResults))

	return r
}

// AppHandler turns a handler returning an AppError into a plain handler:
// the error is logged with its request id and rendered as an error page.
func (routes *Routes) AppHandler(handler func(w http.ResponseWriter, r *http.Request) AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appErr := handler(w, r)
		if appErr == nil {
			return
		}
		hlog.FromRequest(r).
			Error().
			Str("request_id", middleware.GetReqID(r.Context())).
			Err(appErr).
			Msg(appErr.Text())

		w.Header().Add("Content-Type", "text/html")
		w.WriteHeader(appErr.Code())
		routes.tmpls.RenderHTML(w, "error", struct{ Message string }{appErr.Text()})
	}
}

// UserCtx resolves the session cookie to a user handle. Anonymous requests
// pass through with no handle attached.
func (routes *Routes) UserCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err == nil {
			userH, err := routes.db.GetUserH(r.Context(), cookie.Value)
			if err == nil {
				r = r.WithContext(context.WithValue(r.Context(), UserHCtxKey, userH))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// PostCtx locates the post named by the route and attaches its handle.
func (routes *Routes) PostCtx(next http.Handler) http.Handler {
	return routes.AppHandler(func(w http.ResponseWriter, r *http.Request) AppError {
		boardID, err1 := strconv.ParseUint(chi.URLParam(r, "boardID"), 10, 32)
		postID, err2 := strconv.ParseUint(chi.URLParam(r, "postID"), 10, 32)
		if err1 != nil || err2 != nil {
			return &ErrBadRequest{Motivation: "Malformed post address"}
		}

		postH, err := routes.db.GetPostH(r.Context(), uint32(boardID), uint32(postID))
		if err != nil {
			return &ErrNotFound{Cause: err, Thing: "post"}
		}
		ctx := context.WithValue(r.Context(), PostHCtxKey, postH)
		next.ServeHTTP(w, r.WithContext(ctx))
		return nil
	})
}

func (routes *Routes) EnforceLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserH(r) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserH(r *http.Request) *db.UserH {
	userH, _ := r.Context().Value(UserHCtxKey).(*db.UserH)
	return userH
}

func GetPostH(r *http.Request) *db.PostH {
	postH, _ := r.Context().Value(PostHCtxKey).(*db.PostH)
	return postH
}

func (routes *Routes) GetHome(w http.ResponseWriter, r *http.Request) AppError {
	posts, err := routes.db.ListRecentPosts(r.Context(), 30)
	if err != nil {
		return &ErrInternal{Cause: err}
	}
	routes.tmpls.RenderHTML(w, "home", struct {
		Posts    []models.PostPreview
		LoggedIn bool
	}{posts, GetUserH(r) != nil})
	return nil
}
