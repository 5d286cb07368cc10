package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// blog service
	router.HandlerFunc(http.MethodGet, "/v1/blogs", app.getAllBlogsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/blogs", app.createBlogHandler)
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id", app.getBlogHandler)
	router.HandlerFunc(http.MethodPut, "/v1/blogs/:id", app.updateBlogHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/blogs/:id", app.deleteBlogHandler)
	router.HandlerFunc(http.MethodGet, "/v1/stats", app.blogStatsHandler)

	// user service
	router.HandlerFunc(http.MethodPost, "/v1/users", app.createUserHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users", app.getAllUsersHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users/:id", app.getUserHandler)

	return app.recoverPanic(app.rateLimit(app.logRequest(router)))
}
