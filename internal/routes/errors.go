package routes

import (
	"fmt"
	"net/http"
)

// AppError is the route-level error contract: a status code for the
// response and a user-facing message, plus the underlying cause for logs.
type AppError interface {
	error
	Code() int
	Text() string
}

type ErrInternal struct {
	Message string
	Cause   error
}

func (e *ErrInternal) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Text()
}
func (e *ErrInternal) Code() int { return http.StatusInternalServerError }
func (e *ErrInternal) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return "Internal server error"
}

type ErrBadRequest struct {
	Motivation string
	Cause      error
}

func (e *ErrBadRequest) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Text()
}
func (e *ErrBadRequest) Code() int { return http.StatusBadRequest }
func (e *ErrBadRequest) Text() string {
	if e.Motivation != "" {
		return e.Motivation
	}
	return "Bad request"
}

type ErrNotFound struct {
	Thing string
	Cause error
}

func (e *ErrNotFound) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Text()
}
func (e *ErrNotFound) Code() int    { return http.StatusNotFound }
func (e *ErrNotFound) Text() string { return fmt.Sprintf("Can't find %s", e.Thing) }

type ErrMustLogin struct{}

func (e *ErrMustLogin) Error() string { return "not logged in" }
func (e *ErrMustLogin) Code() int     { return http.StatusUnauthorized }
func (e *ErrMustLogin) Text() string  { return "You must log in first" }
