package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Responder writes Problem Details responses from gin handlers.
type Responder struct {
	mappers []ErrorMapper
}

// ErrorMapper maps an application error to a problem. ok is false when the
// mapper does not recognise err.
type ErrorMapper func(err error) (problem ProblemDetail, ok bool)

// NewResponder creates a responder that consults mappers in order.
func NewResponder(mappers ...ErrorMapper) *Responder {
	return &Responder{mappers: mappers}
}

// Respond aborts the request with the problem as body.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError converts err through the mappers, falling back to 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	for _, mapper := range r.mappers {
		if p, ok := mapper(err); ok {
			r.Respond(c, p)
			return
		}
	}
	r.Respond(c, ErrInternal.WithDetail(err.Error()))
}

// Unauthorized sends a 401 problem.
func (r *Responder) Unauthorized(c *gin.Context, detail string) {
	r.Respond(c, ErrUnauthorized.WithDetail(detail))
}

// BadRequest sends a 400 problem.
func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}

// ValidationFailed sends a 400 problem with field errors.
func (r *Responder) ValidationFailed(c *gin.Context, fieldErrors map[string]string) {
	r.Respond(c, NewValidationProblem(fieldErrors))
}
