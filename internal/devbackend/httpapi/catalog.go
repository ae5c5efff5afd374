package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/tourbook/internal/devbackend/ports"
	reviewsdomain "github.com/Apurer/tourbook/internal/domains/reviews/domain"
	toursdomain "github.com/Apurer/tourbook/internal/domains/tours/domain"
	sharederrors "github.com/Apurer/tourbook/internal/shared/errors"
	"github.com/Apurer/tourbook/internal/shared/pagination"
)

const reviewsPageSize = 10

type reviewRequest struct {
	TourID  string `json:"tourId" binding:"required"`
	Rating  int    `json:"rating" binding:"gte=1,lte=5"`
	Comment string `json:"comment" binding:"required,max=1000"`
}

// GET /api/tours?page=&limit=&search=&category=&maxPrice=&minRating=
func (s *server) listTours(c *gin.Context) {
	all, err := s.Catalog.List(c.Request.Context())
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	criteria := toursdomain.Criteria{
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		MaxPrice:  queryFloat(c, "maxPrice"),
		MinRating: queryFloat(c, "minRating"),
	}
	page, limit := queryPaging(c)
	c.JSON(http.StatusOK, pagination.Paginate(toursdomain.Filter(all, criteria), page, limit))
}

// GET /api/tours/:slug
func (s *server) getTour(c *gin.Context) {
	tour, err := s.Catalog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, ports.ErrNotFound) {
		s.responder.Respond(c, sharederrors.NewNotFoundProblem("tour", c.Param("slug")))
		return
	}
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tour)
}

// GET /api/tours/:slug/reviews
// The path segment may be the tour ID or its slug.
func (s *server) listReviews(c *gin.Context) {
	tour, err := s.findTour(c, c.Param("slug"))
	if err != nil {
		s.responder.Respond(c, sharederrors.NewNotFoundProblem("tour", c.Param("slug")))
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit < 1 {
		limit = reviewsPageSize
	}
	c.JSON(http.StatusOK, pagination.Paginate(s.Content.ReviewsForTour(tour.ID), page, limit))
}

// POST /api/reviews
func (s *server) createReview(c *gin.Context) {
	var req reviewRequest
	if !s.bindJSON(c, &req) {
		return
	}
	tour, err := s.findTour(c, req.TourID)
	if err != nil {
		s.responder.Respond(c, sharederrors.NewNotFoundProblem("tour", req.TourID))
		return
	}
	acc := currentAccount(c)
	review := s.Content.AddReview(reviewsdomain.Review{
		TourID:    tour.ID,
		UserID:    acc.ID,
		UserName:  acc.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: s.Now().UTC(),
	})
	c.JSON(http.StatusCreated, review)
}

// DELETE /api/reviews/:id
func (s *server) deleteReview(c *gin.Context) {
	if err := s.Content.DeleteReview(c.Param("id")); err != nil {
		s.responder.Respond(c, sharederrors.NewNotFoundProblem("review", c.Param("id")))
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/blogs?page=&limit=
func (s *server) listPosts(c *gin.Context) {
	page, limit := queryPaging(c)
	c.JSON(http.StatusOK, pagination.Paginate(s.Content.Posts(), page, limit))
}

// GET /api/blogs/:slug
func (s *server) getPost(c *gin.Context) {
	post, err := s.Content.Post(c.Param("slug"))
	if err != nil {
		s.responder.Respond(c, sharederrors.NewNotFoundProblem("post", c.Param("slug")))
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *server) findTour(c *gin.Context, ref string) (*toursdomain.Tour, error) {
	ctx := c.Request.Context()
	if tour, err := s.Catalog.GetByID(ctx, ref); err == nil {
		return tour, nil
	}
	return s.Catalog.GetBySlug(ctx, ref)
}

func queryPaging(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return pagination.NormalizePaging(page, limit)
}

func queryFloat(c *gin.Context, key string) float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
