package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/GoSim-25-26J-441/reading-list-api/internal/api/http/problem"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/reading_list/domain"
	"github.com/gin-gonic/gin"
)

func (h *Handler) create(c *gin.Context) {
	var req domain.CreateEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	e, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		problem.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, e)
}

func (h *Handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.GetAll(c.Request.Context()))
}

func (h *Handler) get(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}

	e, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		problem.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, e)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}

	var req domain.UpdateEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	e, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		problem.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, e)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		problem.Abort(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) filter(c *gin.Context) {
	var params domain.FilterParams

	if raw := c.Query("status"); raw != "" {
		s, err := domain.ParseStatus(raw)
		if err != nil {
			problem.Abort(c, err)
			return
		}
		params.Status = s
	}
	params.Author = c.Query("author")

	c.JSON(http.StatusOK, h.svc.Filter(c.Request.Context(), params))
}

// entryID parses the :id path parameter, aborting with a validation problem
// when it is not a positive integer.
func entryID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		problem.Abort(c, domain.NewValidationError(domain.FieldError{
			Field:   "id",
			Message: "must be a positive integer",
		}))
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body, mapping an over-limit body to 413 and any other
// decode failure to a validation problem.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			problem.Abort(c, problem.PayloadTooLarge(tooLarge.Limit))
			return false
		}
		problem.Abort(c, problem.BadRequestBody(err))
		return false
	}
	return true
}
