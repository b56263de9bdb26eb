package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"funko-catalog-api/internal/models"
	"funko-catalog-api/internal/service"
	"funko-catalog-api/internal/stats"

	"github.com/gin-gonic/gin"
)

// FunkoRequest represents the request payload for creating or replacing a funko
type FunkoRequest struct {
	Name        string  `json:"name" binding:"required"`
	Model       string  `json:"model" binding:"required"`
	Price       float64 `json:"price"`
	ReleaseDate string  `json:"releaseDate" binding:"required"`
}

func (r FunkoRequest) toFunko() (models.Funko, error) {
	model, err := models.ParseModel(r.Model)
	if err != nil {
		return models.Funko{}, err
	}
	released, err := models.ParseDate(r.ReleaseDate)
	if err != nil {
		return models.Funko{}, err
	}
	return models.Funko{
		Name:        r.Name,
		Model:       model,
		Price:       r.Price,
		ReleaseDate: released,
	}, nil
}

// FunkoHandler exposes FunkoService over HTTP.
type FunkoHandler struct {
	svc *service.FunkoService
}

// NewFunkoHandler creates a handler backed by svc.
func NewFunkoHandler(svc *service.FunkoService) *FunkoHandler {
	return &FunkoHandler{svc: svc}
}

/*
*
List handles GET /api/funkos
Returns the whole catalog, or only the funkos named exactly like the optional
name query param (case-insensitive).
*/
func (h *FunkoHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		funkos []models.Funko
		err    error
	)
	if name := strings.TrimSpace(c.Query("name")); name != "" {
		funkos, err = h.svc.FindByName(ctx, name)
	} else {
		funkos, err = h.svc.FindAll(ctx)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"funkos": funkos,
		"count":  len(funkos),
	})
}

// Get handles GET /api/funkos/:id
func (h *FunkoHandler) Get(c *gin.Context) {
	id := c.Param("id")
	f, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if f == nil {
		writeError(c, service.NotFound("find by id", id))
		return
	}
	c.JSON(http.StatusOK, f)
}

// Create handles POST /api/funkos
func (h *FunkoHandler) Create(c *gin.Context) {
	f, ok := bindFunko(c)
	if !ok {
		return
	}

	saved, err := h.svc.Save(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// Update handles PUT /api/funkos/:id
// The body replaces every mutable field of the stored funko.
func (h *FunkoHandler) Update(c *gin.Context) {
	f, ok := bindFunko(c)
	if !ok {
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/funkos/:id
func (h *FunkoHandler) Delete(c *gin.Context) {
	removed, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Funko deleted successfully",
		"funko":   removed,
	})
}

/*
*
Stats handles GET /api/funkos/stats
Optional query params: year (releases in that year) and prefix (count of names
starting with it).
*/
func (h *FunkoHandler) Stats(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a positive integer"})
			return
		}
		year = y
	}

	funkos, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats.Summarize(funkos, year, c.Query("prefix")))
}

func bindFunko(c *gin.Context) (models.Funko, bool) {
	var req FunkoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Funko{}, false
	}
	f, err := req.toFunko()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Funko{}, false
	}
	return f, true
}

// statusFor maps a service error kind onto an HTTP status code.
func statusFor(err error) int {
	switch service.KindOf(err) {
	case service.KindInvalidEntity, service.KindNotValid:
		return http.StatusBadRequest
	case service.KindNotFound, service.KindNotRemoved:
		return http.StatusNotFound
	case service.KindNotSaved:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := statusFor(err)
	body := gin.H{"error": err.Error()}
	if status == http.StatusInternalServerError {
		// Storage details stay in the logs.
		body["error"] = "Internal server error"
	}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	c.JSON(status, body)
}
