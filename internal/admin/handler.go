// Package admin serves the administration JSON API over the catalog.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/equipbot/internal/metrics"
	"github.com/UnknownOlympus/equipbot/internal/models"
	"github.com/UnknownOlympus/equipbot/internal/report"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Catalog is the catalog service as used by the API.
type Catalog interface {
	Create(ctx context.Context, input models.EquipmentInput) (*models.Equipment, error)
	Get(ctx context.Context, id int64) (*models.Equipment, error)
	List(ctx context.Context, offset, limit int) ([]models.Equipment, error)
	Search(ctx context.Context, filter models.SearchFilter, offset, limit int) ([]models.Equipment, error)
	Update(ctx context.Context, id int64, patch models.EquipmentPatch) (*models.Equipment, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Categories(ctx context.Context) ([]string, error)
	Brands(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (models.CatalogStats, error)
	PageSize() int
	MaxPageSize() int
}

// Directory answers the admin check.
type Directory interface {
	IsAdmin(ctx context.Context, telegramID int64) (bool, error)
}

// Handler serves the equipment routes.
type Handler struct {
	catalog Catalog
	metrics *metrics.Metrics
}

func NewHandler(catalog Catalog, metrics *metrics.Metrics) *Handler {
	return &Handler{catalog: catalog, metrics: metrics}
}

// NewRouter builds the engine with the middleware chain and every /api route.
func NewRouter(log *slog.Logger, catalog Catalog, directory Directory, metrics *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), Logger(log), Metrics(metrics), Recovery(log))

	api := router.Group("/api")
	api.Use(RequireAdmin(directory))
	NewHandler(catalog, metrics).RegisterRoutes(api)

	return router
}

// NewServer wraps the router in an http.Server listening on addr.
func NewServer(addr string, handler http.Handler) *http.Server {
	const (
		readTimeout  = 10 * time.Second
		writeTimeout = 30 * time.Second
	)

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
}

// RegisterRoutes mounts the handlers on group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/equipment", h.ListEquipment)
	group.GET("/equipment/export", h.ExportEquipment)
	group.GET("/equipment/:id", h.GetEquipment)
	group.POST("/equipment", h.CreateEquipment)
	group.PATCH("/equipment/:id", h.UpdateEquipment)
	group.DELETE("/equipment/:id", h.DeleteEquipment)
	group.GET("/categories", h.ListCategories)
	group.GET("/brands", h.ListBrands)
	group.GET("/stats", h.GetStats)
}

// ListEquipment lists the catalog, or searches it when any filter parameter is set.
func (h *Handler) ListEquipment(c *gin.Context) {
	query := c.Request.URL.Query()

	filter, verr := parseFilter(query)
	if verr != nil {
		handleError(c, verr)
		return
	}
	page, limit, verr := parsePage(query, h.catalog.PageSize(), h.catalog.MaxPageSize())
	if verr != nil {
		handleError(c, verr)
		return
	}
	offset := (page - 1) * limit

	var (
		items []models.Equipment
		err   error
	)
	if filter.IsEmpty() {
		items, err = h.catalog.List(c.Request.Context(), offset, limit)
	} else {
		items, err = h.catalog.Search(c.Request.Context(), filter, offset, limit)
	}
	if err != nil {
		handleError(c, err)
		return
	}

	success(c, http.StatusOK, gin.H{
		"items": items,
		"page":  page,
		"limit": limit,
	})
}

func (h *Handler) GetEquipment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	if item == nil {
		notFound(c, id)
		return
	}

	success(c, http.StatusOK, item)
}

func (h *Handler) CreateEquipment(c *gin.Context) {
	var req equipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, codeInvalidRequest, "invalid request body: "+err.Error())
		return
	}

	item, err := h.catalog.Create(c.Request.Context(), req.toInput())
	if err != nil {
		handleError(c, err)
		return
	}
	auditLogger(c).InfoContext(c.Request.Context(), "Equipment created", "id", item.ID)

	success(c, http.StatusCreated, item)
}

// UpdateEquipment applies the fields present in the body.
func (h *Handler) UpdateEquipment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req equipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, codeInvalidRequest, "invalid request body: "+err.Error())
		return
	}

	item, err := h.catalog.Update(c.Request.Context(), id, req.toPatch())
	if err != nil {
		handleError(c, err)
		return
	}
	if item == nil {
		notFound(c, id)
		return
	}
	auditLogger(c).InfoContext(c.Request.Context(), "Equipment updated", "id", id)

	success(c, http.StatusOK, item)
}

func (h *Handler) DeleteEquipment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := h.catalog.Delete(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	if !deleted {
		notFound(c, id)
		return
	}
	auditLogger(c).InfoContext(c.Request.Context(), "Equipment deleted", "id", id)

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	success(c, http.StatusOK, categories)
}

func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.catalog.Brands(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	success(c, http.StatusOK, brands)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.catalog.Stats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	success(c, http.StatusOK, stats)
}

// ExportEquipment streams the whole catalog as an Excel workbook.
func (h *Handler) ExportEquipment(c *gin.Context) {
	start := time.Now()

	items, err := h.allEquipment(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	buf, err := report.GenerateCatalogReport(items)
	if err != nil {
		if errors.Is(err, report.ErrNoEquipment) {
			fail(c, http.StatusNotFound, codeNotFound, "the catalog is empty")
			return
		}
		handleError(c, err)
		return
	}
	h.metrics.ReportGeneration.Observe(time.Since(start).Seconds())

	filename := fmt.Sprintf("catalog_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// allEquipment pages through the catalog until a short page comes back.
func (h *Handler) allEquipment(ctx context.Context) ([]models.Equipment, error) {
	limit := h.catalog.PageSize()
	all := make([]models.Equipment, 0, limit)

	for offset := 0; ; offset += limit {
		page, err := h.catalog.List(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < limit {
			return all, nil
		}
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		failField(c, http.StatusBadRequest, codeInvalidRequest, "id must be a positive integer", "id")
		return 0, false
	}
	return id, true
}

func notFound(c *gin.Context, id int64) {
	fail(c, http.StatusNotFound, codeNotFound, fmt.Sprintf("equipment %d not found", id))
}
