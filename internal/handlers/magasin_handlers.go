package handlers

import (
	"errors"
	"net/http"

	"merchandising-service/internal/models"
	"merchandising-service/internal/repository"

	"github.com/gin-gonic/gin"
)

type MagasinHandler struct {
	repo *repository.MagasinRepository
}

func NewMagasinHandler(repo *repository.MagasinRepository) *MagasinHandler {
	return &MagasinHandler{repo: repo}
}

// GetAllMagasins lists every store.
// GET /api/magasins/getAllMagasins
func (h *MagasinHandler) GetAllMagasins(c *gin.Context) {
	magasins, err := h.repo.GetAll()
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "DB_ERROR", "Failed to fetch magasins")
		return
	}
	c.JSON(http.StatusOK, models.MagasinListResponse{Success: true, Data: magasins})
}

// GetMagasin retrieves one store by natural key.
// GET /api/magasins/getMagasin/:magasinId
func (h *MagasinHandler) GetMagasin(c *gin.Context) {
	magasin, err := h.repo.GetByMagasinID(c.Param("magasinId"))
	if err != nil {
		if errors.Is(err, repository.ErrMagasinNotFound) {
			errorJSON(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		errorJSON(c, http.StatusInternalServerError, "DB_ERROR", "Failed to fetch magasin")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": magasin})
}

// CreateMagasin creates a single store.
// POST /api/magasins/createMagasin
func (h *MagasinHandler) CreateMagasin(c *gin.Context) {
	var req models.CreateMagasinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	magasin := &models.Magasin{
		MagasinID:  req.MagasinID,
		NomMagasin: req.NomMagasin,
		Surface:    req.Surface,
		Longueur:   req.Longueur,
		Largeur:    req.Largeur,
		Adresse:    req.Adresse,
	}
	if req.ZonesConfigurees != nil {
		magasin.ZonesConfigurees = *req.ZonesConfigurees
	}

	if err := h.repo.Create(magasin); err != nil {
		errorJSON(c, http.StatusInternalServerError, "CREATE_FAILED", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": magasin})
}

// CreateMagasinsList bulk-creates stores.
// POST /api/magasins/createMagasinsList
func (h *MagasinHandler) CreateMagasinsList(c *gin.Context) {
	var body []models.CreateMagasinRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if len(body) == 0 {
		errorJSON(c, http.StatusBadRequest, "EMPTY_LIST", "The request body contains no magasins")
		return
	}

	magasins := make([]*models.Magasin, 0, len(body))
	for _, req := range body {
		m := &models.Magasin{
			MagasinID:  req.MagasinID,
			NomMagasin: req.NomMagasin,
			Surface:    req.Surface,
			Longueur:   req.Longueur,
			Largeur:    req.Largeur,
			Adresse:    req.Adresse,
		}
		if req.ZonesConfigurees != nil {
			m.ZonesConfigurees = *req.ZonesConfigurees
		}
		magasins = append(magasins, m)
	}

	result, err := h.repo.BulkCreate(magasins)
	if err != nil && result.Success == 0 {
		errorJSON(c, http.StatusBadRequest, "BULK_CREATE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, models.BulkCreateResponse{
		Success:      result.Success > 0,
		TotalCount:   result.Total,
		SuccessCount: result.Success,
		FailedCount:  result.Failed,
		Errors:       bulkErrors(result),
		CreatedIDs:   result.CreatedIDs,
	})
}
