package handlers

import (
	"net/http"

	"merchandising-service/internal/models"
	"merchandising-service/internal/repository"

	"github.com/gin-gonic/gin"
)

type ZoneHandler struct {
	repo *repository.ZoneRepository
}

func NewZoneHandler(repo *repository.ZoneRepository) *ZoneHandler {
	return &ZoneHandler{repo: repo}
}

// GetZonesMagasin lists the zones of one store.
// GET /api/zones/getZonesMagasin/:magasinId
func (h *ZoneHandler) GetZonesMagasin(c *gin.Context) {
	zones, err := h.repo.GetZonesByMagasin(c.Param("magasinId"))
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "DB_ERROR", "Failed to fetch zones")
		return
	}
	c.JSON(http.StatusOK, models.ZoneListResponse{Success: true, Data: zones})
}

// CreateZonesList bulk-creates zones. Every zone must reference an existing
// store.
// POST /api/zones/createZonesList
func (h *ZoneHandler) CreateZonesList(c *gin.Context) {
	var body []struct {
		ZoneID      string  `json:"zone_id" binding:"required"`
		NomZone     string  `json:"nom_zone" binding:"required"`
		MagasinID   string  `json:"magasin_id" binding:"required"`
		Description *string `json:"description,omitempty"`
		Emplacement *string `json:"emplacement,omitempty"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if len(body) == 0 {
		errorJSON(c, http.StatusBadRequest, "EMPTY_LIST", "The request body contains no zones")
		return
	}

	zones := make([]*models.Zone, 0, len(body))
	for _, req := range body {
		zones = append(zones, &models.Zone{
			ZoneID:      req.ZoneID,
			NomZone:     req.NomZone,
			MagasinID:   req.MagasinID,
			Description: req.Description,
			Emplacement: req.Emplacement,
		})
	}

	result, err := h.repo.BulkCreate(zones)
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
