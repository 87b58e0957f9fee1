package handlers

import (
	"net/http"

	"merchandising-service/internal/models"
	"merchandising-service/internal/repository"

	"github.com/gin-gonic/gin"
)

type CategorieHandler struct {
	repo *repository.CategorieRepository
}

func NewCategorieHandler(repo *repository.CategorieRepository) *CategorieHandler {
	return &CategorieHandler{repo: repo}
}

// GetAllCategories lists every category.
// GET /api/categories/getAllCategories
func (h *CategorieHandler) GetAllCategories(c *gin.Context) {
	categories, err := h.repo.GetAll()
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "DB_ERROR", "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, models.CategorieListResponse{Success: true, Data: categories})
}

// CreateCategorieList bulk-creates categories.
// POST /api/categories/createCategorieList
func (h *CategorieHandler) CreateCategorieList(c *gin.Context) {
	var body []struct {
		CategorieID            string  `json:"categorie_id" binding:"required"`
		Nom                    string  `json:"nom" binding:"required"`
		ParentID               *string `json:"parent_id,omitempty"`
		Niveau                 *int    `json:"niveau,omitempty"`
		Saisonnalite           *string `json:"saisonnalite,omitempty"`
		Priorite               *int    `json:"priorite,omitempty"`
		ZoneExpositionPreferee *string `json:"zone_exposition_preferee,omitempty"`
		TemperatureExposition  *string `json:"temperature_exposition,omitempty"`
		Conditionnement        *string `json:"conditionnement,omitempty"`
		ClienteleCiblee        *string `json:"clientele_ciblee,omitempty"`
		MagasinID              *string `json:"magasin_id,omitempty"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if len(body) == 0 {
		errorJSON(c, http.StatusBadRequest, "EMPTY_LIST", "The request body contains no categories")
		return
	}

	categories := make([]*models.Categorie, 0, len(body))
	for _, req := range body {
		parent := req.ParentID
		if parent != nil && (*parent == "" || *parent == "-") {
			parent = nil
		}
		categories = append(categories, &models.Categorie{
			CategorieID:            req.CategorieID,
			Nom:                    req.Nom,
			ParentID:               parent,
			Niveau:                 req.Niveau,
			Saisonnalite:           req.Saisonnalite,
			Priorite:               req.Priorite,
			ZoneExpositionPreferee: req.ZoneExpositionPreferee,
			TemperatureExposition:  req.TemperatureExposition,
			Conditionnement:        req.Conditionnement,
			ClienteleCiblee:        req.ClienteleCiblee,
			MagasinID:              req.MagasinID,
		})
	}

	result, err := h.repo.BulkCreate(categories)
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
