package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"merchandising-service/internal/events"
	"merchandising-service/internal/models"
	"merchandising-service/internal/planogram"
	"merchandising-service/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// 5 MB cap on fixture image uploads.
const maxImageSize = 5 << 20

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".svg":  true,
}

type PlanogramHandler struct {
	repo      *repository.PlanogramRepository
	events    *events.Publisher
	uploadDir string
	logger    *logrus.Logger
}

func NewPlanogramHandler(repo *repository.PlanogramRepository, publisher *events.Publisher, uploadDir string, logger *logrus.Logger) *PlanogramHandler {
	return &PlanogramHandler{
		repo:      repo,
		events:    publisher,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// CreateFullPlanogram creates a planogram with its fixtures, product
// positions and optional implementation task in one transaction. Every
// position must land inside the declared grid of the fixture it references.
// POST /api/planogram/createFullPlanogram
func (h *PlanogramHandler) CreateFullPlanogram(c *gin.Context) {
	var req models.CreateFullPlanogramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	furniture := make([]*models.Furniture, 0, len(req.Furniture))
	byID := make(map[string]*models.Furniture, len(req.Furniture))
	for _, in := range req.Furniture {
		faces := make(models.JSONArray, 0, len(in.AvailableFaces))
		for _, face := range in.AvailableFaces {
			faces = append(faces, face)
		}
		f := &models.Furniture{
			FurnitureID:          in.FurnitureID,
			FurnitureTypeID:      in.FurnitureTypeID,
			FurnitureTypeName:    in.FurnitureTypeName,
			Faces:                in.Faces,
			AvailableFaces:       faces,
			Largeur:              in.Largeur,
			Hauteur:              in.Hauteur,
			Profondeur:           in.Profondeur,
			ImageURL:             in.ImageURL,
			NbEtageresUniqueFace: in.NbEtageresUniqueFace,
			NbColonnesUniqueFace: in.NbColonnesUniqueFace,
			NbEtageresFrontBack:  in.NbEtageresFrontBack,
			NbColonnesFrontBack:  in.NbColonnesFrontBack,
			NbEtageresLeftRight:  in.NbEtageresLeftRight,
			NbColonnesLeftRight:  in.NbColonnesLeftRight,
		}
		furniture = append(furniture, f)
		byID[f.FurnitureID] = f
	}

	positions := make([]*models.ProductPosition, 0, len(req.ProductPositions))
	modelPositions := make([]models.ProductPosition, 0, len(req.ProductPositions))
	for _, in := range req.ProductPositions {
		if _, ok := byID[in.FurnitureID]; !ok {
			errorJSON(c, http.StatusBadRequest, "UNKNOWN_FURNITURE",
				fmt.Sprintf("position %s references unknown furniture %s", in.PositionID, in.FurnitureID))
			return
		}
		face := in.Face
		if face == "" {
			face = string(planogram.FaceFront)
		}
		pos := models.ProductPosition{
			PositionID:  in.PositionID,
			FurnitureID: in.FurnitureID,
			ProduitID:   in.ProduitID,
			Face:        face,
			Etagere:     in.Etagere,
			Colonne:     in.Colonne,
			Quantite:    in.Quantite,
		}
		modelPositions = append(modelPositions, pos)
	}

	// Rebuild each fixture's grid and place every position on it; this
	// rejects out-of-grid placements before anything reaches the database.
	for _, f := range furniture {
		cells := planogram.BuildCells(f)
		if err := planogram.ApplyPositions(f, cells, modelPositions); err != nil {
			errorJSON(c, http.StatusBadRequest, "INVALID_POSITION", err.Error())
			return
		}
	}
	for i := range modelPositions {
		positions = append(positions, &modelPositions[i])
	}

	planogramID := req.PlanogramInfo.PlanogramID
	if planogramID == "" {
		planogramID = "plano-" + uuid.New().String()[:8]
	}
	statut := req.PlanogramInfo.Statut
	if statut == "" {
		statut = "actif"
	}
	model := &models.Planogram{
		PlanogramID:  planogramID,
		NomPlanogram: req.PlanogramInfo.NomPlanogram,
		Statut:       statut,
		MagasinID:    req.PlanogramInfo.MagasinID,
		ZoneID:       req.PlanogramInfo.ZoneID,
		CategorieID:  req.PlanogramInfo.CategorieID,
	}

	var tache *models.Tache
	if req.Tache != nil {
		statutTache := req.Tache.Statut
		if statutTache == "" {
			statutTache = "a_faire"
		}
		tache = &models.Tache{
			IDUtilisateur: req.Tache.IDUtilisateur,
			Statut:        statutTache,
			Type:          req.Tache.Type,
			DateDebut:     req.Tache.DateDebut,
			DateFin:       req.Tache.DateFin,
		}
	}

	if err := h.repo.CreateFull(model, furniture, positions, tache); err != nil {
		h.logger.WithField("planogram_id", planogramID).WithError(err).Error("Failed to create planogram")
		errorJSON(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create planogram")
		return
	}

	h.events.PublishPlanogramCreated(model.PlanogramID, model.MagasinID, len(furniture), len(positions))

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"planogram_id":   model.PlanogramID,
			"furniture_ids":  furnitureIDs(furniture),
			"position_count": len(positions),
			"tache_created":  tache != nil,
		},
	})
}

// GetPlanogram loads a planogram with its fixtures by natural key.
// GET /api/planogram/getPlanogram/:planogramId
func (h *PlanogramHandler) GetPlanogram(c *gin.Context) {
	model, err := h.repo.GetByPlanogramID(c.Param("planogramId"))
	if err != nil {
		if errors.Is(err, repository.ErrPlanogramNotFound) {
			errorJSON(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		errorJSON(c, http.StatusInternalServerError, "DB_ERROR", "Failed to fetch planogram")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": model})
}

// GetAllFurnitureTypes returns the fixture-kind catalog.
// GET /api/furnitureType/getAllFurnitureTypes
func (h *PlanogramHandler) GetAllFurnitureTypes(c *gin.Context) {
	types, err := h.repo.GetAllFurnitureTypes()
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "DB_ERROR", "Failed to fetch furniture types")
		return
	}
	c.JSON(http.StatusOK, models.FurnitureTypeListResponse{Success: true, Data: types})
}

// ImportPlanogramFile validates an exported planogram JSON document and
// returns it normalized (fixture dimensions converted to meters) without
// persisting anything. The client reviews it, then posts createFullPlanogram.
// POST /api/planogram/importPlanogramFile
func (h *PlanogramHandler) ImportPlanogramFile(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "FILE_REQUIRED", "A planogram file is required")
		return
	}
	defer file.Close()

	doc, err := planogram.ParseImportFile(file)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_PLANOGRAM_FILE", err.Error())
		return
	}

	furniture := make([]models.Furniture, 0, len(doc.Furniture))
	for i := range doc.Furniture {
		furniture = append(furniture, doc.Furniture[i].ToModel())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"planogram_info":    doc.PlanogramInfo,
			"furniture":         furniture,
			"product_positions": doc.ProductPositions,
		},
	})
}

// UploadFurnitureImage stores a fixture image and returns its serving URL.
// POST /api/furniture/upload
func (h *PlanogramHandler) UploadFurnitureImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "FILE_REQUIRED", "An image file is required")
		return
	}
	if file.Size > maxImageSize {
		errorJSON(c, http.StatusBadRequest, "FILE_TOO_LARGE", "Image must not exceed 5 MB")
		return
	}
	ext := strings.ToLower(path.Ext(file.Filename))
	if !allowedImageExts[ext] {
		errorJSON(c, http.StatusBadRequest, "INVALID_FORMAT", "Only png, jpg, jpeg, webp and svg images are accepted")
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.logger.WithError(err).Error("Failed to create upload directory")
		errorJSON(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to store image")
		return
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.New().String()[:8], ext)
	dst := filepath.Join(h.uploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		h.logger.WithError(err).Error("Failed to save uploaded image")
		errorJSON(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to store image")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"imageUrl": "/uploads/" + name,
	})
}

func furnitureIDs(furniture []*models.Furniture) []string {
	ids := make([]string, 0, len(furniture))
	for _, f := range furniture {
		ids = append(ids, f.FurnitureID)
	}
	return ids
}
