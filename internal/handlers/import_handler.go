package handlers

import (
	"errors"
	"net/http"
	"time"

	"merchandising-service/internal/events"
	"merchandising-service/internal/importer"
	"merchandising-service/internal/models"
	"merchandising-service/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// BulkSaver persists a reviewed import collection. Satisfied by
// repository.Saver; narrowed to an interface so the wizard flow can be
// tested without a database.
type BulkSaver interface {
	SaveMagasins(magasins []*models.Magasin) (*repository.BulkResult, error)
	SaveCategories(categories []*models.Categorie) (*repository.BulkResult, error)
	SaveZones(zones []*models.Zone) (*repository.BulkResult, error)
}

// ImportHandler drives the multi-step import wizard over HTTP: file upload,
// column mapping, validation, confirmation, review edits and the final bulk
// persist.
type ImportHandler struct {
	manager       *importer.Manager
	saver         BulkSaver
	events        *events.Publisher
	decodeOpts    importer.DecodeOptions
	defaultPolicy importer.DuplicatePolicy
	logger        *logrus.Logger
}

func NewImportHandler(manager *importer.Manager, saver BulkSaver, publisher *events.Publisher, decodeOpts importer.DecodeOptions, defaultPolicy importer.DuplicatePolicy, logger *logrus.Logger) *ImportHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &ImportHandler{
		manager:       manager,
		saver:         saver,
		events:        publisher,
		decodeOpts:    decodeOpts,
		defaultPolicy: defaultPolicy,
		logger:        logger,
	}
}

type sessionState struct {
	SessionID        string                 `json:"sessionId"`
	Entity           string                 `json:"entity"`
	Step             string                 `json:"step"`
	Policy           string                 `json:"policy"`
	Headers          []string               `json:"headers,omitempty"`
	RowCount         int                    `json:"rowCount"`
	Mapping          importer.ColumnMapping `json:"mapping,omitempty"`
	Ambiguous        map[string][]string    `json:"ambiguous,omitempty"`
	ValidationErrors []string               `json:"validationErrors"`
	Entities         []importer.Record      `json:"entities"`
}

func (h *ImportHandler) state(s *importer.Session) sessionState {
	st := sessionState{
		SessionID:        s.ID,
		Entity:           s.Entity,
		Step:             s.Step().String(),
		Policy:           string(s.Policy()),
		Mapping:          s.Mapping(),
		Ambiguous:        s.Ambiguous(),
		ValidationErrors: s.ValidationErrors(),
		Entities:         s.Entities(),
	}
	if t := s.Table(); t != nil {
		st.Headers = t.Headers
		st.RowCount = len(t.Rows)
	}
	return st
}

// CreateSession starts an import wizard for one entity kind from an
// uploaded CSV or Excel file.
// POST /api/import/:entity
func (h *ImportHandler) CreateSession(c *gin.Context) {
	schema, err := importer.SchemaFor(c.Param("entity"))
	if err != nil {
		errorJSON(c, http.StatusNotFound, "UNKNOWN_ENTITY", err.Error())
		return
	}

	policy := h.defaultPolicy
	if p := c.PostForm("duplicatePolicy"); p != "" {
		policy, err = importer.ParseDuplicatePolicy(p)
		if err != nil {
			errorJSON(c, http.StatusBadRequest, "INVALID_POLICY", err.Error())
			return
		}
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "FILE_REQUIRED", "Please upload a CSV or Excel file")
		return
	}
	defer file.Close()

	table, err := importer.Decode(file, header.Filename, h.decodeOpts)
	if err != nil {
		// Nothing is committed: the caller stays at the file selection step.
		switch {
		case errors.Is(err, importer.ErrUnsupportedFormat):
			errorJSON(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error())
		case errors.Is(err, importer.ErrEmptyFile):
			errorJSON(c, http.StatusBadRequest, "EMPTY_FILE", err.Error())
		default:
			errorJSON(c, http.StatusBadRequest, "PARSE_ERROR", err.Error())
		}
		return
	}

	session := h.manager.Create(schema, policy, nil, h.logger)
	session.LoadTable(table)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    h.state(session),
	})
}

func (h *ImportHandler) session(c *gin.Context) *importer.Session {
	session, ok := h.manager.Get(c.Param("id"))
	if !ok {
		errorJSON(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Import session not found or expired")
		return nil
	}
	return session
}

// GetSession returns the full wizard state.
// GET /api/import/sessions/:id
func (h *ImportHandler) GetSession(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.state(session)})
}

// UpdateMapping overrides column-to-field assignments.
// PUT /api/import/sessions/:id/mapping
func (h *ImportHandler) UpdateMapping(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var req struct {
		Mapping map[string]string `json:"mapping" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	for column, field := range req.Mapping {
		if err := session.SetMapping(column, field); err != nil {
			errorJSON(c, http.StatusBadRequest, "INVALID_MAPPING", err.Error())
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.state(session)})
}

// ValidateSession runs validation and gates advancement: the wizard only
// reaches the confirm step when the error list is empty.
// POST /api/import/sessions/:id/validate
func (h *ImportHandler) ValidateSession(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	errs := session.Validate()
	c.JSON(http.StatusOK, gin.H{
		"success": len(errs) == 0,
		"errors":  errs,
		"step":    session.Step().String(),
	})
}

// ConfirmImport transforms the validated rows and merges them into the
// session collection under its duplicate policy.
// POST /api/import/sessions/:id/confirm
func (h *ImportHandler) ConfirmImport(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	summary, err := session.Import()
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrValidationPending):
			errorJSON(c, http.StatusConflict, "VALIDATION_PENDING", err.Error())
		default:
			errorJSON(c, http.StatusConflict, "WRONG_STEP", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": summary,
		"data":    h.state(session),
	})
}

// AddEntry appends a manually entered entity to the collection.
// POST /api/import/sessions/:id/entries
func (h *ImportHandler) AddEntry(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var rec importer.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := session.Add(rec); err != nil {
		errorJSON(c, http.StatusBadRequest, "REQUIRED_FIELD", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": h.state(session)})
}

// EditEntry replaces one field of the entry matching the natural key.
// PUT /api/import/sessions/:id/entries/:entryId
func (h *ImportHandler) EditEntry(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var req struct {
		Field string `json:"field" binding:"required"`
		Value any    `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := session.Edit(c.Param("entryId"), req.Field, req.Value); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, importer.ErrEntryNotFound) {
			status = http.StatusNotFound
		}
		errorJSON(c, status, "EDIT_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.state(session)})
}

// DeleteEntry removes every entry matching the natural key.
// DELETE /api/import/sessions/:id/entries/:entryId
func (h *ImportHandler) DeleteEntry(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	removed := session.Remove(c.Param("entryId"))
	c.JSON(http.StatusOK, gin.H{"success": true, "removed": removed, "data": h.state(session)})
}

// SaveSession persists the reviewed collection through the bulk
// repositories and publishes an import.completed event.
// POST /api/import/sessions/:id/save
func (h *ImportHandler) SaveSession(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	entities := session.Entities()
	if len(entities) == 0 {
		errorJSON(c, http.StatusBadRequest, "NOTHING_TO_SAVE", "The import session has no entities")
		return
	}

	var result *repository.BulkResult
	var err error
	switch session.Entity {
	case importer.MagasinSchema.Entity:
		result, err = h.saver.SaveMagasins(buildMagasins(entities))
	case importer.CategorieSchema.Entity:
		result, err = h.saver.SaveCategories(buildCategories(entities))
	case importer.ZoneSchema.Entity:
		result, err = h.saver.SaveZones(buildZones(entities))
	default:
		errorJSON(c, http.StatusInternalServerError, "UNKNOWN_ENTITY", "no persister for entity "+session.Entity)
		return
	}
	if err != nil && (result == nil || result.Success == 0) {
		errorJSON(c, http.StatusBadGateway, "BULK_CREATE_FAILED", err.Error())
		return
	}

	h.events.PublishImportCompleted(session.Entity, session.ID, result.Success)

	c.JSON(http.StatusOK, models.BulkCreateResponse{
		Success:      result.Success > 0,
		TotalCount:   result.Total,
		SuccessCount: result.Success,
		FailedCount:  result.Failed,
		Errors:       bulkErrors(result),
		CreatedIDs:   result.CreatedIDs,
	})
}

// DeleteSession tears the wizard down.
// DELETE /api/import/sessions/:id
func (h *ImportHandler) DeleteSession(c *gin.Context) {
	h.manager.Delete(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---------------------------------------------------------------------------
// Record-to-model builders

func buildMagasins(records []importer.Record) []*models.Magasin {
	out := make([]*models.Magasin, 0, len(records))
	for _, rec := range records {
		m := &models.Magasin{
			MagasinID:        importer.String(rec, "magasin_id"),
			NomMagasin:       importer.String(rec, "nom_magasin"),
			ZonesConfigurees: importer.Bool(rec, "zones_configurees"),
			Adresse:          optString(rec, "adresse"),
		}
		if v, ok := importer.Float(rec, "surface"); ok {
			m.Surface = &v
		}
		if v, ok := importer.Float(rec, "longueur"); ok {
			m.Longueur = &v
		}
		if v, ok := importer.Float(rec, "largeur"); ok {
			m.Largeur = &v
		}
		if t := parseDate(importer.String(rec, "date_creation")); t != nil {
			m.DateCreation = *t
		}
		out = append(out, m)
	}
	return out
}

func buildCategories(records []importer.Record) []*models.Categorie {
	out := make([]*models.Categorie, 0, len(records))
	for _, rec := range records {
		cat := &models.Categorie{
			CategorieID:            importer.String(rec, "categorie_id"),
			Nom:                    importer.String(rec, "nom"),
			ParentID:               optString(rec, "parent_id"),
			Saisonnalite:           optString(rec, "saisonnalite"),
			ZoneExpositionPreferee: optString(rec, "zone_exposition_preferee"),
			TemperatureExposition:  optString(rec, "temperature_exposition"),
			Conditionnement:        optString(rec, "conditionnement"),
			ClienteleCiblee:        optString(rec, "clientele_ciblee"),
			MagasinID:              optString(rec, "magasin_id"),
		}
		if v, ok := importer.Float(rec, "niveau"); ok {
			n := int(v)
			cat.Niveau = &n
		}
		if v, ok := importer.Float(rec, "priorite"); ok {
			n := int(v)
			cat.Priorite = &n
		}
		if t := parseDate(importer.String(rec, "date_creation")); t != nil {
			cat.DateCreation = *t
		}
		out = append(out, cat)
	}
	return out
}

func buildZones(records []importer.Record) []*models.Zone {
	out := make([]*models.Zone, 0, len(records))
	for _, rec := range records {
		z := &models.Zone{
			ZoneID:      importer.String(rec, "zone_id"),
			NomZone:     importer.String(rec, "nom_zone"),
			MagasinID:   importer.String(rec, "magasin_id"),
			Description: optString(rec, "description"),
			Emplacement: optString(rec, "emplacement"),
		}
		if t := parseDate(importer.String(rec, "date_creation")); t != nil {
			z.DateCreation = *t
		}
		out = append(out, z)
	}
	return out
}

func optString(rec importer.Record, canonical string) *string {
	if s := importer.String(rec, canonical); s != "" {
		return &s
	}
	return nil
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func bulkErrors(result *repository.BulkResult) []models.Error {
	if len(result.Errors) == 0 {
		return nil
	}
	out := make([]models.Error, 0, len(result.Errors))
	for _, e := range result.Errors {
		out = append(out, models.Error{Code: e.Code, Message: e.Message})
	}
	return out
}
