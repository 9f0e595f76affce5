package gateway

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/councilos/councilos/internal/auth"
	"github.com/councilos/councilos/internal/council"
	"github.com/councilos/councilos/internal/llm"
	"github.com/councilos/councilos/internal/logging"
	"github.com/councilos/councilos/internal/models"
	"github.com/councilos/councilos/internal/orchestration"
	"github.com/councilos/councilos/internal/store"
)

// Handler handles HTTP requests for the gateway layer
type Handler struct {
	service    *orchestration.Service
	blueprints *store.BlueprintStore
	runs       *store.RunStore
	jwtManager *auth.JWTManager
	pool       *pgxpool.Pool
}

// NewHandler creates a new gateway handler
func NewHandler(service *orchestration.Service, blueprints *store.BlueprintStore, runs *store.RunStore, jwtManager *auth.JWTManager, pool *pgxpool.Pool) *Handler {
	return &Handler{
		service:    service,
		blueprints: blueprints,
		runs:       runs,
		jwtManager: jwtManager,
		pool:       pool,
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{Error: message, Code: code})
}

// domainError maps engine and store sentinels onto API error responses.
// Unmatched errors become 500s.
func domainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, council.ErrSessionNotFound):
		respondError(c, http.StatusNotFound, models.ErrCodeNotFound, err.Error())
	case errors.Is(err, council.ErrNotPaused):
		respondError(c, http.StatusConflict, models.ErrCodeRunNotPaused, err.Error())
	case errors.Is(err, council.ErrResumeConflict):
		respondError(c, http.StatusConflict, models.ErrCodeResumeConflict, err.Error())
	case errors.Is(err, council.ErrEmptyBlueprint),
		errors.Is(err, council.ErrInvalidEdgeReference),
		errors.Is(err, council.ErrDuplicateNode):
		respondError(c, http.StatusBadRequest, models.ErrCodeInvalidBlueprint, err.Error())
	case errors.Is(err, llm.ErrUnknownModel):
		respondError(c, http.StatusBadRequest, models.ErrCodeUnknownModel, err.Error())
	case errors.Is(err, orchestration.ErrInvalidMode), errors.Is(err, orchestration.ErrInvalidDecision):
		respondError(c, http.StatusBadRequest, models.ErrCodeInvalidRequest, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, models.ErrCodeInternalError, err.Error())
	}
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrCodeInvalidRequest, "Invalid request")
		return
	}

	var user models.User
	err := h.pool.QueryRow(c.Request.Context(),
		`SELECT id, name, email, hashed_password, created_at FROM users WHERE email = $1`,
		req.Email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.HashedPassword, &user.CreatedAt)

	if err != nil {
		logging.L.Warnw("login for unknown user", "email", req.Email)
		respondError(c, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		logging.L.Warnw("login with invalid password", "email", req.Email)
		respondError(c, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Invalid email or password")
		return
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	token, err := h.jwtManager.GenerateToken(
		c.Request.Context(),
		user.ID,
		user.Email,
		[]string{"user"},
		24*time.Hour,
	)
	if err != nil {
		respondError(c, http.StatusInternalServerError, models.ErrCodeInternalError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.ToUserInfo(),
	})
}

// BlueprintRequest represents a blueprint create/update payload
type BlueprintRequest struct {
	Name  string                 `json:"name" binding:"required"`
	Nodes []models.BlueprintNode `json:"nodes" binding:"required"`
	Edges []models.BlueprintEdge `json:"edges"`
}

// CreateBlueprint godoc
// @Summary Create council blueprint
// @Description Validate and store a new council blueprint
// @Tags councils
// @Accept json
// @Produce json
// @Param request body BlueprintRequest true "Blueprint definition"
// @Success 201 {object} models.Blueprint
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /councils [post]
func (h *Handler) CreateBlueprint(c *gin.Context) {
	var req BlueprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrCodeInvalidRequest, "Invalid request")
		return
	}

	bp := &models.Blueprint{
		Name:    req.Name,
		Version: 1,
		Nodes:   req.Nodes,
		Edges:   req.Edges,
	}

	// Reject structurally invalid blueprints before they reach storage.
	if _, err := council.BuildTopology(bp); err != nil {
		domainError(c, err)
		return
	}

	saved, err := h.blueprints.Create(c.Request.Context(), bp)
	if err != nil {
		logging.L.Errorw("failed to create blueprint", "error", err)
		domainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// ListBlueprints godoc
// @Summary List council blueprints
// @Tags councils
// @Produce json
// @Success 200 {array} models.Blueprint
// @Security BearerAuth
// @Router /councils [get]
func (h *Handler) ListBlueprints(c *gin.Context) {
	blueprints, err := h.blueprints.List(c.Request.Context())
	if err != nil {
		domainError(c, err)
		return
	}
	if blueprints == nil {
		blueprints = []*models.Blueprint{}
	}
	c.JSON(http.StatusOK, blueprints)
}

// GetBlueprint godoc
// @Summary Get council blueprint
// @Tags councils
// @Produce json
// @Param id path string true "Blueprint ID"
// @Success 200 {object} models.Blueprint
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /councils/{id} [get]
func (h *Handler) GetBlueprint(c *gin.Context) {
	bp, err := h.blueprints.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusOK, bp)
}

// UpdateBlueprint godoc
// @Summary Update council blueprint
// @Description Replace a blueprint's definition; bumps its version
// @Tags councils
// @Accept json
// @Produce json
// @Param id path string true "Blueprint ID"
// @Param request body BlueprintRequest true "Blueprint definition"
// @Success 200 {object} models.Blueprint
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /councils/{id} [put]
func (h *Handler) UpdateBlueprint(c *gin.Context) {
	var req BlueprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrCodeInvalidRequest, "Invalid request")
		return
	}

	bp := &models.Blueprint{
		ID:    c.Param("id"),
		Name:  req.Name,
		Nodes: req.Nodes,
		Edges: req.Edges,
	}

	if _, err := council.BuildTopology(bp); err != nil {
		domainError(c, err)
		return
	}

	saved, err := h.blueprints.Update(c.Request.Context(), bp)
	if err != nil {
		domainError(c, err)
		return
	}

	c.JSON(http.StatusOK, saved)
}

// DeleteBlueprint godoc
// @Summary Delete council blueprint
// @Tags councils
// @Param id path string true "Blueprint ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /councils/{id} [delete]
func (h *Handler) DeleteBlueprint(c *gin.Context) {
	if err := h.blueprints.Delete(c.Request.Context(), c.Param("id")); err != nil {
		domainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StartRunRequest represents a run start payload
type StartRunRequest struct {
	Topic string `json:"topic" binding:"required"`
	Mode  string `json:"mode"`
}

// StartRunResponse represents a run start response
type StartRunResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// StartRun godoc
// @Summary Start council run
// @Description Compile the blueprint and start an asynchronous council run
// @Tags runs
// @Accept json
// @Produce json
// @Param id path string true "Blueprint ID"
// @Param request body StartRunRequest true "Run parameters"
// @Success 202 {object} StartRunResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /councils/{id}/run [post]
func (h *Handler) StartRun(c *gin.Context) {
	var req StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrCodeInvalidRequest, "Invalid request")
		return
	}
	if req.Mode == "" {
		req.Mode = models.ModeAutoPilot
	}

	runID, err := h.service.StartRun(c.Request.Context(), c.Param("id"), req.Topic, req.Mode)
	if err != nil {
		logging.L.Warnw("failed to start run", "blueprint_id", c.Param("id"), "error", err)
		domainError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, StartRunResponse{
		RunID:  runID,
		Status: models.RunStatusPending,
	})
}

// ListRuns godoc
// @Summary List run history
// @Tags runs
// @Produce json
// @Success 200 {array} models.CouncilRun
// @Security BearerAuth
// @Router /runs [get]
func (h *Handler) ListRuns(c *gin.Context) {
	runs, err := h.runs.List(c.Request.Context(), 0)
	if err != nil {
		domainError(c, err)
		return
	}
	if runs == nil {
		runs = []*models.CouncilRun{}
	}
	c.JSON(http.StatusOK, runs)
}

// GetRun godoc
// @Summary Get run status
// @Description Live state of an in-flight run, or the persisted record once finished
// @Tags runs
// @Produce json
// @Param run_id path string true "Run ID"
// @Success 200 {object} models.RunState
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /runs/{run_id} [get]
func (h *Handler) GetRun(c *gin.Context) {
	state, err := h.service.RunStatus(c.Request.Context(), c.Param("run_id"))
	if err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ApproveRunRequest represents an operator decision on a paused run
type ApproveRunRequest struct {
	Decision string          `json:"decision" binding:"required"`
	Updates  *council.Update `json:"updates,omitempty"`
}

// ApproveRun godoc
// @Summary Resolve a paused run
// @Description Approve, modify, or reject a supervised run waiting at a checkpoint
// @Tags runs
// @Accept json
// @Produce json
// @Param run_id path string true "Run ID"
// @Param request body ApproveRunRequest true "Decision"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /runs/{run_id}/approve [post]
func (h *Handler) ApproveRun(c *gin.Context) {
	var req ApproveRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrCodeInvalidRequest, "Invalid request")
		return
	}

	runID := c.Param("run_id")
	if err := h.service.Resume(c.Request.Context(), runID, req.Decision, req.Updates); err != nil {
		domainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"run_id": runID, "decision": req.Decision})
}

// GetRunCheckpoint godoc
// @Summary Inspect a supervised run's checkpoint
// @Tags runs
// @Produce json
// @Param run_id path string true "Run ID"
// @Success 200 {object} council.Checkpoint
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /runs/{run_id}/state [get]
func (h *Handler) GetRunCheckpoint(c *gin.Context) {
	cp, err := h.service.Snapshot(c.Param("run_id"))
	if err != nil {
		domainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cp)
}

// UploadPDFResponse reports the ingestion outcome
type UploadPDFResponse struct {
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
}

// UploadPDF godoc
// @Summary Upload a PDF document
// @Description Parse and chunk a PDF so the document_search tool can find it
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF file"
// @Success 200 {object} UploadPDFResponse
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /documents/upload-pdf [post]
func (h *Handler) UploadPDF(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, models.ErrCodeInvalidRequest, "Missing 'file' upload")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, models.ErrCodeInvalidRequest, "Failed to read upload")
		return
	}
	defer file.Close()

	chunks, err := h.service.IngestPDF(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		logging.L.Warnw("pdf ingestion failed", "filename", fileHeader.Filename, "error", err)
		respondError(c, http.StatusBadRequest, models.ErrCodeInvalidRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, UploadPDFResponse{
		Filename: fileHeader.Filename,
		Chunks:   chunks,
	})
}
