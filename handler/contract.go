package handler

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/clausecloud/backend/model"
	"github.com/clausecloud/backend/pkg/logger"
	"github.com/clausecloud/backend/pkg/metrics"
	"github.com/clausecloud/backend/service"
	"github.com/gin-gonic/gin"
)

// pastedTextFilename labels contracts submitted as raw text
const pastedTextFilename = "Pasted Text Contract"

// allowedUploadTypes is the MIME allowlist for the upload endpoint
var allowedUploadTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"text/plain":      true,
}

type ContractHandler struct {
	store          *service.ContractStore
	settings       *service.SettingsStore
	llm            LLM
	archive        *service.ArchiveService // nil when archival is disabled
	metrics        *metrics.Metrics        // nil in tests
	maxUploadBytes int64
}

func NewContractHandler(store *service.ContractStore, settings *service.SettingsStore, llm LLM, archive *service.ArchiveService, m *metrics.Metrics, maxUploadMB int) *ContractHandler {
	return &ContractHandler{
		store:          store,
		settings:       settings,
		llm:            llm,
		archive:        archive,
		metrics:        m,
		maxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
	}
}

// Analyze handles a multipart contract upload: extract text, analyze, store
func (h *ContractHandler) Analyze(c *gin.Context) {
	file, header, err := c.Request.FormFile("contract")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	contentType := uploadContentType(header.Header.Get("Content-Type"), header.Filename)
	if !allowedUploadTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type. Use PDF, JPEG, PNG, or plain text."})
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	text, err := service.ExtractText(content, contentType)
	if err != nil {
		logger.Warn(c.Request.Context(), "text extraction failed", "filename", header.Filename, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not extract text from file"})
		return
	}
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not extract text from file"})
		return
	}

	contract, status, errMsg := h.analyzeAndStore(c.Request.Context(), header.Filename, text)
	if contract == nil {
		c.JSON(status, gin.H{"error": errMsg})
		return
	}

	if h.archive != nil {
		go h.archiveUpload(contract.ID, header.Filename, content, contentType)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"contractId": contract.ID,
		"analysis":   contract.Analysis,
	})
}

// AnalyzeText handles a pasted-text contract
func (h *ContractHandler) AnalyzeText(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contract text is required"})
		return
	}

	contract, status, errMsg := h.analyzeAndStore(c.Request.Context(), pastedTextFilename, req.Text)
	if contract == nil {
		c.JSON(status, gin.H{"error": errMsg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"contractId": contract.ID,
		"analysis":   contract.Analysis,
	})
}

// analyzeAndStore runs the shared tail of both analysis endpoints. A nil
// contract return carries the HTTP status and message to respond with.
func (h *ContractHandler) analyzeAndStore(ctx context.Context, filename, text string) (*model.Contract, int, string) {
	analysis, err := h.llm.AnalyzeContract(ctx, text, h.settings.AnalysisContext())
	if err != nil {
		logger.Error(ctx, "contract analysis failed", "filename", filename, "error", err)
		return nil, http.StatusInternalServerError, "Failed to analyze contract"
	}

	contract := &model.Contract{
		Filename: filename,
		Text:     text,
		Analysis: analysis,
	}
	id := h.store.Add(contract)

	if h.metrics != nil {
		h.metrics.RecordAnalysis(analysis.RiskLevel)
	}

	logger.Info(ctx, "contract analyzed",
		"contract_id", id,
		"filename", filename,
		"risk_level", analysis.RiskLevel,
		"risk_score", analysis.RiskScore,
	)

	return contract, http.StatusOK, ""
}

// archiveUpload stores the raw upload out of band; failures only log
func (h *ContractHandler) archiveUpload(contractID, filename string, content []byte, contentType string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	url, err := h.archive.StoreUpload(ctx, contractID, filename, content, contentType)
	if err != nil {
		logger.Warn(ctx, "failed to archive upload", "contract_id", contractID, "error", err)
		return
	}
	h.store.SetFileURL(contractID, url)
}

// List returns all contracts, optionally filtered by a substring query
func (h *ContractHandler) List(c *gin.Context) {
	var contracts []*model.Contract
	if q := c.Query("q"); q != "" {
		contracts = h.store.Search(q)
	} else {
		contracts = h.store.GetAll()
	}
	if contracts == nil {
		contracts = []*model.Contract{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"count":     len(contracts),
		"contracts": contracts,
	})
}

// Get returns a single contract with its analysis
func (h *ContractHandler) Get(c *gin.Context) {
	contract := h.store.GetByID(c.Param("id"))
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"contract": contract,
	})
}

// Delete removes a contract
func (h *ContractHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	contract := h.store.GetByID(id)
	if contract == nil || !h.store.Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	if h.archive != nil && contract.FileURL != "" {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := h.archive.DeleteUpload(ctx, contract.ID, contract.Filename); err != nil {
				logger.Warn(ctx, "failed to delete archived upload", "contract_id", contract.ID, "error", err)
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contract deleted successfully",
	})
}

type compareRequest struct {
	ContractIDs []string           `json:"contractIds"`
	Weights     map[string]float64 `json:"weights"`
}

// resolveContracts looks up the requested IDs, dropping absent ones
func (h *ContractHandler) resolveContracts(ids []string) []*model.Contract {
	contracts := make([]*model.Contract, 0, len(ids))
	for _, id := range ids {
		if contract := h.store.GetByID(id); contract != nil {
			contracts = append(contracts, contract)
		}
	}
	return contracts
}

// Compare runs the comparison prompt over the named contracts
func (h *ContractHandler) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ContractIDs) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least 2 contract IDs are required"})
		return
	}

	contracts := h.resolveContracts(req.ContractIDs)
	if len(contracts) < 2 {
		c.JSON(http.StatusNotFound, gin.H{"error": "One or more contracts not found"})
		return
	}

	comparison, err := h.llm.Compare(c.Request.Context(), contracts, h.settings.AnalysisContext(), nil)
	if err != nil {
		logger.Error(c.Request.Context(), "contract comparison failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate comparison"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"comparison": comparison,
	})
}

// Recommendation runs the comparison prompt with the caller's weights
func (h *ContractHandler) Recommendation(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ContractIDs) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least 2 contract IDs are required"})
		return
	}

	contracts := h.resolveContracts(req.ContractIDs)
	if len(contracts) < 2 {
		c.JSON(http.StatusNotFound, gin.H{"error": "One or more contracts not found"})
		return
	}

	recommendation, err := h.llm.Compare(c.Request.Context(), contracts, h.settings.AnalysisContext(), req.Weights)
	if err != nil {
		logger.Error(c.Request.Context(), "recommendation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recommendation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"recommendation": recommendation,
	})
}

// uploadContentType resolves the effective MIME type of an upload, falling
// back to the file extension for generic or missing declarations
func uploadContentType(declared, filename string) string {
	declared = strings.TrimSpace(declared)
	if idx := strings.Index(declared, ";"); idx >= 0 {
		declared = strings.TrimSpace(declared[:idx])
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".txt":
		return "text/plain"
	default:
		return declared
	}
}
