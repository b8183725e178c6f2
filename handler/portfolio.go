package handler

import (
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/clausecloud/backend/model"
	"github.com/clausecloud/backend/pkg/logger"
	"github.com/clausecloud/backend/service"
	"github.com/gin-gonic/gin"
)

// moneyPattern extracts the leading dollar amount from a free-text contract
// value like "$50,000/year"
var moneyPattern = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

type PortfolioHandler struct {
	contracts *service.ContractStore
	llm       LLM
}

func NewPortfolioHandler(contracts *service.ContractStore, llm LLM) *PortfolioHandler {
	return &PortfolioHandler{
		contracts: contracts,
		llm:       llm,
	}
}

// Metrics aggregates risk and value figures across the whole portfolio
func (h *PortfolioHandler) Metrics(c *gin.Context) {
	contracts := h.contracts.GetAll()

	totalContracts := len(contracts)
	var riskSum, totalValue float64
	needsReview := 0
	for _, contract := range contracts {
		if contract.Analysis == nil {
			continue
		}
		riskSum += contract.Analysis.RiskScore
		totalValue += parseMoney(contract.Analysis.Value)
		if contract.Analysis.RiskLevel == model.RiskHigh {
			needsReview++
		}
	}

	averageRisk := 0.0
	if totalContracts > 0 {
		averageRisk = math.Round(riskSum/float64(totalContracts)*10) / 10
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"metrics": gin.H{
			"totalContracts": totalContracts,
			"averageRisk":    averageRisk,
			"needsReview":    needsReview,
			"totalValue":     totalValue,
		},
	})
}

// Query answers a free-form question over every contract's summary
func (h *PortfolioHandler) Query(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	contracts := h.contracts.GetAll()

	answer, err := h.llm.PortfolioQuery(c.Request.Context(), contracts, req.Query)
	if err != nil {
		logger.Error(c.Request.Context(), "portfolio query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to answer portfolio query"})
		return
	}

	// Surface the contracts the answer talks about
	relevant := make([]gin.H, 0)
	for _, contract := range contracts {
		if contract.Filename != "" && strings.Contains(answer, contract.Filename) {
			relevant = append(relevant, gin.H{
				"id":       contract.ID,
				"filename": contract.Filename,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"answer":            answer,
		"relevantContracts": relevant,
	})
}

// parseMoney returns the first dollar amount in s, or 0
func parseMoney(s string) float64 {
	match := moneyPattern.FindStringSubmatch(s)
	if len(match) < 2 {
		return 0
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	return value
}
