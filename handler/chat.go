package handler

import (
	"net/http"
	"strings"

	"github.com/clausecloud/backend/model"
	"github.com/clausecloud/backend/pkg/logger"
	"github.com/clausecloud/backend/service"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	contracts *service.ContractStore
	chats     *service.ChatStore
	llm       LLM
}

func NewChatHandler(contracts *service.ContractStore, chats *service.ChatStore, llm LLM) *ChatHandler {
	return &ChatHandler{
		contracts: contracts,
		chats:     chats,
		llm:       llm,
	}
}

// SendMessage answers one question about a contract and records the exchange
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req struct {
		ContractID string `json:"contractId"`
		Message    string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ContractID == "" || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contract ID and message are required"})
		return
	}

	contract := h.contracts.GetByID(req.ContractID)
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	history := h.chats.GetHistory(req.ContractID)

	response, err := h.llm.Chat(c.Request.Context(), contract, history, req.Message)
	if err != nil {
		logger.Error(c.Request.Context(), "chat failed", "contract_id", req.ContractID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get response"})
		return
	}

	// One lock for the pair so concurrent chats can't interleave inside it
	h.chats.AddExchange(req.ContractID,
		model.ChatMessage{Role: model.RoleUser, Content: req.Message},
		model.ChatMessage{Role: model.RoleAssistant, Content: response},
	)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"response": response,
	})
}

// GetHistory returns a contract's full conversation, oldest first
func (h *ChatHandler) GetHistory(c *gin.Context) {
	contractID := c.Param("contractId")

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"contractId": contractID,
		"history":    h.chats.GetHistory(contractID),
	})
}

// ClearHistory drops a contract's conversation
func (h *ChatHandler) ClearHistory(c *gin.Context) {
	contractID := c.Param("contractId")
	h.chats.ClearHistory(contractID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Chat history cleared",
	})
}
