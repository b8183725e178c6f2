package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/clausecloud/backend/config"
	"github.com/clausecloud/backend/model"
	"github.com/clausecloud/backend/pkg/metrics"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker/v2"
)

// LLMService is the gateway to the external completion service. Structured
// calls (analysis, comparison) parse and validate the model's JSON output,
// retrying once with a corrective follow-up before giving up; chat and
// portfolio-query calls return the completion text verbatim.
type LLMService struct {
	client          *openai.Client
	model           string
	maxTokens       int
	timeout         time.Duration
	maxHistoryTurns int
	breaker         *gobreaker.CircuitBreaker[string]
	metrics         *metrics.Metrics
}

// NewLLMService creates the gateway from config. The metrics receiver may be
// nil.
func NewLLMService(cfg *config.LLMConfig, maxHistoryTurns int, m *metrics.Metrics) *LLMService {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &LLMService{
		client:          openai.NewClientWithConfig(clientCfg),
		model:           cfg.Model,
		maxTokens:       cfg.MaxTokens,
		timeout:         time.Duration(cfg.TimeoutSeconds) * time.Second,
		maxHistoryTurns: maxHistoryTurns,
		breaker:         breaker,
		metrics:         m,
	}
}

// complete performs one chat-completion call through the circuit breaker
func (s *LLMService) complete(ctx context.Context, operation string, messages []openai.ChatCompletionMessage) (string, error) {
	start := time.Now()

	text, err := s.breaker.Execute(func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		resp, err := s.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:     s.model,
			MaxTokens: s.maxTokens,
			Messages:  messages,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("completion returned no choices")
		}
		return resp.Choices[0].Message.Content, nil
	})

	if s.metrics != nil {
		s.metrics.RecordLLMRequest(operation, err, time.Since(start))
	}

	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUpstream, operation, err)
	}
	return text, nil
}

// AnalyzeContract runs the analysis prompt over the full contract text and
// returns the validated structured result.
func (s *LLMService) AnalyzeContract(ctx context.Context, contractText string, settings model.AnalysisContext) (*model.Analysis, error) {
	prompt := AnalysisPrompt(contractText, settings)
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}

	raw, err := s.complete(ctx, "analyze", messages)
	if err != nil {
		return nil, err
	}

	analysis, parseErr := parseAnalysis(raw)
	if parseErr == nil {
		return analysis, nil
	}

	// One corrective turn: echo the bad reply back and ask for bare JSON
	raw, err = s.complete(ctx, "analyze_retry", append(messages,
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: raw},
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: CorrectiveReprompt},
	))
	if err != nil {
		return nil, err
	}

	analysis, parseErr = parseAnalysis(raw)
	if parseErr != nil {
		return nil, fmt.Errorf("%w: parse analysis: %v", ErrUpstream, parseErr)
	}
	return analysis, nil
}

// Chat answers one conversational question about a contract. Only the most
// recent turns are replayed so the request payload stays bounded.
func (s *LLMService) Chat(ctx context.Context, contract *model.Contract, history []model.ChatMessage, message string) (string, error) {
	if s.maxHistoryTurns > 0 && len(history) > s.maxHistoryTurns {
		history = history[len(history)-s.maxHistoryTurns:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: ChatSystemPrompt(contract.Text, contract.Analysis),
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == model.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	return s.complete(ctx, "chat", messages)
}

// Compare runs the comparison prompt over the given contracts and returns
// the validated recommendation.
func (s *LLMService) Compare(ctx context.Context, contracts []*model.Contract, settings model.AnalysisContext, weights map[string]float64) (*model.Comparison, error) {
	prompt := ComparisonPrompt(contracts, settings, weights)
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}

	raw, err := s.complete(ctx, "compare", messages)
	if err != nil {
		return nil, err
	}

	comparison, parseErr := parseComparison(raw)
	if parseErr == nil {
		return comparison, nil
	}

	raw, err = s.complete(ctx, "compare_retry", append(messages,
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: raw},
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: CorrectiveReprompt},
	))
	if err != nil {
		return nil, err
	}

	comparison, parseErr = parseComparison(raw)
	if parseErr != nil {
		return nil, fmt.Errorf("%w: parse comparison: %v", ErrUpstream, parseErr)
	}
	return comparison, nil
}

// PortfolioQuery answers a free-form question over all contract summaries
func (s *LLMService) PortfolioQuery(ctx context.Context, contracts []*model.Contract, query string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: PortfolioQueryPrompt(contracts, query)},
	}
	return s.complete(ctx, "portfolio_query", messages)
}

// parseAnalysis extracts, unmarshals and normalizes an analysis reply. The
// model is an untrusted producer: fenced output and trailing commas are
// repaired, the risk level is normalized, and the score is clamped to its
// documented range.
func parseAnalysis(raw string) (*model.Analysis, error) {
	payload := ExtractJSON(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object in completion")
	}

	var analysis model.Analysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w", err)
	}

	analysis.RiskLevel = strings.ToLower(analysis.RiskLevel)
	switch analysis.RiskLevel {
	case model.RiskLow, model.RiskMedium, model.RiskHigh:
	default:
		analysis.RiskLevel = riskLevelForScore(analysis.RiskScore)
	}

	if analysis.RiskScore < 0 {
		analysis.RiskScore = 0
	} else if analysis.RiskScore > 20 {
		analysis.RiskScore = 20
	}

	if analysis.CriticalIssues == nil {
		analysis.CriticalIssues = []model.Issue{}
	}
	if analysis.ModerateConcerns == nil {
		analysis.ModerateConcerns = []model.Issue{}
	}
	if analysis.FavorableTerms == nil {
		analysis.FavorableTerms = []string{}
	}

	return &analysis, nil
}

// riskLevelForScore applies the documented score thresholds
func riskLevelForScore(score float64) string {
	switch {
	case score <= 5:
		return model.RiskLow
	case score <= 12:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// parseComparison extracts and unmarshals a comparison reply
func parseComparison(raw string) (*model.Comparison, error) {
	payload := ExtractJSON(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object in completion")
	}

	var comparison model.Comparison
	if err := json.Unmarshal([]byte(payload), &comparison); err != nil {
		return nil, fmt.Errorf("unmarshal comparison: %w", err)
	}
	if comparison.BestChoiceID == "" {
		return nil, fmt.Errorf("comparison missing bestChoiceId")
	}
	if comparison.Reasoning == nil {
		comparison.Reasoning = []string{}
	}

	return &comparison, nil
}
