package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Infernape3000/Tenacio/internal/adapters/http/dto"
	"github.com/Infernape3000/Tenacio/internal/adapters/http/middleware"
	"github.com/Infernape3000/Tenacio/internal/app"
	"github.com/Infernape3000/Tenacio/internal/domain"
)

// anonymousUser is the identity used when the gateway supplied no subject.
const anonymousUser = domain.AnonymousUser

// InsightHandler handles the insight orchestration endpoints.
type InsightHandler struct {
	insights *app.InsightService
	share    *app.ShareService
}

// NewInsightHandler creates a new insight handler.
func NewInsightHandler(insights *app.InsightService, share *app.ShareService) *InsightHandler {
	return &InsightHandler{
		insights: insights,
		share:    share,
	}
}

// InsightRequest is the request body for POST /api/v1/insights.
type InsightRequest struct {
	Text string `json:"text" binding:"required" validate:"notempty,max=2000"`
}

// QuoteResponse is the HTTP representation of a quote.
type QuoteResponse struct {
	ID     string   `json:"id,omitempty"`
	Text   string   `json:"text"`
	Author string   `json:"author"`
	Tags   []string `json:"tags,omitempty"`
}

// SignalsResponse is the HTTP representation of the derived search signals.
type SignalsResponse struct {
	SentimentScore int      `json:"sentimentScore"`
	EmotionLabel   string   `json:"emotionLabel"`
	Keywords       []string `json:"keywords"`
}

// InsightResponse is the response body for a completed insight request.
type InsightResponse struct {
	Quote        QuoteResponse   `json:"quote"`
	Signals      SignalsResponse `json:"signals"`
	SearchTags   []string        `json:"searchTags"`
	FromFallback bool            `json:"fromFallback"`
	Remaining    int             `json:"remaining"`
}

// CurrentQuoteResponse is the response body for the displayed quote.
type CurrentQuoteResponse struct {
	Quote QuoteResponse `json:"quote"`
}

// ShareResponse is the response body for a share request.
type ShareResponse struct {
	Message string `json:"message"`
}

// QuotaResponse is the response body for the quota endpoint.
type QuotaResponse struct {
	Remaining     int    `json:"remaining"`
	Max           int    `json:"max"`
	LastResetDate string `json:"lastResetDate,omitempty"`
}

func toQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:     q.ID,
		Text:   q.Text,
		Author: q.Author,
		Tags:   q.Tags,
	}
}

func toInsightResponse(in *domain.Insight) *InsightResponse {
	return &InsightResponse{
		Quote: toQuoteResponse(in.Quote),
		Signals: SignalsResponse{
			SentimentScore: in.Signals.SentimentScore,
			EmotionLabel:   string(in.Signals.EmotionLabel),
			Keywords:       in.Signals.Keywords,
		},
		SearchTags:   in.SearchTags,
		FromFallback: in.FromFallback,
		Remaining:    in.Remaining,
	}
}

// userID resolves the caller identity from the gateway claims.
func userID(c *gin.Context) string {
	if claims := middleware.GetClaims(c); claims != nil && claims.Subject != "" {
		return claims.Subject
	}

	return anonymousUser
}

// RequestInsight handles POST /api/v1/insights.
// Runs the full orchestration cycle: quota gate, signal extraction, tiered
// quote retrieval, persistence, history dispatch.
//
// @Summary Request an insight for a piece of user text
// @Tags insights
// @Accept json
// @Produce json
// @Success 200 {object} InsightResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/insights [post]
func (h *InsightHandler) RequestInsight(c *gin.Context) {
	var req InsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.HandleError(c, domain.NewValidationError("text", "input text is required"))
		return
	}

	insight, err := h.insights.RequestInsight(c.Request.Context(), userID(c), req.Text)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toInsightResponse(insight))
}

// GetCurrent handles GET /api/v1/insights/current.
//
// @Summary Get the currently displayed quote
// @Tags insights
// @Produce json
// @Success 200 {object} CurrentQuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/insights/current [get]
func (h *InsightHandler) GetCurrent(c *gin.Context) {
	quote, err := h.insights.Current(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, CurrentQuoteResponse{Quote: toQuoteResponse(quote)})
}

// Share handles POST /api/v1/insights/share.
// A dismissed share sheet is a success; only delivery failures are errors.
//
// @Summary Share the currently displayed quote
// @Tags insights
// @Produce json
// @Success 200 {object} ShareResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/insights/share [post]
func (h *InsightHandler) Share(c *gin.Context) {
	message, err := h.share.ShareCurrent(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ShareResponse{Message: message})
}

// GetQuota handles GET /api/v1/quota.
//
// @Summary Get the daily allowance state
// @Tags insights
// @Produce json
// @Success 200 {object} QuotaResponse
// @Router /api/v1/quota [get]
func (h *InsightHandler) GetQuota(c *gin.Context) {
	state, err := h.insights.Quota(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, QuotaResponse{
		Remaining:     state.Remaining,
		Max:           h.insights.QuotaMax(),
		LastResetDate: state.LastResetDate,
	})
}

// RegisterInsightRoutes registers insight routes on the given router group.
func (h *InsightHandler) RegisterInsightRoutes(rg *gin.RouterGroup) {
	insights := rg.Group("/insights")
	insights.POST("", h.RequestInsight)
	insights.GET("/current", h.GetCurrent)
	insights.POST("/share", h.Share)

	rg.GET("/quota", h.GetQuota)
}
