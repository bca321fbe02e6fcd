package http

import (
	"net/http"
	"strconv"
	"strings"

	"go-stock-sentiment/internal/api/dto"
	"go-stock-sentiment/internal/api/service"
	"go-stock-sentiment/internal/universe"
	"go-stock-sentiment/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SentimentHandler handles the reporting and trigger endpoints.
type SentimentHandler struct {
	sentimentService service.SentimentService
	universe         *universe.Cache
	logger           *logger.Logger
}

// NewSentimentHandler creates a new SentimentHandler.
func NewSentimentHandler(sentimentService service.SentimentService, uni *universe.Cache, log *logger.Logger) *SentimentHandler {
	return &SentimentHandler{sentimentService: sentimentService, universe: uni, logger: log}
}

// RegisterRoutes registers the sentiment routes to the Echo group.
func (h *SentimentHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/collect/:ticker", h.CollectNow)
	g.GET("/search/:ticker", h.Search)
	g.GET("/trending", h.Trending)
	g.GET("/sentiments/:ticker", h.Sentiments)
	g.GET("/tickers", h.Tickers)
	g.GET("/activity/recent", h.RecentActivity)
	g.GET("/autocomplete", h.Autocomplete)
	g.GET("/sp500", h.SP500)
	g.POST("/validate-ticker", h.ValidateTicker)
}

// CollectNow triggers a targeted collection pass and waits for completion.
func (h *SentimentHandler) CollectNow(c echo.Context) error {
	resp, err := h.sentimentService.CollectNow(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		h.logger.Error("Collect-now failed", logger.ErrorField(err), logger.StringField("ticker", c.Param("ticker")))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusAccepted, resp)
}

// Search returns stats, timeline and recent rows for a ticker, collecting
// fresh data first when requested.
func (h *SentimentHandler) Search(c echo.Context) error {
	days := queryInt(c, "days", 7)
	limit := queryInt(c, "limit", 20)
	fresh := queryBool(c, "fresh")

	resp, err := h.sentimentService.Search(c.Request().Context(), c.Param("ticker"), days, limit, fresh)
	if err != nil {
		h.logger.Error("Search failed", logger.ErrorField(err), logger.StringField("ticker", c.Param("ticker")))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// Trending returns the most-mentioned tickers of the period.
func (h *SentimentHandler) Trending(c echo.Context) error {
	rows, err := h.sentimentService.Trending(c.Request().Context(), c.QueryParam("period"), queryInt(c, "limit", 10))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// Sentiments returns the raw scored rows for a ticker.
func (h *SentimentHandler) Sentiments(c echo.Context) error {
	rows, err := h.sentimentService.Sentiments(c.Request().Context(), c.Param("ticker"), queryInt(c, "hours", 24))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// Tickers lists every ticker with at least one scored row.
func (h *SentimentHandler) Tickers(c echo.Context) error {
	tickers, err := h.sentimentService.Tickers(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, tickers)
}

// RecentActivity returns the latest scored rows across all tickers.
func (h *SentimentHandler) RecentActivity(c echo.Context) error {
	rows, err := h.sentimentService.RecentActivity(c.Request().Context(), queryInt(c, "limit", 50))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// Autocomplete suggests known tickers matching a prefix.
func (h *SentimentHandler) Autocomplete(c echo.Context) error {
	tickers, err := h.sentimentService.Autocomplete(c.Request().Context(), c.QueryParam("q"), queryInt(c, "limit", 10))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, tickers)
}

// SP500 returns the cached S&P 500 constituent symbols.
func (h *SentimentHandler) SP500(c echo.Context) error {
	symbols, err := h.universe.Symbols(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to load constituents", logger.ErrorField(err))
		return c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "constituent list unavailable"})
	}
	return c.JSON(http.StatusOK, symbols)
}

// ValidateTicker checks a symbol against the S&P 500 membership cache.
func (h *SentimentHandler) ValidateTicker(c echo.Context) error {
	var req dto.ValidateTickerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "ticker is empty"})
	}

	return c.JSON(http.StatusOK, dto.ValidateTickerResponse{
		Ticker: ticker,
		Valid:  h.universe.Contains(c.Request().Context(), ticker),
	})
}

func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func queryBool(c echo.Context, name string) bool {
	v, err := strconv.ParseBool(c.QueryParam(name))
	return err == nil && v
}
