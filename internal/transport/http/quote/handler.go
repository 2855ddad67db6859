package quote

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/queries/calculate_price"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/queries/get_price_history"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/queries/get_quote"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/queries/list_events"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/add_event"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/change_parameters"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/create_quote"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/remove_event"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/reset_price"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/save_quote"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/select_package"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/set_manual_price"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/unlink_package"
)

// UserIDHeader identifies the acting back-office user.
const UserIDHeader = "X-User-ID"

// Commands groups the write use cases served by the handler.
type Commands struct {
	CreateQuote      *create_quote.Interactor
	SelectPackage    *select_package.Interactor
	ChangeParameters *change_parameters.Interactor
	SetManualPrice   *set_manual_price.Interactor
	ResetPrice       *reset_price.Interactor
	UnlinkPackage    *unlink_package.Interactor
	AddEvent         *add_event.Interactor
	RemoveEvent      *remove_event.Interactor
	SaveQuote        *save_quote.Interactor
}

// Queries groups the read use cases served by the handler.
type Queries struct {
	GetQuote        *get_quote.Query
	CalculatePrice  *calculate_price.Query
	GetPriceHistory *get_price_history.Query
	ListEvents      *list_events.Query
}

// Handler exposes the quote pricing use cases over HTTP.
// It's a thin coordinator that delegates to use cases and queries.
type Handler struct {
	commands Commands
	queries  Queries
	logger   *zap.Logger
}

// NewHandler creates a new HTTP quote handler.
func NewHandler(commands Commands, queries Queries, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		commands: commands,
		queries:  queries,
		logger:   logger,
	}
}

// RegisterRoutes mounts the quote endpoints on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	quotes := r.Group("/quotes")
	quotes.POST("", h.CreateQuote)
	quotes.GET("/:quoteID", h.GetQuote)
	quotes.PUT("/:quoteID", h.SaveQuote)
	quotes.POST("/:quoteID/calculate", h.CalculatePrice)
	quotes.POST("/:quoteID/package", h.SelectPackage)
	quotes.DELETE("/:quoteID/package", h.UnlinkPackage)
	quotes.PUT("/:quoteID/parameters", h.ChangeParameters)
	quotes.PUT("/:quoteID/price", h.SetManualPrice)
	quotes.POST("/:quoteID/price/reset", h.ResetPrice)
	quotes.GET("/:quoteID/price-history", h.GetPriceHistory)
	quotes.POST("/:quoteID/events", h.AddEvent)
	quotes.DELETE("/:quoteID/events/:eventID", h.RemoveEvent)
	quotes.GET("/:quoteID/outbox", h.ListOutboxEvents)
}

// CreateQuote creates a new unlinked quote.
func (h *Handler) CreateQuote(c *gin.Context) {
	var body createQuoteBody
	if !h.bind(c, &body) {
		return
	}

	params, err := body.toParams()
	if err != nil {
		h.fail(c, err)
		return
	}

	id, err := h.commands.CreateQuote.Execute(c.Request.Context(), &create_quote.Request{
		Currency:   body.Currency,
		Inclusions: body.Inclusions,
		Exclusions: body.Exclusions,
		Params:     params,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, createQuoteReply{QuoteID: id})
}

// GetQuote returns the quote read model.
func (h *Handler) GetQuote(c *gin.Context) {
	dto, err := h.queries.GetQuote.Execute(c.Request.Context(), &get_quote.Request{QuoteID: c.Param("quoteID")})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// SaveQuote stores currency, inclusions and exclusions. An on-request linked price
// without a manual total is rejected.
func (h *Handler) SaveQuote(c *gin.Context) {
	var body saveDetailsBody
	if !h.bind(c, &body) {
		return
	}

	q, err := h.commands.SaveQuote.Execute(c.Request.Context(), &save_quote.Request{
		QuoteID:    c.Param("quoteID"),
		Currency:   body.Currency,
		Inclusions: body.Inclusions,
		Exclusions: body.Exclusions,
		UserID:     userID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteReply(q, nil))
}

// CalculatePrice previews a price without touching the quote. The body is optional.
func (h *Handler) CalculatePrice(c *gin.Context) {
	var body calculateBody
	if c.Request.ContentLength != 0 && !h.bind(c, &body) {
		return
	}

	req := &calculate_price.Request{
		QuoteID:   c.Param("quoteID"),
		PackageID: body.PackageID,
	}
	if !body.empty() {
		params, err := body.toParams()
		if err != nil {
			h.fail(c, err)
			return
		}
		req.Params = &params
	}

	price, err := h.queries.CalculatePrice.Execute(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, price)
}

// SelectPackage links a package and prices the quote immediately.
func (h *Handler) SelectPackage(c *gin.Context) {
	var body selectPackageBody
	if !h.bind(c, &body) {
		return
	}

	resp, err := h.commands.SelectPackage.Execute(c.Request.Context(), &select_package.Request{
		QuoteID:   c.Param("quoteID"),
		PackageID: body.PackageID,
		UserID:    userID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteReply(resp.Quote, resp.Outcome))
}

// UnlinkPackage detaches the package and keeps the current total.
func (h *Handler) UnlinkPackage(c *gin.Context) {
	q, err := h.commands.UnlinkPackage.Execute(c.Request.Context(), &unlink_package.Request{
		QuoteID: c.Param("quoteID"),
		UserID:  userID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteReply(q, nil))
}

// ChangeParameters stores new trip parameters. A failed recalculation still stores
// them and reports the failure alongside the quote.
func (h *Handler) ChangeParameters(c *gin.Context) {
	var body paramsBody
	if !h.bind(c, &body) {
		return
	}

	params, err := body.toParams()
	if err != nil {
		h.fail(c, err)
		return
	}

	resp, err := h.commands.ChangeParameters.Execute(c.Request.Context(), &change_parameters.Request{
		QuoteID: c.Param("quoteID"),
		Params:  params,
		UserID:  userID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	reply := parametersReply{
		Quote:        get_quote.ToDTO(resp.Quote),
		PriceChanged: resp.PriceChanged,
	}
	if resp.Outcome != nil {
		reply.Price = calculate_price.ToDTO(resp.Outcome)
	}
	if resp.CalculationErr != nil {
		h.logger.Warn("recalculation failed",
			zap.String("quote_id", resp.Quote.ID()),
			zap.Error(resp.CalculationErr))
		_, calcErr := mapDomainError(resp.CalculationErr)
		reply.CalculationError = &calcErr
	}
	c.JSON(http.StatusOK, reply)
}

// SetManualPrice overrides the total price.
func (h *Handler) SetManualPrice(c *gin.Context) {
	var body manualPriceBody
	if !h.bind(c, &body) {
		return
	}

	price, err := parseAmount("totalPrice", body.TotalPrice)
	if err != nil {
		h.fail(c, err)
		return
	}

	q, err := h.commands.SetManualPrice.Execute(c.Request.Context(), &set_manual_price.Request{
		QuoteID: c.Param("quoteID"),
		Price:   price,
		UserID:  userID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteReply(q, nil))
}

// ResetPrice restores the package's calculated price.
func (h *Handler) ResetPrice(c *gin.Context) {
	q, err := h.commands.ResetPrice.Execute(c.Request.Context(), &reset_price.Request{
		QuoteID: c.Param("quoteID"),
		UserID:  userID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteReply(q, nil))
}

// GetPriceHistory returns one page of the audit log, newest first.
func (h *Handler) GetPriceHistory(c *gin.Context) {
	since, pageSize, err := parseHistoryQuery(c.Query("reason"), c.Query("since"), c.Query("pageSize"))
	if err != nil {
		h.fail(c, err)
		return
	}

	page, err := h.queries.GetPriceHistory.Execute(c.Request.Context(), &get_price_history.Request{
		QuoteID:   c.Param("quoteID"),
		Reason:    c.Query("reason"),
		Since:     since,
		PageSize:  pageSize,
		PageToken: c.Query("pageToken"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// AddEvent adds a priced itinerary event.
func (h *Handler) AddEvent(c *gin.Context) {
	var body addEventBody
	if !h.bind(c, &body) {
		return
	}

	price, err := parseAmount("price", body.Price)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp, err := h.commands.AddEvent.Execute(c.Request.Context(), &add_event.Request{
		QuoteID: c.Param("quoteID"),
		Title:   body.Title,
		Price:   price,
		UserID:  userID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, addEventReply{
		Quote: get_quote.ToDTO(resp.Quote),
		Event: toEventDTO(resp.Event),
	})
}

// RemoveEvent removes an itinerary event.
func (h *Handler) RemoveEvent(c *gin.Context) {
	q, err := h.commands.RemoveEvent.Execute(c.Request.Context(), &remove_event.Request{
		QuoteID: c.Param("quoteID"),
		EventID: c.Param("eventID"),
		UserID:  userID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteReply(q, nil))
}

// ListOutboxEvents lists the domain events recorded for a quote.
func (h *Handler) ListOutboxEvents(c *gin.Context) {
	req := &list_events.Request{QuoteID: c.Param("quoteID")}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			req.Limit = limit
		}
	}

	events, err := h.queries.ListEvents.Execute(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toListOutboxReply(events))
}

func userID(c *gin.Context) string {
	return c.GetHeader(UserIDHeader)
}

// bind decodes the JSON body, answering 400 on failure.
func (h *Handler) bind(c *gin.Context, body interface{}) bool {
	if err := c.ShouldBindJSON(body); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", domain.ErrInvalidParams, err))
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, body := mapDomainError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("quote_id", c.Param("quoteID")),
			zap.Int("status", status),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, body)
}
