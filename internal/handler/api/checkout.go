package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "gotrip-checkout/internal/handler/dto/request"
	resdto "gotrip-checkout/internal/handler/dto/response"
	"gotrip-checkout/internal/handler/httperr"
	"gotrip-checkout/internal/handler/middleware"
	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/pkg/cookie"
	"gotrip-checkout/internal/usecase/commands"
	"gotrip-checkout/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const nextStepPayment = "payment"

type CheckoutHandler struct {
	cmds commands.CheckoutCommands
	q    queries.CheckoutQueries
	cfg  config.Config
}

func NewCheckoutHandler(cmds commands.CheckoutCommands, q queries.CheckoutQueries, cfg config.Config) *CheckoutHandler {
	return &CheckoutHandler{cmds: cmds, q: q, cfg: cfg}
}

// @Summary Start checkout
// @Description Create a checkout session from a product selection
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body reqdto.StartCheckoutRequest true "Product selection"
// @Success 201 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Router /api/checkout/sessions [post]
func (h *CheckoutHandler) Start(c *gin.Context) {
	var req reqdto.StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)
	params, err := req.ToParams(userID, middleware.GetToken(c))
	if err != nil {
		abortInvalidRequest(c, err)
		return
	}

	view, err := h.cmds.Start(c.Request.Context(), params)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	cookie.SetCheckoutSession(c, h.cfg.Cookie, view.ID, h.cfg.Checkout.SessionTTL)
	c.Header(middleware.SessionHeader, view.ID)
	c.JSON(http.StatusCreated, resdto.FromCheckoutView(view))
}

// @Summary Get checkout
// @Description Session view with the recomputed price breakdown
// @Tags checkout
// @Produce json
// @Param id path string true "Checkout session ID"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 404 {object} httperr.Response
// @Router /api/checkout/sessions/{id} [get]
func (h *CheckoutHandler) Get(c *gin.Context) {
	view, err := h.q.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	h.refreshToken(c)
	c.JSON(http.StatusOK, resdto.FromCheckoutView(view))
}

// @Summary Update passenger counts
// @Tags checkout
// @Accept json
// @Produce json
// @Param id path string true "Checkout session ID"
// @Param request body reqdto.UpdateCountsRequest true "Counts per passenger type"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Router /api/checkout/sessions/{id}/counts [put]
func (h *CheckoutHandler) UpdateCounts(c *gin.Context) {
	var req reqdto.UpdateCountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err)
		return
	}
	view, err := h.cmds.UpdateCounts(c.Request.Context(), c.Param("id"), req.ToCounts())
	h.respondView(c, view, err)
}

// @Summary Edit passenger
// @Description Edit one roster slot; absent fields are kept
// @Tags checkout
// @Accept json
// @Produce json
// @Param id path string true "Checkout session ID"
// @Param position path int true "Roster position"
// @Param request body reqdto.EditPassengerRequest true "Passenger fields"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/checkout/sessions/{id}/passengers/{position} [patch]
func (h *CheckoutHandler) EditPassenger(c *gin.Context) {
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil || position < 0 {
		httperr.AbortWithError(c, http.StatusBadRequest, errors.New("invalid position"), "Invalid passenger position", nil)
		return
	}
	var req reqdto.EditPassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err)
		return
	}
	view, err := h.cmds.EditPassenger(c.Request.Context(), c.Param("id"), req.ToParams(position))
	h.respondView(c, view, err)
}

// @Summary Set contact
// @Tags checkout
// @Accept json
// @Produce json
// @Param id path string true "Checkout session ID"
// @Param request body reqdto.ContactRequest true "Contact info"
// @Success 200 {object} resdto.CheckoutResponse
// @Router /api/checkout/sessions/{id}/contact [put]
func (h *CheckoutHandler) SetContact(c *gin.Context) {
	var req reqdto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err)
		return
	}
	contact, err := req.ToContact()
	if err != nil {
		abortInvalidRequest(c, err)
		return
	}
	view, err := h.cmds.SetContact(c.Request.Context(), c.Param("id"), contact)
	h.respondView(c, view, err)
}

// @Summary Set add-ons
// @Tags checkout
// @Accept json
// @Produce json
// @Param id path string true "Checkout session ID"
// @Param request body reqdto.AddOnsRequest true "Add-ons"
// @Success 200 {object} resdto.CheckoutResponse
// @Router /api/checkout/sessions/{id}/add-ons [put]
func (h *CheckoutHandler) SetAddOns(c *gin.Context) {
	var req reqdto.AddOnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err)
		return
	}
	view, err := h.cmds.SetAddOns(c.Request.Context(), c.Param("id"), req.ToAddOns())
	h.respondView(c, view, err)
}

// @Summary Apply promotion
// @Description Validate a promotion code against the current subtotal. A rejection answers 422 with
// @Description the displayable message and the session, whose previous promotion is cleared.
// @Tags checkout
// @Accept json
// @Produce json
// @Param id path string true "Checkout session ID"
// @Param request body reqdto.ApplyPromotionRequest true "Promotion code"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /api/checkout/sessions/{id}/promotion [post]
func (h *CheckoutHandler) ApplyPromotion(c *gin.Context) {
	var req reqdto.ApplyPromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err)
		return
	}

	view, err := h.cmds.ApplyPromotion(c.Request.Context(), c.Param("id"), req.Code)
	var rejected *commands.PromotionError
	if errors.As(err, &rejected) {
		var detail any
		if view != nil {
			detail = resdto.FromCheckoutView(view)
		}
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, rejected.Message, detail)
		return
	}
	h.respondView(c, view, err)
}

// @Summary Clear promotion
// @Tags checkout
// @Produce json
// @Param id path string true "Checkout session ID"
// @Success 200 {object} resdto.CheckoutResponse
// @Router /api/checkout/sessions/{id}/promotion [delete]
func (h *CheckoutHandler) ClearPromotion(c *gin.Context) {
	view, err := h.cmds.ClearPromotion(c.Request.Context(), c.Param("id"))
	h.respondView(c, view, err)
}

// @Summary Available promotions
// @Description Active promotions eligible for this checkout, each tagged with canUse
// @Tags checkout
// @Produce json
// @Param id path string true "Checkout session ID"
// @Success 200 {array} resdto.OfferResponse
// @Failure 502 {object} httperr.Response
// @Router /api/checkout/sessions/{id}/promotions [get]
func (h *CheckoutHandler) AvailablePromotions(c *gin.Context) {
	offers, err := h.q.AvailablePromotions(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promotions": resdto.FromOffers(offers)})
}

// @Summary Validate checkout
// @Tags checkout
// @Produce json
// @Param id path string true "Checkout session ID"
// @Success 200 {object} resdto.ValidationResponse
// @Router /api/checkout/sessions/{id}/validate [post]
func (h *CheckoutHandler) Validate(c *gin.Context) {
	fields, err := h.cmds.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	if fields == nil {
		fields = map[string]string{}
	}
	c.JSON(http.StatusOK, resdto.ValidationResponse{Valid: fields.Empty(), Errors: fields})
}

// @Summary Submit checkout
// @Description Validate and create exactly one booking
// @Tags checkout
// @Produce json
// @Param id path string true "Checkout session ID"
// @Success 201 {object} resdto.SubmitResponse
// @Success 200 {object} resdto.SubmitResponse "booking already created for this session"
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/checkout/sessions/{id}/submit [post]
func (h *CheckoutHandler) Submit(c *gin.Context) {
	h.refreshToken(c)

	res, err := h.cmds.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		var invalid *commands.ValidationError
		var failed *commands.SubmissionError
		switch {
		case errors.As(err, &invalid):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Vui lòng kiểm tra lại thông tin.", invalid.Fields)
		case errors.As(err, &failed):
			httperr.AbortWithError(c, http.StatusBadGateway, err, failed.Message, nil)
		default:
			abortWithUseCaseError(c, err)
		}
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.SubmitResponse{BookingID: res.BookingID, NextStep: nextStepPayment, Replayed: res.Replayed})
}

func (h *CheckoutHandler) respondView(c *gin.Context, view *queries.CheckoutView, err error) {
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCheckoutView(view))
}

// refreshToken keeps the stored bearer token current when the client sends a newer one.
func (h *CheckoutHandler) refreshToken(c *gin.Context) {
	token := middleware.GetToken(c)
	if token == "" {
		return
	}
	if err := h.cmds.BindToken(c.Request.Context(), c.Param("id"), token); err != nil {
		_ = c.Error(err)
	}
}
