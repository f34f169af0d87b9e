package api

import (
	"net/http"

	reqdto "gotrip-checkout/internal/handler/dto/request"
	resdto "gotrip-checkout/internal/handler/dto/response"
	"gotrip-checkout/internal/handler/middleware"
	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/pkg/cookie"
	"gotrip-checkout/internal/pkg/errs"
	"gotrip-checkout/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	cmds commands.PaymentCommands
	cfg  config.Config
}

func NewPaymentHandler(cmds commands.PaymentCommands, cfg config.Config) *PaymentHandler {
	return &PaymentHandler{cmds: cmds, cfg: cfg}
}

// @Summary Create payment URL
// @Description Request a VNPay URL for a booking; the amount is read from the booking service
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.CreatePaymentURLRequest true "Booking to pay"
// @Success 200 {object} resdto.PaymentURLResponse
// @Failure 404 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/payments/url [post]
func (h *PaymentHandler) CreatePaymentURL(c *gin.Context) {
	var req reqdto.CreatePaymentURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err)
		return
	}
	params := req.ToParams()
	if params.SessionID == "" {
		params.SessionID = sessionOf(c)
	}

	res, err := h.cmds.CreatePaymentURL(c.Request.Context(), params)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.PaymentURLResponse{PaymentURL: res.URL, BookingID: res.BookingID, Amount: res.Amount})
}

// @Summary Mock payment
// @Description Settle a booking through the payment service's test endpoint
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.MockPaymentRequest true "Booking to settle"
// @Success 200 {object} resdto.PaymentResultResponse
// @Router /api/payments/mock [post]
func (h *PaymentHandler) MockPayment(c *gin.Context) {
	var req reqdto.MockPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err)
		return
	}
	if req.SessionID == "" {
		req.SessionID = sessionOf(c)
	}

	o, err := h.cmds.MockPayment(c.Request.Context(), commands.MockPaymentParams{SessionID: req.SessionID, BookingID: req.BookingID})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOutcome(o))
}

// @Summary Gateway redirect
// @Description Reconcile the gateway redirect; every query parameter is forwarded for verification.
// @Description Redirects to the storefront home when the request carries nothing to reconcile.
// @Tags payments
// @Produce json
// @Success 200 {object} resdto.PaymentResultResponse
// @Success 303 "nothing to reconcile"
// @Router /api/payments/result [get]
func (h *PaymentHandler) ResultRedirect(c *gin.Context) {
	params := commands.ReconcileParams{
		SessionID: sessionOf(c),
		Params:    c.Request.URL.Query(),
	}

	o, err := h.cmds.Reconcile(c.Request.Context(), params)
	if err != nil {
		if errs.Is(err, commands.ErrNothingToReconcile) {
			c.Redirect(http.StatusSeeOther, h.cfg.Checkout.HomeURL)
			return
		}
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOutcome(o))
}

// @Summary Payment result
// @Description Reconcile a result-page entry posted as JSON (gateway params and/or handoff snapshot)
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.PaymentResultRequest true "Result entry"
// @Success 200 {object} resdto.PaymentResultResponse
// @Failure 400 {object} httperr.Response
// @Router /api/payments/result [post]
func (h *PaymentHandler) Result(c *gin.Context) {
	var req reqdto.PaymentResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err)
		return
	}
	params := req.ToParams()
	if params.SessionID == "" {
		params.SessionID = sessionOf(c)
	}

	o, err := h.cmds.Reconcile(c.Request.Context(), params)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOutcome(o))
}

func sessionOf(c *gin.Context) string {
	if id := c.GetHeader(middleware.SessionHeader); id != "" {
		return id
	}
	return cookie.GetCheckoutSession(c)
}
