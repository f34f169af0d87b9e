package api

import (
	"net/http"

	"gotrip-checkout/internal/handler/httperr"
	"gotrip-checkout/internal/pkg/errs"
	"gotrip-checkout/internal/usecase/commands"
	"gotrip-checkout/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target error
	status int
	msg    string
}

// order matters: the first matching sentinel wins.
var errorMappings = []errorMapping{
	{queries.ErrCheckoutNotFound, http.StatusNotFound, "Phiên đặt tour không tồn tại hoặc đã hết hạn."},
	{commands.ErrInvalidSelection, http.StatusBadRequest, "Invalid product selection"},
	{commands.ErrInvalidCounts, http.StatusBadRequest, "Cần ít nhất 1 người lớn."},
	{commands.ErrPassengerNotFound, http.StatusNotFound, "Passenger not found"},
	{commands.ErrInvalidPassenger, http.StatusBadRequest, "Invalid passenger data"},
	{commands.ErrEmptyPromotionCode, http.StatusBadRequest, "Vui lòng nhập mã giảm giá."},
	{commands.ErrCheckoutClosed, http.StatusConflict, "Checkout already submitted"},
	{commands.ErrSubmissionInProgress, http.StatusConflict, "Đang xử lý, vui lòng đợi."},
	{commands.ErrStoreFailure, http.StatusServiceUnavailable, "Service temporarily unavailable"},
	{queries.ErrPromotionsUnavailable, http.StatusBadGateway, "Promotion list unavailable"},
	{commands.ErrMissingBooking, http.StatusNotFound, "Không tìm thấy đơn đặt tour."},
	{commands.ErrInvalidAmount, http.StatusUnprocessableEntity, "Số tiền thanh toán không hợp lệ."},
	{commands.ErrPaymentUnavailable, http.StatusBadGateway, "Không thể kết nối cổng thanh toán."},
	{commands.ErrNothingToReconcile, http.StatusBadRequest, "Nothing to reconcile"},
}

// abortWithUseCaseError maps a use-case error to its HTTP form; unknown errors become 500.
func abortWithUseCaseError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errs.Is(err, m.target) {
			httperr.AbortWithError(c, m.status, err, m.msg, nil)
			return
		}
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}

func abortInvalidRequest(c *gin.Context, err error) {
	httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", httperr.BindingDetail(err))
}
