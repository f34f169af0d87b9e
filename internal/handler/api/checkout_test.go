//go:build unit

package api_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"gotrip-checkout/internal/domain/checkout"
	"gotrip-checkout/internal/domain/pricing"
	"gotrip-checkout/internal/domain/promotion"
	"gotrip-checkout/internal/handler/api"
	reqdto "gotrip-checkout/internal/handler/dto/request"
	resdto "gotrip-checkout/internal/handler/dto/response"
	"gotrip-checkout/internal/handler/middleware"
	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/pkg/errs"
	"gotrip-checkout/internal/pkg/jwt"
	"gotrip-checkout/internal/usecase/commands"
	"gotrip-checkout/internal/usecase/queries"
	"gotrip-checkout/tests/common/builder"
	"gotrip-checkout/tests/common/httptest"
	"gotrip-checkout/tests/common/testutil"
	commandsmock "gotrip-checkout/tests/mock/commands"
	queriesmock "gotrip-checkout/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const sessionID = "7f0c1a52-3f7e-4c4a-9a55-1d6f0a9b2c11"

type CheckoutHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCheckoutCommands
	mockQueries  *queriesmock.MockCheckoutQueries
	handler      *api.CheckoutHandler
	view         *queries.CheckoutView
}

func (s *CheckoutHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCheckoutCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockCheckoutQueries(s.mockCtrl)
	s.handler = api.NewCheckoutHandler(s.mockCommands, s.mockQueries, config.NewTestConfig())

	sess := builder.NewCheckoutBuilder().MustBuild()
	s.view = queries.NewCheckoutView(sess, pricing.NewDefaultCalculator(pricing.DefaultSingleRoomSupplement))

	// no secret: tokens are forwarded without local verification
	s.router.Use(middleware.NewAuthMiddleware(jwt.NewService(""), slog.New(slog.NewTextHandler(io.Discard, nil))).OptionalAuth())
	g := s.router.Group("/api/checkout/sessions")
	g.POST("", s.handler.Start)
	g.GET("/:id", s.handler.Get)
	g.PUT("/:id/counts", s.handler.UpdateCounts)
	g.PATCH("/:id/passengers/:position", s.handler.EditPassenger)
	g.POST("/:id/promotion", s.handler.ApplyPromotion)
	g.GET("/:id/promotions", s.handler.AvailablePromotions)
	g.POST("/:id/validate", s.handler.Validate)
	g.POST("/:id/submit", s.handler.Submit)
}

func (s *CheckoutHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerTestSuite))
}

func startBody(t *testing.T, muts ...func(map[string]any)) map[string]any {
	sel := builder.NewCheckoutBuilder().Selection()
	req := reqdto.StartCheckoutRequest{
		ProductID:   sel.ProductID,
		InventoryID: sel.InventoryID,
		ProductType: sel.ProductType,
		Title:       sel.Title,
		BasePrice:   int64(sel.BasePrice),
		DepartDate:  sel.DepartDate,
	}
	req.BookingInfo.Adults = 2
	req.BookingInfo.Children = 1
	return testutil.DtoMap(t, req, muts...)
}

func (s *CheckoutHandlerTestSuite) TestStart() {
	url := "/api/checkout/sessions"

	s.Run("success: 201 with cookie and forwarded token", func() {
		want := builder.NewCheckoutBuilder().Selection()
		s.mockCommands.EXPECT().Start(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, p commands.StartCheckoutParams) (*queries.CheckoutView, error) {
				s.Empty(cmp.Diff(want.ProductID, p.Selection.ProductID))
				s.Equal(want.BasePrice, p.Selection.BasePrice)
				s.Equal(2, p.Adults)
				s.Equal(1, p.Children)
				s.Equal("token-abc", p.Token)
				return s.view, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, startBody(s.T()), "token-abc")

		var res resdto.CheckoutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &res)
		s.Equal(sessionID, res.ID)
		s.Len(res.Passengers, 3)
		s.Equal(2, res.Passengers[2].Position)
		s.Equal(pricing.Money(14000000), res.Breakdown.FinalTotal)
		httptest.AssertSessionIssued(s.T(), rec, sessionID)
	})

	s.Run("error: 400 on invalid body", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing productId", mutate: testutil.Field("productId", nil)},
			{name: "empty productId", mutate: testutil.Field("productId", "")},
			{name: "negative basePrice", mutate: testutil.Field("basePrice", -1)},
			{name: "negative children", mutate: testutil.Field("bookingInfo.children", -1)},
			{name: "oversized adults", mutate: testutil.Field("bookingInfo.adults", 51)},
			{name: "oversized basePrice", mutate: testutil.Field("basePrice", 1e14)},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := startBody(s.T(), tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})
}

func (s *CheckoutHandlerTestSuite) TestGet() {
	s.Run("success", func() {
		s.mockQueries.EXPECT().Get(gomock.Any(), sessionID).Return(s.view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/checkout/sessions/"+sessionID, nil, "")

		var res resdto.CheckoutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("open", res.Status)
	})

	s.Run("success: newer token is bound to the session", func() {
		s.mockQueries.EXPECT().Get(gomock.Any(), sessionID).Return(s.view, nil)
		s.mockCommands.EXPECT().BindToken(gomock.Any(), sessionID, "token-new").Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/checkout/sessions/"+sessionID, nil, "token-new")

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 404 for unknown session", func() {
		s.mockQueries.EXPECT().Get(gomock.Any(), "nope").Return(nil, errs.Mark(errors.New("gone"), queries.ErrCheckoutNotFound))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/checkout/sessions/nope", nil, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "không tồn tại")
	})
}

func (s *CheckoutHandlerTestSuite) TestUpdateCounts() {
	url := "/api/checkout/sessions/" + sessionID + "/counts"

	s.Run("success", func() {
		s.mockCommands.EXPECT().UpdateCounts(gomock.Any(), sessionID, pricing.PassengerCount{Adult: 1, Infant: 1}).
			Return(s.view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"adult": 1, "infant": 1}, "")

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: adult below 1 never reaches the use case", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"adult": 0, "child": 2}, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: oversized count never reaches the use case", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"adult": 2000000000}, "")

		httptest.AssertErrorDetail(s.T(), rec, http.StatusBadRequest, "adult")
	})
}

func (s *CheckoutHandlerTestSuite) TestEditPassenger() {
	s.Run("success", func() {
		s.mockCommands.EXPECT().EditPassenger(gomock.Any(), sessionID, gomock.Any()).
			DoAndReturn(func(_ any, _ string, p commands.EditPassengerParams) (*queries.CheckoutView, error) {
				s.Equal(1, p.Position)
				s.Require().NotNil(p.FullName)
				s.Equal("Lê Văn C", *p.FullName)
				s.Nil(p.Gender)
				return s.view, nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/api/checkout/sessions/"+sessionID+"/passengers/1", map[string]any{"fullName": "Lê Văn C"}, "")

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: bad position", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/api/checkout/sessions/"+sessionID+"/passengers/x", map[string]any{}, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "position")
	})

	s.Run("error: slot not found", func() {
		s.mockCommands.EXPECT().EditPassenger(gomock.Any(), sessionID, gomock.Any()).
			Return(nil, errs.Mark(errors.New("no slot"), commands.ErrPassengerNotFound))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/api/checkout/sessions/"+sessionID+"/passengers/9", map[string]any{}, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Passenger not found")
	})
}

func (s *CheckoutHandlerTestSuite) TestApplyPromotion() {
	url := "/api/checkout/sessions/" + sessionID + "/promotion"

	s.Run("success", func() {
		s.mockCommands.EXPECT().ApplyPromotion(gomock.Any(), sessionID, "summer10").Return(s.view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"code": "summer10"}, "")

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 422 carries the displayable message", func() {
		rejected := &commands.PromotionError{Message: "Đơn hàng từ 20.000.000 ₫ mới được dùng."}
		s.mockCommands.EXPECT().ApplyPromotion(gomock.Any(), sessionID, "BIG").Return(s.view, rejected)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"code": "BIG"}, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "20.000.000")
	})

	s.Run("error: empty code", func() {
		s.mockCommands.EXPECT().ApplyPromotion(gomock.Any(), sessionID, "").
			Return(nil, errs.Mark(errors.New("empty"), commands.ErrEmptyPromotionCode))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"code": ""}, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "mã giảm giá")
	})
}

func (s *CheckoutHandlerTestSuite) TestAvailablePromotions() {
	offers := []promotion.Offer{
		{Promotion: builder.NewPromotionBuilder().Build(), CanUse: true},
	}
	s.mockQueries.EXPECT().AvailablePromotions(gomock.Any(), sessionID).Return(offers, nil)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/checkout/sessions/"+sessionID+"/promotions", nil, "")

	var res struct {
		Promotions []resdto.OfferResponse `json:"promotions"`
	}
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
	s.Require().Len(res.Promotions, 1)
	s.Equal("SUMMER10", res.Promotions[0].Code)
	s.True(res.Promotions[0].CanUse)
}

func (s *CheckoutHandlerTestSuite) TestValidate() {
	fields := checkout.FieldErrors{"email": "Email không hợp lệ."}
	s.mockCommands.EXPECT().Validate(gomock.Any(), sessionID).Return(fields, nil)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/checkout/sessions/"+sessionID+"/validate", nil, "")

	var res resdto.ValidationResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
	s.False(res.Valid)
	s.Equal("Email không hợp lệ.", res.Errors["email"])
}

func (s *CheckoutHandlerTestSuite) TestSubmit() {
	url := "/api/checkout/sessions/" + sessionID + "/submit"

	s.Run("success: 201 with next step", func() {
		s.mockCommands.EXPECT().Submit(gomock.Any(), sessionID).
			Return(&commands.SubmitResult{BookingID: "BK-1", View: s.view}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		var res resdto.SubmitResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &res)
		s.Equal("BK-1", res.BookingID)
		s.Equal("payment", res.NextStep)
	})

	s.Run("success: replay answers 200", func() {
		s.mockCommands.EXPECT().Submit(gomock.Any(), sessionID).
			Return(&commands.SubmitResult{BookingID: "BK-1", Replayed: true, View: s.view}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 422 with field errors", func() {
		s.mockCommands.EXPECT().Submit(gomock.Any(), sessionID).
			Return(nil, &commands.ValidationError{Fields: checkout.FieldErrors{"phone": "Số điện thoại không hợp lệ."}})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		detail := httptest.AssertErrorDetail(s.T(), rec, http.StatusUnprocessableEntity, "phone")
		s.Equal("Số điện thoại không hợp lệ.", detail["phone"])
	})

	s.Run("error: 409 while a submission is in flight", func() {
		s.mockCommands.EXPECT().Submit(gomock.Any(), sessionID).
			Return(nil, errs.Mark(errors.New("locked"), commands.ErrSubmissionInProgress))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})

	s.Run("error: 502 with the service message", func() {
		s.mockCommands.EXPECT().Submit(gomock.Any(), sessionID).
			Return(nil, &commands.SubmissionError{Message: "Tour đã hết chỗ."})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadGateway, "Tour đã hết chỗ.")
	})
}
