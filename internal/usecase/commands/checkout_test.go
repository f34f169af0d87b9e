//go:build unit

package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"gotrip-checkout/internal/domain/checkout"
	"gotrip-checkout/internal/domain/pricing"
	"gotrip-checkout/internal/domain/promotion"
	"gotrip-checkout/internal/infra"
	"gotrip-checkout/internal/infra/store"
	"gotrip-checkout/internal/pkg/clock"
	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/pkg/errs"
	"gotrip-checkout/internal/pkg/metrics"
	"gotrip-checkout/internal/usecase/commands"
	"gotrip-checkout/internal/usecase/queries"
	"gotrip-checkout/tests/common/builder"
	commandsmock "gotrip-checkout/tests/mock/commands"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type checkoutFixture struct {
	cmds       commands.CheckoutCommands
	repo       *store.MemoryCheckoutRepository
	tokens     *store.MemoryTokenStore
	promotions *commandsmock.MockPromotionClient
	bookings   *commandsmock.MockBookingClient
	metrics    *metrics.Metrics
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	clk := clock.NewMockClock(builder.FixedNow)

	f := &checkoutFixture{
		repo:       store.NewMemoryCheckoutRepository(clk, discard),
		tokens:     store.NewMemoryTokenStore(clk, discard),
		promotions: commandsmock.NewMockPromotionClient(ctrl),
		bookings:   commandsmock.NewMockBookingClient(ctrl),
		metrics:    metrics.NewMetrics(prometheus.NewRegistry()),
	}
	f.cmds = commands.NewCheckoutCommands(
		f.repo,
		store.NewMemoryLocker(discard),
		f.tokens,
		f.promotions,
		f.bookings,
		pricing.NewDefaultCalculator(pricing.DefaultSingleRoomSupplement),
		clk,
		f.metrics,
		discard,
		config.NewTestConfig(),
	)
	return f
}

func (f *checkoutFixture) seed(t *testing.T, b *builder.CheckoutBuilder) *checkout.Session {
	t.Helper()
	s := b.MustBuild()
	require.NoError(t, f.repo.Save(context.Background(), s, time.Hour))
	require.NoError(t, f.tokens.Set(context.Background(), s.ID, "token-abc", time.Hour))
	return s
}

func TestStart(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	sel := builder.NewCheckoutBuilder().Selection()
	sel.ProductType = ""

	view, err := f.cmds.Start(ctx, commands.StartCheckoutParams{Selection: sel, Adults: 2, Children: 1, Token: "token-abc"})

	require.NoError(t, err)
	assert.Equal(t, checkout.StatusOpen, view.Status)
	assert.Equal(t, "tour", view.Selection.ProductType, "product type defaults from config")
	assert.Len(t, view.Passengers, 3)
	assert.Equal(t, pricing.Money(14000000), view.Breakdown.FinalTotal)

	token, err := f.tokens.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)

	t.Run("zero adults start with one", func(t *testing.T) {
		view, err := f.cmds.Start(ctx, commands.StartCheckoutParams{Selection: sel})
		require.NoError(t, err)
		assert.Equal(t, 1, view.Counts.Adult)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := f.cmds.Start(ctx, commands.StartCheckoutParams{Selection: checkout.Selection{}})
		require.True(t, errs.Is(err, commands.ErrInvalidSelection))
	})
}

func TestMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown session", func(t *testing.T) {
		f := newCheckoutFixture(t)
		_, err := f.cmds.UpdateCounts(ctx, "missing", pricing.PassengerCount{Adult: 1})
		require.True(t, errs.Is(err, queries.ErrCheckoutNotFound))
	})

	t.Run("counts reconcile the roster and totals", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())

		view, err := f.cmds.UpdateCounts(ctx, s.ID, pricing.PassengerCount{Adult: 2, Child: 1, Infant: 1})

		require.NoError(t, err)
		assert.Len(t, view.Passengers, 4)
		assert.Equal(t, s.Passengers[0], view.Passengers[0])
		assert.Equal(t, pricing.Money(14500000), view.Breakdown.Subtotal)
	})

	t.Run("counts without an adult are rejected", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())

		_, err := f.cmds.UpdateCounts(ctx, s.ID, pricing.PassengerCount{Child: 2})
		require.True(t, errs.Is(err, commands.ErrInvalidCounts))

		stored, err := f.repo.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Counts, stored.Counts)
	})

	t.Run("oversized group is rejected before the roster grows", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())

		_, err := f.cmds.UpdateCounts(ctx, s.ID, pricing.PassengerCount{Adult: 2000000000})
		require.True(t, errs.Is(err, commands.ErrInvalidCounts))

		stored, err := f.repo.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Passengers, len(s.Passengers))
	})

	t.Run("passenger edits", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())
		name := "Trần Thị Bích"
		gender := "Nữ"
		bad := "F"

		view, err := f.cmds.EditPassenger(ctx, s.ID, commands.EditPassengerParams{Position: 2, FullName: &name, Gender: &gender})
		require.NoError(t, err)
		assert.Equal(t, name, view.Passengers[2].FullName)

		_, err = f.cmds.EditPassenger(ctx, s.ID, commands.EditPassengerParams{Position: 9, FullName: &name})
		require.True(t, errs.Is(err, commands.ErrPassengerNotFound))

		_, err = f.cmds.EditPassenger(ctx, s.ID, commands.EditPassengerParams{Position: 0, Gender: &bad})
		require.True(t, errs.Is(err, commands.ErrInvalidPassenger))
	})

	t.Run("single room add-on", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())

		view, err := f.cmds.SetAddOns(ctx, s.ID, pricing.AddOns{SingleRoom: true})

		require.NoError(t, err)
		assert.Equal(t, pricing.Money(15400000), view.Breakdown.FinalTotal)
	})
}

func TestApplyPromotion(t *testing.T) {
	ctx := context.Background()

	t.Run("empty code makes no call and changes nothing", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())

		_, err := f.cmds.ApplyPromotion(ctx, s.ID, "   ")

		require.True(t, errs.Is(err, commands.ErrEmptyPromotionCode))
		stored, err := f.repo.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.PromotionError)
	})

	t.Run("valid code is upper-cased and applied", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())
		f.promotions.EXPECT().FindByCode(gomock.Any(), promotion.Code("SUMMER10")).
			Return(builder.NewPromotionBuilder().Build(), nil).Times(1)

		view, err := f.cmds.ApplyPromotion(ctx, s.ID, " summer10 ")

		require.NoError(t, err)
		require.NotNil(t, view.Promotion)
		assert.Equal(t, pricing.Money(1400000), view.Breakdown.PromotionDiscount)
		assert.Equal(t, pricing.Money(12600000), view.Breakdown.FinalTotal)
		assert.Equal(t, float64(1), promtest.ToFloat64(f.metrics.PromotionApplied.WithLabelValues("applied")))
	})

	t.Run("below minimum spend names the threshold and clears the previous promotion", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())
		f.promotions.EXPECT().FindByCode(gomock.Any(), promotion.Code("SUMMER10")).
			Return(builder.NewPromotionBuilder().Build(), nil)
		f.promotions.EXPECT().FindByCode(gomock.Any(), promotion.Code("BIG")).
			Return(builder.NewPromotionBuilder().WithCode("BIG").WithMinSpend(20000000).Build(), nil)

		_, err := f.cmds.ApplyPromotion(ctx, s.ID, "SUMMER10")
		require.NoError(t, err)

		view, err := f.cmds.ApplyPromotion(ctx, s.ID, "big")

		require.True(t, errs.Is(err, commands.ErrPromotionRejected))
		require.True(t, errs.Is(err, promotion.ErrBelowMinSpend))
		var pe *commands.PromotionError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "Đơn hàng từ 20.000.000 ₫ mới được dùng.", pe.Message)
		require.NotNil(t, view)
		assert.Nil(t, view.Promotion)
		assert.Equal(t, pe.Message, view.PromotionError)
		assert.Equal(t, view.Breakdown.Subtotal, view.Breakdown.FinalTotal)
	})

	t.Run("unknown code", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())
		f.promotions.EXPECT().FindByCode(gomock.Any(), gomock.Any()).
			Return(promotion.Promotion{}, infra.NewUpstreamError(infra.KindNotFound, "inventory", 404, "not found", nil))

		view, err := f.cmds.ApplyPromotion(ctx, s.ID, "NOPE")

		require.True(t, errs.Is(err, promotion.ErrInvalidOrExpiredCode))
		assert.Equal(t, "Mã giảm giá không hợp lệ hoặc hết hạn.", view.PromotionError)
	})

	t.Run("expired code", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
		f.promotions.EXPECT().FindByCode(gomock.Any(), gomock.Any()).
			Return(builder.NewPromotionBuilder().WithWindow(&from, &to).Build(), nil)

		_, err := f.cmds.ApplyPromotion(ctx, s.ID, "SUMMER10")

		require.True(t, errs.Is(err, promotion.ErrInvalidOrExpiredCode))
	})

	t.Run("clear", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())
		f.promotions.EXPECT().FindByCode(gomock.Any(), gomock.Any()).Return(builder.NewPromotionBuilder().Build(), nil)
		_, err := f.cmds.ApplyPromotion(ctx, s.ID, "SUMMER10")
		require.NoError(t, err)

		view, err := f.cmds.ClearPromotion(ctx, s.ID)

		require.NoError(t, err)
		assert.Nil(t, view.Promotion)
		assert.Equal(t, pricing.Money(0), view.Breakdown.PromotionDiscount)
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("validation errors block the call", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder().WithoutPassengerDetails())

		_, err := f.cmds.Submit(ctx, s.ID)

		require.True(t, errs.Is(err, commands.ErrValidationFailed))
		var ve *commands.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Contains(t, ve.Fields, "pass_name_0")
	})

	t.Run("creates one booking and replays it", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())
		f.bookings.EXPECT().Create(gomock.Any(), "token-abc", s.BookingRequest()).Return("BK-1", nil).Times(1)

		res, err := f.cmds.Submit(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "BK-1", res.BookingID)
		assert.False(t, res.Replayed)
		assert.Equal(t, checkout.StatusSubmitted, res.View.Status)

		again, err := f.cmds.Submit(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "BK-1", again.BookingID)
		assert.True(t, again.Replayed)

		_, err = f.cmds.SetContact(ctx, s.ID, checkout.ContactInfo{})
		require.True(t, errs.Is(err, commands.ErrCheckoutClosed))
	})

	t.Run("concurrent submits create one booking", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())
		gate := make(chan struct{})
		f.bookings.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, checkout.BookingRequest) (string, error) {
				<-gate
				return "BK-1", nil
			}).Times(1)

		var wg sync.WaitGroup
		ids := make([]string, 2)
		for i := range ids {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := f.cmds.Submit(ctx, s.ID)
				if assert.NoError(t, err) {
					ids[i] = res.BookingID
				}
			}()
		}
		time.Sleep(20 * time.Millisecond)
		close(gate)
		wg.Wait()

		assert.Equal(t, []string{"BK-1", "BK-1"}, ids)
	})

	t.Run("failure keeps entered data and shows the service message", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())
		f.bookings.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", infra.NewUpstreamError(infra.KindUpstreamRejected, "booking", 400, "Tour đã hết chỗ.", nil))

		_, err := f.cmds.Submit(ctx, s.ID)

		require.True(t, errs.Is(err, commands.ErrSubmissionFailed))
		var se *commands.SubmissionError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "Tour đã hết chỗ.", se.Message)

		stored, err := f.repo.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, checkout.StatusOpen, stored.Status)
		assert.Equal(t, s.Contact, stored.Contact)
		assert.Equal(t, s.Passengers, stored.Passengers)
	})

	t.Run("checkout left submitting by a crashed call reopens", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())
		s.Status = checkout.StatusSubmitting
		require.NoError(t, f.repo.Save(ctx, s, time.Hour))

		view, err := f.cmds.UpdateCounts(ctx, s.ID, pricing.PassengerCount{Adult: 2, Child: 1})
		require.NoError(t, err)
		assert.Equal(t, checkout.StatusOpen, view.Status)

		s.Status = checkout.StatusSubmitting
		require.NoError(t, f.repo.Save(ctx, s, time.Hour))
		f.bookings.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return("BK-1", nil).Times(1)

		res, err := f.cmds.Submit(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "BK-1", res.BookingID)
	})

	t.Run("submitting state is never stored", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())
		f.bookings.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, checkout.BookingRequest) (string, error) {
				stored, err := f.repo.Get(ctx, s.ID)
				require.NoError(t, err)
				assert.Equal(t, checkout.StatusOpen, stored.Status)
				return "", infra.NewUpstreamError(infra.KindUpstreamUnavailable, "booking", 503, "", nil)
			})

		_, err := f.cmds.Submit(ctx, s.ID)
		require.True(t, errs.Is(err, commands.ErrSubmissionFailed))

		stored, err := f.repo.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, checkout.StatusOpen, stored.Status)
	})

	t.Run("transport failure uses the generic message", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())
		f.bookings.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", infra.NewUpstreamError(infra.KindUpstreamUnavailable, "booking", 0, "", errors.New("connection refused")))

		_, err := f.cmds.Submit(ctx, s.ID)

		var se *commands.SubmissionError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "Không thể tạo đơn đặt tour. Vui lòng thử lại.", se.Message)
	})

	t.Run("missing booking id", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder())
		f.bookings.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return("", nil)

		_, err := f.cmds.Submit(ctx, s.ID)

		var se *commands.SubmissionError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "Không nhận được Booking ID.", se.Message)
	})

	t.Run("missing inventory selection", func(t *testing.T) {
		f := newCheckoutFixture(t)
		s := f.seed(t, builder.NewCheckoutBuilder().WithInventoryID(""))

		_, err := f.cmds.Submit(ctx, s.ID)

		require.True(t, errs.Is(err, commands.ErrInvalidSelection))
	})
}
