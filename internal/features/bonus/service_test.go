package bonus

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/config"
	"go-backoffice/internal/features/staff"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSalesCounter struct {
	mock.Mock
}

func (m *MockSalesCounter) CountWon(ctx context.Context, ownerID string, from, to time.Time) (int64, error) {
	args := m.Called(ctx, ownerID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

type stubStaff map[string]*staff.Staff

func (s stubStaff) FindByID(ctx context.Context, id string) (*staff.Staff, error) {
	if m, ok := s[id]; ok {
		return m, nil
	}
	return nil, errs.NotFound("staff.find", "staff %s not found", id)
}

var (
	to   = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	from = to.AddDate(0, 0, -30)
)

func newEarnings(sales *MockSalesCounter) *EarningsServiceImpl {
	return &EarningsServiceImpl{
		Sales: sales,
		Staff: stubStaff{"A": {ID: "A", Name: "Ana", Role: models.RoleBroker, Commission: 150}},
		Table: DefaultTable(),
	}
}

func TestForStaff(t *testing.T) {
	sales := new(MockSalesCounter)
	sales.On("CountWon", mock.Anything, "A", from, to).Return(int64(4), nil)
	svc := newEarnings(sales)

	got, err := svc.ForStaff(context.Background(), "A", from, to, models.Actor{ID: "A", Role: models.RoleBroker})
	require.NoError(t, err)

	assert.Equal(t, 4, got.Sales)
	assert.Equal(t, 600.0, got.Commission)
	assert.Equal(t, Result{Amount: 1000, NextGoal: 6, NeededForNext: 2}, got.Bonus)
	sales.AssertExpectations(t)
}

func TestForStaffGuards(t *testing.T) {
	svc := newEarnings(new(MockSalesCounter))

	_, err := svc.ForStaff(context.Background(), "A", from, to, models.Actor{ID: "B", Role: models.RoleBroker})
	assert.True(t, errs.Is(err, errs.KindNotFound))

	_, err = svc.ForStaff(context.Background(), "A", to, from, models.Actor{ID: "C", Role: models.RoleAdmin})
	assert.True(t, errs.Is(err, errs.KindValidation))

	_, err = svc.ForStaff(context.Background(), "Z", from, to, models.Actor{ID: "C", Role: models.RoleAdmin})
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestNewTableFromConfig(t *testing.T) {
	table := NewTableFromConfig(&config.Config{BonusTiers: "1:10,2:20"}, zap.NewNop())
	assert.Len(t, table.Tiers(), 2)

	table = NewTableFromConfig(&config.Config{BonusTiers: "garbage"}, zap.NewNop())
	assert.Equal(t, DefaultTable().Tiers(), table.Tiers())
}

func TestGetEarningsRoute(t *testing.T) {
	sales := new(MockSalesCounter)
	sales.On("CountWon", mock.Anything, "A", mock.Anything, mock.Anything).Return(int64(3), nil)

	app := fiber.New()
	NewBonusApi(NewBonusController(newEarnings(sales)), &config.Config{SkipAuth: true}).Setup(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/staff/A/earnings?days=7", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data Earnings `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(1000), body.Data.Bonus.Amount)
	assert.Equal(t, 7*24*time.Hour, body.Data.To.Sub(body.Data.From))

	resp, err = app.Test(httptest.NewRequest("GET", "/api/staff/A/earnings?days=-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
