package bonus

import (
	"context"
	"time"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/config"
	"go-backoffice/internal/features/lead"
	"go-backoffice/internal/features/staff"

	"go.uber.org/zap"
)

type SalesCounter interface {
	CountWon(ctx context.Context, ownerID string, from, to time.Time) (int64, error)
}

type StaffFinder interface {
	FindByID(ctx context.Context, id string) (*staff.Staff, error)
}

type EarningsService interface {
	ForStaff(ctx context.Context, staffID string, from, to time.Time, actor models.Actor) (*Earnings, error)
	Tiers() []Tier
}

type EarningsServiceImpl struct {
	Sales SalesCounter
	Staff StaffFinder
	Table *Table
}

// NewTableFromConfig falls back to the default table when BONUS_TIERS is unset or broken.
func NewTableFromConfig(cfg *config.Config, logger *zap.Logger) *Table {
	if cfg.BonusTiers == "" {
		return DefaultTable()
	}
	table, err := ParseTiers(cfg.BonusTiers)
	if err != nil {
		logger.Warn("ignoring BONUS_TIERS", zap.String("value", cfg.BonusTiers), zap.Error(err))
		return DefaultTable()
	}
	return table
}

func NewEarningsService(leads lead.LeadRepository, staffRepo staff.StaffRepository, table *Table) EarningsService {
	return &EarningsServiceImpl{
		Sales: leads,
		Staff: staffRepo,
		Table: table,
	}
}

func (s *EarningsServiceImpl) Tiers() []Tier {
	return s.Table.Tiers()
}

// ForStaff reads only; brokers may look at their own numbers.
func (s *EarningsServiceImpl) ForStaff(ctx context.Context, staffID string, from, to time.Time, actor models.Actor) (*Earnings, error) {
	const op = "bonus.for_staff"

	if actor.Role == models.RoleBroker && actor.ID != staffID {
		return nil, errs.NotFound(op, "staff %s not found", staffID)
	}
	if !from.Before(to) {
		return nil, errs.Validation(op, "window start must be before its end")
	}

	member, err := s.Staff.FindByID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	count, err := s.Sales.CountWon(ctx, staffID, from, to)
	if err != nil {
		return nil, err
	}
	result, err := s.Table.Calculate(int(count))
	if err != nil {
		return nil, err
	}

	return &Earnings{
		StaffID:    member.ID,
		StaffName:  member.Name,
		From:       from,
		To:         to,
		Sales:      int(count),
		Commission: float64(count) * member.Commission,
		Bonus:      result,
	}, nil
}
