package queries

import (
	"context"
	"time"

	"github.com/coachtranscribe/engine/modules/billing/application/quota"
	billing "github.com/coachtranscribe/engine/modules/billing/domain"
	"github.com/coachtranscribe/engine/modules/billing/domain/repositories"
	userrepo "github.com/coachtranscribe/engine/modules/user/domain/repositories"
	"github.com/coachtranscribe/engine/seedwork/domain"
)

// GetUsageStatusQuery reads the caller's current plan, monthly
// consumption, and its derived UsageHistory snapshot (supplemented
// from original_source's usage_history.py; see SPEC_FULL.md's
// domain-stack note on giving this read endpoint something to report
// against).
type GetUsageStatusQuery struct {
	OwnerID string
}

type GetUsageStatusResult struct {
	Plan                  billing.Plan `json:"plan"`
	UsageMinutesThisMonth int          `json:"usage_minutes_this_month"`
	ExportsThisMonth      int          `json:"exports_this_month"`
	CurrentMonthStart     time.Time    `json:"current_month_start"`
	Limits                quota.PlanConfigurationSnapshot
	History               *billing.UsageHistory `json:"history"`
}

type GetUsageStatusHandler struct {
	users   userrepo.UserRepository
	history repositories.UsageHistoryRepository
}

func NewGetUsageStatusHandler(users userrepo.UserRepository, history repositories.UsageHistoryRepository) *GetUsageStatusHandler {
	return &GetUsageStatusHandler{users: users, history: history}
}

func (h *GetUsageStatusHandler) Handle(ctx context.Context, query GetUsageStatusQuery) (*GetUsageStatusResult, error) {
	user, err := h.users.FindByID(query.OwnerID)
	if err != nil {
		return nil, domain.NewDomainError(domain.CodeNotFound, "owner not found", err)
	}

	plan := billing.Plan(user.Plan)
	limits := billing.GetLimits(plan)

	periodStart := quota.MonthStart(time.Now())
	snapshot, err := h.history.GetOrCreate(ctx, query.OwnerID, periodStart, plan)
	if err != nil {
		return nil, domain.NewDomainError(domain.CodeStateConflict, "failed to load usage history", err)
	}

	return &GetUsageStatusResult{
		Plan:                  plan,
		UsageMinutesThisMonth: user.UsageMinutesThisMonth,
		ExportsThisMonth:      user.ExportsThisMonth,
		CurrentMonthStart:     user.CurrentMonthStart,
		Limits: quota.PlanConfigurationSnapshot{
			MaxMinutesPerMonth: limits.MaxMinutesPerMonth,
			MaxExportsPerMonth: limits.MaxExportsPerMonth,
			MaxFileSizeMB:      limits.MaxFileSizeMB,
		},
		History: snapshot,
	}, nil
}
