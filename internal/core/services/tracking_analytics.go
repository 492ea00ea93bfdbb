package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/SscSPs/carbon_accounting_app/internal/utils/carbon"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const summaryMonths = 12

// trendWindow is a fixed comparison window for GetEmissionsTrends.
type trendWindow struct {
	label string
	shift func(time.Time) time.Time
	// onlyShortRanges restricts the window to ranges of at most a week.
	onlyShortRanges bool
}

var trendWindows = []trendWindow{
	{label: "Week over Week", shift: func(t time.Time) time.Time { return t.AddDate(0, 0, -7) }, onlyShortRanges: true},
	{label: "Month over Month", shift: func(t time.Time) time.Time { return t.AddDate(0, -1, 0) }},
	{label: "Quarter over Quarter", shift: func(t time.Time) time.Time { return t.AddDate(0, -3, 0) }},
	{label: "Year over Year", shift: func(t time.Time) time.Time { return t.AddDate(-1, 0, 0) }},
}

// GetFootprintForRange sums usage totals whose period starts in [from, to).
func (s *trackingService) GetFootprintForRange(ctx context.Context, scope domain.Scope, from, to time.Time) (decimal.Decimal, error) {
	if err := validateScope(scope); err != nil {
		return decimal.Zero, err
	}
	if err := validateRange(from, to); err != nil {
		return decimal.Zero, err
	}
	usages, err := s.usageRepo.ListUsageInRange(ctx, scope, from.UTC(), to.UTC())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list usage for range: %w", err)
	}
	total := decimal.Zero
	for _, u := range usages {
		if !u.Period.StartDate.Before(to) {
			continue
		}
		total = total.Add(u.TotalCarbonInKg)
	}
	return total, nil
}

// GetFootprintSummary aggregates the trailing twelve calendar months of usage.
func (s *trackingService) GetFootprintSummary(ctx context.Context, scope domain.Scope) (*domain.FootprintSummary, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}

	now := s.Now()
	since := time.Date(now.Year(), now.Month()-(summaryMonths-1), 1, 0, 0, 0, 0, time.UTC)
	until := domain.MonthPeriod(now).EndDate

	var (
		usages    []domain.CarbonUsage
		purchases int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		usages, err = s.usageRepo.ListUsageInRange(gctx, scope, since, until)
		if err != nil {
			return fmt.Errorf("failed to list usage from %s to %s: %w", since.Format("2006-01"), until.Format("2006-01"), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		purchases, err = s.offsetRepo.CountOffsetsByScope(gctx, scope)
		if err != nil {
			return fmt.Errorf("failed to count offset purchases: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to build footprint summary", scopeAttrs(scope))
		return nil, err
	}

	trend := make([]domain.MonthlyFootprint, summaryMonths)
	index := make(map[string]int, summaryMonths)
	for i := 0; i < summaryMonths; i++ {
		key := since.AddDate(0, i, 0).Format("2006-01")
		trend[i] = domain.MonthlyFootprint{Month: key, CarbonInKg: decimal.Zero, OffsetCarbonInKg: decimal.Zero}
		index[key] = i
	}

	total, offset := decimal.Zero, decimal.Zero
	for _, u := range usages {
		total = total.Add(u.TotalCarbonInKg)
		offset = offset.Add(u.OffsetCarbonInKg)
		if i, ok := index[u.Period.StartDate.UTC().Format("2006-01")]; ok {
			trend[i].CarbonInKg = trend[i].CarbonInKg.Add(u.TotalCarbonInKg)
			trend[i].OffsetCarbonInKg = trend[i].OffsetCarbonInKg.Add(u.OffsetCarbonInKg)
		}
	}

	return &domain.FootprintSummary{
		TotalCarbonInKg:      total,
		OffsetCarbonInKg:     offset,
		RemainingCarbonInKg:  domain.RemainingCarbon(total, offset),
		OffsetPercentage:     carbon.Percentage(offset, total),
		TotalOffsetPurchases: purchases,
		MonthlyTrend:         trend,
	}, nil
}

// GetEmissionsTimeSeries buckets usage in [start, end] by UTC day of the period start.
func (s *trackingService) GetEmissionsTimeSeries(ctx context.Context, scope domain.Scope, start, end time.Time) ([]domain.EmissionsPoint, error) {
	usages, err := s.usageInRange(ctx, scope, start, end)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]*domain.EmissionsPoint)
	for _, u := range usages {
		day := u.Period.StartDate.UTC().Truncate(24 * time.Hour)
		point, ok := byDay[day]
		if !ok {
			point = &domain.EmissionsPoint{
				Date:      day,
				Emissions: decimal.Zero,
				Offsets:   decimal.Zero,
				Sources:   make(map[string]decimal.Decimal),
			}
			byDay[day] = point
		}
		point.Emissions = point.Emissions.Add(u.TotalCarbonInKg)
		point.Offsets = point.Offsets.Add(u.OffsetCarbonInKg)
		for source, kg := range carbon.SourceBreakdown(u.UsageMetrics) {
			if kg.IsZero() {
				continue
			}
			point.Sources[source] = point.Sources[source].Add(kg)
		}
	}

	series := make([]domain.EmissionsPoint, 0, len(byDay))
	for _, point := range byDay {
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}

// GetEmissionsBreakdown returns each non-zero source's share of the range total.
func (s *trackingService) GetEmissionsBreakdown(ctx context.Context, scope domain.Scope, start, end time.Time) ([]domain.EmissionsBreakdownItem, error) {
	usages, err := s.usageInRange(ctx, scope, start, end)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	bySource := make(map[string]decimal.Decimal, len(carbon.Sources))
	for _, u := range usages {
		total = total.Add(u.TotalCarbonInKg)
		for source, kg := range carbon.SourceBreakdown(u.UsageMetrics) {
			bySource[source] = bySource[source].Add(kg)
		}
	}

	items := make([]domain.EmissionsBreakdownItem, 0, len(carbon.Sources))
	for _, source := range carbon.Sources {
		kg := bySource[source]
		if !kg.IsPositive() {
			continue
		}
		items = append(items, domain.EmissionsBreakdownItem{
			Source:     source,
			Emissions:  kg,
			Percentage: carbon.Percentage(kg, total),
		})
	}
	return items, nil
}

// GetEmissionsTrends compares the range total against the same range shifted back by
// a week (ranges of at most seven days only), a month, a quarter and a year.
func (s *trackingService) GetEmissionsTrends(ctx context.Context, scope domain.Scope, start, end time.Time) ([]domain.EmissionsTrend, error) {
	current, err := s.usageInRange(ctx, scope, start, end)
	if err != nil {
		return nil, err
	}
	currentTotal := sumTotals(current)

	windows := make([]trendWindow, 0, len(trendWindows))
	for _, w := range trendWindows {
		if w.onlyShortRanges && end.Sub(start) > 7*24*time.Hour {
			continue
		}
		windows = append(windows, w)
	}

	previous := make([]decimal.Decimal, len(windows))
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		g.Go(func() error {
			usages, err := s.usageRepo.ListUsageInRange(gctx, scope, w.shift(start.UTC()), w.shift(end.UTC()))
			if err != nil {
				return fmt.Errorf("failed to list usage for %s: %w", w.label, err)
			}
			previous[i] = sumTotals(usages)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	trends := make([]domain.EmissionsTrend, len(windows))
	for i, w := range windows {
		trends[i] = domain.EmissionsTrend{
			Period:           w.label,
			Current:          currentTotal,
			Previous:         previous[i],
			Change:           currentTotal.Sub(previous[i]),
			PercentageChange: carbon.PercentageChange(currentTotal, previous[i]),
		}
	}
	return trends, nil
}

func (s *trackingService) usageInRange(ctx context.Context, scope domain.Scope, start, end time.Time) ([]domain.CarbonUsage, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	usages, err := s.usageRepo.ListUsageInRange(ctx, scope, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list usage for range: %w", err)
	}
	return usages, nil
}

func sumTotals(usages []domain.CarbonUsage) decimal.Decimal {
	total := decimal.Zero
	for _, u := range usages {
		total = total.Add(u.TotalCarbonInKg)
	}
	return total
}
