// Package usage aggregates token consumption for the analytics tab.
package usage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/productivity-engines/website/core/store"
	models "github.com/productivity-engines/website/dbmodels"
)

type Range string

const (
	Last24Hours Range = "24h"
	Last7Days   Range = "7d"
	Last30Days  Range = "30d"
	AllTime     Range = "all"
)

// Ranges lists the selectable ranges in display order.
var Ranges = []Range{Last24Hours, Last7Days, Last30Days, AllTime}

// ParseRange maps a query value to a Range, defaulting to the last 7 days.
func ParseRange(s string) Range {
	switch r := Range(s); r {
	case Last24Hours, Last7Days, Last30Days, AllTime:
		return r
	}
	return Last7Days
}

func (r Range) Label() string {
	switch r {
	case Last24Hours:
		return "Last 24 Hours"
	case Last30Days:
		return "Last 30 Days"
	case AllTime:
		return "All Time"
	}
	return "Last 7 Days"
}

// Since returns the lower bound of the range, nil for AllTime.
func (r Range) Since(now time.Time) *time.Time {
	var d time.Duration
	switch r {
	case Last24Hours:
		d = 24 * time.Hour
	case Last7Days:
		d = 7 * 24 * time.Hour
	case Last30Days:
		d = 30 * 24 * time.Hour
	default:
		return nil
	}
	since := now.Add(-d)
	return &since
}

type AgentStats struct {
	ID         string
	Name       string
	Tokens     int
	Cost       float64
	Requests   int
	Percentage float64
}

type Report struct {
	Range         Range
	TotalTokens   int
	TotalCost     float64
	TotalRequests int
	Agents        []AgentStats
}

type Service struct {
	store *store.Store
}

func New(s *store.Store) *Service {
	return &Service{store: s}
}

func (s *Service) Report(ctx context.Context, r Range, now time.Time) (*Report, error) {
	agents, err := s.store.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load token usage data: %w", err)
	}
	rows, err := s.store.UsageSince(ctx, r.Since(now))
	if err != nil {
		return nil, fmt.Errorf("failed to load token usage data: %w", err)
	}

	report := Summarize(agents, rows)
	report.Range = r
	return report, nil
}

// Summarize computes totals and per-agent shares of the given rows. Agents
// without tokens are left out; the rest are sorted by tokens, highest first.
func Summarize(agents []models.AgentConfig, rows []models.TokenUsage) *Report {
	report := &Report{TotalRequests: len(rows)}

	byAgent := map[string]*AgentStats{}
	for _, a := range agents {
		byAgent[a.ID] = &AgentStats{ID: a.ID, Name: a.Name}
	}

	for _, row := range rows {
		report.TotalTokens += row.TotalTokens
		report.TotalCost += row.Cost
		if st, ok := byAgent[row.AgentID]; ok {
			st.Tokens += row.TotalTokens
			st.Cost += row.Cost
			st.Requests++
		}
	}

	for _, a := range agents {
		st := byAgent[a.ID]
		if st.Tokens <= 0 {
			continue
		}
		if report.TotalTokens > 0 {
			st.Percentage = float64(st.Tokens) / float64(report.TotalTokens) * 100
		}
		report.Agents = append(report.Agents, *st)
	}
	sort.SliceStable(report.Agents, func(i, j int) bool {
		return report.Agents[i].Tokens > report.Agents[j].Tokens
	})
	return report
}

// Record stores one usage row, pricing it when no cost was reported.
func (s *Service) Record(ctx context.Context, row *models.TokenUsage) error {
	if row.TotalTokens == 0 {
		row.TotalTokens = row.PromptTokens + row.CompletionTokens
	}
	if row.Cost == 0 {
		row.Cost = Cost(row.Model, row.PromptTokens, row.CompletionTokens)
	}
	if err := s.store.CreateUsage(ctx, row); err != nil {
		return fmt.Errorf("failed to record token usage: %w", err)
	}
	return nil
}
