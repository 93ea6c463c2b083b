package service

import (
	"time"

	"github.com/financy/financy-backend/internal/domain"
	"github.com/google/uuid"
)

// DashboardService computes the monthly totals shown on the dashboard
type DashboardService struct {
	transactionRepo domain.TransactionRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(transactionRepo domain.TransactionRepository) *DashboardService {
	return &DashboardService{transactionRepo: transactionRepo}
}

// GetSummary returns the current month's summary for a user
func (s *DashboardService) GetSummary(userID uuid.UUID) (*domain.MonthlySummary, error) {
	now := time.Now().UTC()
	return s.GetSummaryForMonth(userID, now.Year(), int(now.Month()))
}

// GetSummaryForMonth returns income, expense, and balance totals for a
// specific calendar month
func (s *DashboardService) GetSummaryForMonth(userID uuid.UUID, year, month int) (*domain.MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidInput
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	income, err := s.transactionRepo.SumByTypeAndDateRange(userID, domain.TransactionTypeInput, start, end)
	if err != nil {
		return nil, err
	}
	expense, err := s.transactionRepo.SumByTypeAndDateRange(userID, domain.TransactionTypeOutput, start, end)
	if err != nil {
		return nil, err
	}

	return &domain.MonthlySummary{
		Year:    year,
		Month:   month,
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}, nil
}
