package dashboard

import "github.com/unikiala/unikiala-api/internal/model"

// Figures without a ledger behind them.
const (
	mockBalance  int64 = 1250000
	mockNIF            = "500123456"
	mockCategory       = "Música e Festivais"

	// RevenuePerSubscriber is the flat plan price counted per subscribed
	// organizer in the admin revenue estimate.
	RevenuePerSubscriber int64 = 500000
)

func mockTransactions() []model.FinancialTransaction {
	return []model.FinancialTransaction{
		{ID: "1", Date: "2025-02-20", Description: "Venda de Ingressos - Festival Jazz", Amount: 45000, Type: "CREDIT", Status: "COMPLETED"},
		{ID: "2", Date: "2025-02-19", Description: "Venda de Ingressos - Festival Jazz", Amount: 15000, Type: "CREDIT", Status: "COMPLETED"},
		{ID: "3", Date: "2025-02-18", Description: "Assinatura Plano Mensal", Amount: -300000, Type: "DEBIT", Status: "COMPLETED"},
	}
}

func mockDocuments() []model.VerificationDocument {
	return []model.VerificationDocument{
		{ID: "1", Name: "Alvará Comercial", Type: "LICENSE", UploadDate: "2025-01-10", Status: "APPROVED"},
		{ID: "2", Name: "Identidade do Sócio", Type: "ID", UploadDate: "2025-01-12", Status: "PENDING"},
	}
}

func mockWeeklySales() []model.ChartPoint {
	return []model.ChartPoint{
		{Name: "Seg", Value: 4000},
		{Name: "Ter", Value: 3000},
		{Name: "Qua", Value: 2000},
		{Name: "Qui", Value: 2780},
		{Name: "Sex", Value: 18900},
		{Name: "Sáb", Value: 23900},
		{Name: "Dom", Value: 34900},
	}
}

// monthlyEvents is the admin growth chart; the last month is filled with the
// live event count.
func monthlyEvents(current int) []model.ChartPoint {
	return []model.ChartPoint{
		{Name: "Jan", Value: 4},
		{Name: "Fev", Value: 7},
		{Name: "Mar", Value: 5},
		{Name: "Abr", Value: 10},
		{Name: "Mai", Value: 12},
		{Name: "Jun", Value: int64(current)},
	}
}
