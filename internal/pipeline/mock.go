package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/CKaviya23/bank-statement-parser/internal/statement"
)

// Mock returns a fixed canonical record without touching any producer, for
// integration testing without network or OCR dependencies.
func Mock() *statement.Result {
	return &statement.Result{
		Fields: statement.Fields{
			AccountInfo: statement.AccountInfo{
				BankName:       ptr("HDFC Bank"),
				HolderName:     ptr("Test User"),
				AccountNumber:  ptr("XXXX-XXXX-XXXX-7890"),
				StatementMonth: ptr("October 2025"),
				AccountType:    ptr("Savings"),
			},
			SummaryValues: statement.SummaryValues{
				OpeningBalance:      dec("15000"),
				ClosingBalance:      dec("17500"),
				TotalCredits:        dec("12000"),
				TotalDebits:         dec("9500"),
				AverageDailyBalance: dec("16200"),
			},
			Transactions: []statement.Transaction{
				{
					Date:        "2025-10-01",
					Description: "Salary Credit",
					Amount:      decimal.RequireFromString("25000"),
					Balance:     dec("40000"),
					Category:    ptr("Salary"),
				},
				{
					Date:        "2025-10-05",
					Description: "ATM WITHDRAWAL",
					Amount:      decimal.RequireFromString("-2000"),
					Balance:     dec("38000"),
					Category:    ptr("ATM Cash"),
				},
			},
		},
		Insights: []string{"Account maintained > ₹10,000 average balance during October."},
		Quality:  statement.NewQuality(),
	}
}

func ptr(s string) *string { return &s }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
