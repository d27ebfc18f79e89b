package statement

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Reconcile", func() {
	var (
		payload Payload
		quality *Quality
		fields  Fields
	)

	JustBeforeEach(func() {
		fields = Reconcile(payload, quality)
	})

	BeforeEach(func() {
		quality = NewQuality()
		payload = EmptyPayload()
	})

	When("the same transaction appears as string and numeric amounts", func() {
		BeforeEach(func() {
			payload = Coerce(decode(`{"Transactions": [
				{"date": "2025-10-05", "description": "ATM WITHDRAWAL", "amount": "-2,000.00"},
				{"date": "2025-10-05", "description": "atm withdrawal", "amount": -2000.0}
			]}`))
		})

		It("retains exactly one transaction", func() {
			Expect(fields.Transactions).To(HaveLen(1))
		})

		It("keeps the first occurrence", func() {
			Expect(fields.Transactions[0].Description).To(Equal("ATM WITHDRAWAL"))
		})

		It("sets the duplicate flag", func() {
			Expect(quality.DuplicateEntries).To(BeTrue())
		})
	})

	When("entries are invalid", func() {
		BeforeEach(func() {
			payload = Coerce(decode(`{"Transactions": [
				{"description": "no date", "amount": 5},
				{"date": "2025-01-01", "amount": 5},
				{"date": "2025-01-01", "description": "   ", "amount": 5},
				{"date": "2025-01-01", "description": "no amount"},
				"not a mapping",
				{"date": "2025-01-02", "description": "valid", "amount": "10.50"}
			]}`))
		})

		It("drops them silently and keeps the valid one", func() {
			Expect(fields.Transactions).To(HaveLen(1))
			Expect(fields.Transactions[0].Description).To(Equal("valid"))
			Expect(quality.DuplicateEntries).To(BeFalse())
		})
	})

	When("transactions arrive out of order", func() {
		BeforeEach(func() {
			payload = Coerce(decode(`{"Transactions": [
				{"date": "2025-10-15", "description": "later", "amount": 1},
				{"date": "2025-10-01", "description": "earlier", "amount": 2},
				{"date": "2025-10-01", "description": "same day second", "amount": 3}
			]}`))
		})

		It("sorts ascending by date with stable same-date order", func() {
			Expect(fields.Transactions).To(HaveLen(3))
			Expect(fields.Transactions[0].Description).To(Equal("earlier"))
			Expect(fields.Transactions[1].Description).To(Equal("same day second"))
			Expect(fields.Transactions[2].Description).To(Equal("later"))
		})

		It("produces a non-decreasing date sequence", func() {
			for i := 1; i < len(fields.Transactions); i++ {
				Expect(fields.Transactions[i].Date >= fields.Transactions[i-1].Date).To(BeTrue())
			}
		})
	})

	When("summary values are present but transactions are not", func() {
		BeforeEach(func() {
			payload = Coerce(decode(`{"Summary Values": {"opening_balance": 15000, "closing_balance": 17500}}`))
		})

		It("reports only the transactions section as missing", func() {
			Expect(quality.MissingSections).To(Equal([]string{"transactions"}))
		})

		It("normalizes both balances", func() {
			Expect(fields.SummaryValues.OpeningBalance).NotTo(BeNil())
			Expect(fields.SummaryValues.OpeningBalance.StringFixed(2)).To(Equal("15000.00"))
			Expect(fields.SummaryValues.ClosingBalance.StringFixed(2)).To(Equal("17500.00"))
		})
	})

	When("the payload is completely empty", func() {
		It("reports all three missing sections in order", func() {
			Expect(quality.MissingSections).To(Equal([]string{"transactions", "opening_balance", "closing_balance"}))
		})
	})

	When("account info uses mixed naming conventions", func() {
		BeforeEach(func() {
			payload = Coerce(decode(`{"Account Info": {
				"Bank name": "HDFC Bank",
				"account_holder_name": "Test User",
				"Account number": "1234567890123456",
				"statement_month": "October 2025"
			}}`))
		})

		It("resolves both conventions", func() {
			Expect(fields.AccountInfo.BankName).To(HaveValue(Equal("HDFC Bank")))
			Expect(fields.AccountInfo.HolderName).To(HaveValue(Equal("Test User")))
			Expect(fields.AccountInfo.StatementMonth).To(HaveValue(Equal("October 2025")))
		})

		It("masks the account number", func() {
			Expect(fields.AccountInfo.AccountNumber).To(HaveValue(Equal("XXXX-XXXX-XXXX-3456")))
		})

		It("leaves absent fields nil", func() {
			Expect(fields.AccountInfo.AccountType).To(BeNil())
		})
	})

	When("a field fails to normalize", func() {
		BeforeEach(func() {
			payload = Coerce(decode(`{
				"Summary Values": {"Opening balance": "n/a"},
				"Transactions": [{"date": "2025-01-01", "description": "x", "amount": 5, "balance": "??"}]
			}`))
		})

		It("degrades that field to absent without dropping the entry", func() {
			Expect(fields.SummaryValues.OpeningBalance).To(BeNil())
			Expect(fields.Transactions).To(HaveLen(1))
			Expect(fields.Transactions[0].Balance).To(BeNil())
		})
	})

	When("re-running reconciliation on its own output", func() {
		BeforeEach(func() {
			payload = Coerce(decode(`{"Transactions": [
				{"date": "05/10/2025", "description": "ATM WITHDRAWAL ", "amount": "₹-2,000.00"},
				{"date": "2025-10-01", "description": "Salary Credit", "amount": 25000}
			], "Account Info": {"Account number": "1234567890123456"}}`))
		})

		It("is idempotent", func() {
			data, err := json.Marshal(fields)
			Expect(err).NotTo(HaveOccurred())

			again := Reconcile(Coerce(decode(string(data))), NewQuality())
			Expect(again.Transactions).To(HaveLen(len(fields.Transactions)))
			for i := range again.Transactions {
				Expect(again.Transactions[i].Date).To(Equal(fields.Transactions[i].Date))
				Expect(again.Transactions[i].Description).To(Equal(fields.Transactions[i].Description))
				Expect(again.Transactions[i].Amount.Equal(fields.Transactions[i].Amount)).To(BeTrue())
			}
			Expect(again.AccountInfo.AccountNumber).To(Equal(fields.AccountInfo.AccountNumber))
		})
	})
})
