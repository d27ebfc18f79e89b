package statement

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amountPtr(s string) *decimal.Decimal {
	d := amount(s)
	return &d
}

var _ = Describe("LocalInsights", func() {
	When("opening and closing balances are present", func() {
		It("emits the rounded mean as a currency observation", func() {
			tips := LocalInsights(Fields{SummaryValues: SummaryValues{
				OpeningBalance: amountPtr("15000"),
				ClosingBalance: amountPtr("17500"),
			}})
			Expect(tips).To(HaveLen(1))
			Expect(tips[0]).To(ContainSubstring("16,250.00"))
		})

		It("rounds to two decimals", func() {
			tips := LocalInsights(Fields{SummaryValues: SummaryValues{
				OpeningBalance: amountPtr("100.005"),
				ClosingBalance: amountPtr("100.005"),
			}})
			Expect(tips[0]).To(ContainSubstring("100.01"))
		})
	})

	When("transactions mention ATM and UPI", func() {
		It("counts both case-insensitively", func() {
			tips := LocalInsights(Fields{Transactions: []Transaction{
				{Date: "2025-10-01", Description: "ATM WITHDRAWAL", Amount: amount("-2000")},
				{Date: "2025-10-02", Description: "Atm fee", Amount: amount("-20")},
				{Date: "2025-10-03", Description: "UPI payment to shop", Amount: amount("-150")},
			}})
			Expect(tips).To(ContainElement("ATM withdrawals: 2×."))
			Expect(tips).To(ContainElement("UPI transactions: 1×."))
		})
	})

	When("credits exceed debits", func() {
		It("emits the net-positive-inflow observation", func() {
			tips := LocalInsights(Fields{SummaryValues: SummaryValues{
				TotalCredits: amountPtr("12000"),
				TotalDebits:  amountPtr("9500"),
			}})
			Expect(tips).To(ContainElement("Net positive inflow; consider saving/investing surplus."))
		})

		It("stays quiet when debits win", func() {
			tips := LocalInsights(Fields{SummaryValues: SummaryValues{
				TotalCredits: amountPtr("9500"),
				TotalDebits:  amountPtr("12000"),
			}})
			Expect(tips).NotTo(ContainElement(ContainSubstring("Net positive inflow")))
		})
	})

	When("no rule produces an observation", func() {
		It("emits the single placeholder", func() {
			tips := LocalInsights(Fields{})
			Expect(tips).To(Equal([]string{"No strong insights from parsed data."}))
		})
	})

	It("evaluates rules in a fixed order", func() {
		tips := LocalInsights(Fields{
			SummaryValues: SummaryValues{
				OpeningBalance: amountPtr("100"),
				ClosingBalance: amountPtr("200"),
				TotalCredits:   amountPtr("500"),
				TotalDebits:    amountPtr("100"),
			},
			Transactions: []Transaction{
				{Date: "2025-10-01", Description: "upi spend", Amount: amount("-10")},
				{Date: "2025-10-02", Description: "atm cash", Amount: amount("-10")},
			},
		})
		Expect(tips).To(HaveLen(4))
		Expect(tips[0]).To(ContainSubstring("average balance"))
		Expect(tips[1]).To(Equal(fmt.Sprintf("ATM withdrawals: %d×.", 1)))
		Expect(tips[2]).To(Equal(fmt.Sprintf("UPI transactions: %d×.", 1)))
		Expect(tips[3]).To(ContainSubstring("Net positive inflow"))
	})
})

var _ = Describe("groupThousands", func() {
	It("groups long integer parts", func() {
		Expect(groupThousands("1234567.89")).To(Equal("1,234,567.89"))
	})

	It("leaves short values alone", func() {
		Expect(groupThousands("250.75")).To(Equal("250.75"))
	})

	It("keeps the sign outside the grouping", func() {
		Expect(groupThousands("-16250.00")).To(Equal("-16,250.00"))
	})
})
