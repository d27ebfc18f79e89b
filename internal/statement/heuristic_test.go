package statement

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func collect(text string) []Transaction {
	var out []Transaction
	for t := range ScanTransactions(text) {
		out = append(out, t)
	}
	return out
}

var _ = Describe("ScanTransactions", func() {
	When("the text holds a simple date-description-amount line", func() {
		It("yields one candidate with the full amount", func() {
			got := collect("2025-01-15 Grocery Store 250.75")
			Expect(got).To(HaveLen(1))
			Expect(got[0].Date).To(Equal("2025-01-15"))
			Expect(got[0].Amount.StringFixed(2)).To(Equal("250.75"))
			Expect(got[0].Description).To(Equal("2025-01-15 Grocery Store 250.75"))
		})
	})

	When("the text holds several transaction lines", func() {
		It("yields one candidate per line", func() {
			got := collect("01/10/2025 UPI PAYMENT -120.50\nsome noise\n02/10/2025 SALARY 25,000.00")
			Expect(got).To(HaveLen(2))
			Expect(got[0].Date).To(Equal("2025-10-01"))
			Expect(got[0].Amount.StringFixed(2)).To(Equal("-120.50"))
			Expect(got[1].Date).To(Equal("2025-10-02"))
			Expect(got[1].Amount.StringFixed(2)).To(Equal("25000.00"))
		})
	})

	When("a date has no amount within 120 characters", func() {
		It("yields nothing", func() {
			far := "2025-01-15 " + strings.Repeat("x", 130) + " 250.75"
			Expect(collect(far)).To(BeEmpty())
		})
	})

	When("the text has no transaction-shaped content", func() {
		It("yields nothing", func() {
			Expect(collect("Dear customer, thank you for banking with us.")).To(BeEmpty())
			Expect(collect("")).To(BeEmpty())
		})
	})

	When("the sequence is consumed twice", func() {
		It("restarts from the beginning", func() {
			seq := ScanTransactions("2025-01-15 Grocery Store 250.75")
			first := 0
			for range seq {
				first++
			}
			second := 0
			for range seq {
				second++
			}
			Expect(second).To(Equal(first))
			Expect(first).To(Equal(1))
		})
	})

	When("iteration stops early", func() {
		It("does not yield further candidates", func() {
			seq := ScanTransactions("01/10/2025 A 1.00\n02/10/2025 B 2.00")
			n := 0
			for range seq {
				n++
				break
			}
			Expect(n).To(Equal(1))
		})
	})
})
