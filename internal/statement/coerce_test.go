package statement

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func decode(s string) any {
	var v any
	Expect(json.Unmarshal([]byte(s), &v)).To(Succeed())
	return v
}

var _ = Describe("Coerce", func() {
	When("the payload uses human-readable section names", func() {
		It("maps all three sections", func() {
			p := Coerce(decode(`{
				"Account Info": {"Bank name": "HDFC Bank"},
				"Summary Values": {"Opening balance": 100},
				"Transactions": [{"date": "2025-01-01"}]
			}`))
			Expect(p.Account).To(HaveKey("Bank name"))
			Expect(p.Summary).To(HaveKey("Opening balance"))
			Expect(p.Transactions).To(HaveLen(1))
		})
	})

	When("the payload uses snake_case section names", func() {
		It("maps all three sections", func() {
			p := Coerce(decode(`{
				"account_info": {"bank_name": "HDFC Bank"},
				"summary_values": {"opening_balance": 100},
				"transactions": [{"date": "2025-01-01"}]
			}`))
			Expect(p.Account).To(HaveKey("bank_name"))
			Expect(p.Summary).To(HaveKey("opening_balance"))
			Expect(p.Transactions).To(HaveLen(1))
		})
	})

	When("the payload is nested under a fields wrapper", func() {
		It("descends into the wrapper", func() {
			p := Coerce(decode(`{"fields": {"Transactions": [{"date": "2025-01-01"}]}}`))
			Expect(p.Transactions).To(HaveLen(1))
		})
	})

	When("the payload is a bare list of transaction mappings", func() {
		It("treats the list as the transactions section", func() {
			p := Coerce(decode(`[{"date": "2025-01-01", "amount": 5}]`))
			Expect(p.Transactions).To(HaveLen(1))
			Expect(p.Account).To(BeEmpty())
			Expect(p.Summary).To(BeEmpty())
		})
	})

	When("the payload is unusable", func() {
		It("degrades a scalar to the empty shape", func() {
			p := Coerce(decode(`42`))
			Expect(p.Transactions).To(BeEmpty())
			Expect(p.Account).NotTo(BeNil())
			Expect(p.Summary).NotTo(BeNil())
		})

		It("degrades a list of scalars to the empty shape", func() {
			p := Coerce(decode(`[1, 2, 3]`))
			Expect(p.Transactions).To(BeEmpty())
		})

		It("degrades nil to the empty shape", func() {
			p := Coerce(nil)
			Expect(p.Transactions).To(BeEmpty())
			Expect(p.Account).NotTo(BeNil())
		})

		It("defaults sections of the wrong type to empty", func() {
			p := Coerce(decode(`{"Transactions": "not a list", "Account Info": 7}`))
			Expect(p.Transactions).To(BeEmpty())
			Expect(p.Account).To(BeEmpty())
		})
	})
})
