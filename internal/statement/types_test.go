package statement

import (
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Note", func() {
	It("marshals a plain note as a string", func() {
		data, err := json.Marshal(Note{Text: "Local OCR/heuristic parsing used."})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`"Local OCR/heuristic parsing used."`))
	})

	It("marshals a labeled note as a pair", func() {
		data, err := json.Marshal(Note{Label: "extractor_resp_preview", Text: "garbage..."})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`["extractor_resp_preview","garbage..."]`))
	})

	It("round-trips both forms", func() {
		for _, note := range []Note{{Text: "plain"}, {Label: "k", Text: "v"}} {
			data, err := json.Marshal(note)
			Expect(err).NotTo(HaveOccurred())
			var back Note
			Expect(json.Unmarshal(data, &back)).To(Succeed())
			Expect(back).To(Equal(note))
		}
	})

	It("rejects other shapes", func() {
		var n Note
		Expect(json.Unmarshal([]byte(`{"x":1}`), &n)).NotTo(Succeed())
	})
})

var _ = Describe("Result JSON", func() {
	It("carries exactly the three top-level keys in fixed order", func() {
		data, err := json.Marshal(&Result{Quality: NewQuality()})
		Expect(err).NotTo(HaveOccurred())

		var keys map[string]json.RawMessage
		Expect(json.Unmarshal(data, &keys)).To(Succeed())
		Expect(keys).To(HaveLen(3))
		Expect(keys).To(HaveKey("fields"))
		Expect(keys).To(HaveKey("insights"))
		Expect(keys).To(HaveKey("quality"))

		s := string(data)
		Expect(strings.Index(s, `"fields"`)).To(BeNumerically("<", strings.Index(s, `"insights"`)))
		Expect(strings.Index(s, `"insights"`)).To(BeNumerically("<", strings.Index(s, `"quality"`)))
	})

	It("emits summary values as JSON numbers", func() {
		f := Fields{SummaryValues: SummaryValues{OpeningBalance: amountPtr("15000.5")}}
		data, err := json.Marshal(f)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"Opening balance":15000.5`))
	})

	It("emits empty quality arrays, not null", func() {
		data, err := json.Marshal(NewQuality())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"missing_sections":[]`))
		Expect(string(data)).To(ContainSubstring(`"notes":[]`))
	})
})
