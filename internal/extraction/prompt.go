package extraction

// extractionPrompt is shared by all structured producers. Keeping the
// section names in the prompt aligned with the canonical shape means most
// well-behaved responses coerce without alias lookups.
const extractionPrompt = `Extract JSON only, EXACTLY with keys: Account Info, Summary Values, Transactions.
Account Info must include: Bank name, Account holder name, Account number, Statement month, Account type (string|null each).
Summary Values must include: Opening balance, Closing balance, Total credits, Total debits, Average daily balance (number|null each).
Transactions entries must include: date (YYYY-MM-DD ideally), description, amount (number), balance (number|null), category (string|null).
Return VALID JSON and nothing else.`

// insightsPrompt precedes the reconciled fields JSON when asking a model
// for observations.
const insightsPrompt = "Given JSON below (FIELDS), return a JSON object {\"insights\": [ ... ]} with 3-8 concise bullets.\n\nFIELDS:\n"
