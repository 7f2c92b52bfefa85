package pdf

import "strings"

// CategoryUnknown is returned when no keyword set matches.
const CategoryUnknown = "unknown"

// categoryKeywords maps a page category to the lowercase keywords that
// identify it. Categories are tried in order and the first match wins,
// so the slice order is part of the classifier's behavior.
var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{"MM", []string{"material management", "procurement", "purchasing", "mm transaction"}},
	{"SD", []string{"sales and distribution", "sales order", "delivery", "billing"}},
	{"FI", []string{"financial accounting", "general ledger", "accounts payable", "accounts receivable"}},
	{"CO", []string{"controlling", "cost center", "profit center", "internal order"}},
	{"PP", []string{"production planning", "manufacturing", "work order", "bom"}},
	{"QM", []string{"quality management", "inspection", "quality notification"}},
	{"PM", []string{"plant maintenance", "equipment", "work order", "maintenance"}},
	{"HR", []string{"human resources", "personnel", "payroll", "organizational management"}},
	{"WM", []string{"warehouse management", "storage location", "transfer order"}},
	{"PS", []string{"project system", "wbs", "project structure"}},
}

// DetectCategory scans lowercased page text for fixed keyword sets and
// returns the first matching category. Best-effort labeling only.
func DetectCategory(text string) string {
	lower := strings.ToLower(text)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.name
			}
		}
	}
	return CategoryUnknown
}
