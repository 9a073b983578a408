package dto

// ReportFilter bounds an export to an inclusive YYYY-MM-DD range.
type ReportFilter struct {
	From string `form:"from"`
	To   string `form:"to"`
}
