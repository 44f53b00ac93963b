package schemas

// DepreciationRunResult summarizes one pass of the scheduled depreciation job.
type DepreciationRunResult struct {
	Period    string   `json:"period"`
	Processed int      `json:"processed"`
	Recorded  int      `json:"recorded"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}
