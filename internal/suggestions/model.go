package suggestions

// Count is the number of rewrites returned per request.
const Count = 3

// Input is one suggestion request.
type Input struct {
	Description string
	JobRole     string
	CompanyName string
}

// Result is what POST /ai-suggestions returns.
type Result struct {
	Suggestions []string `json:"suggestions"`
	UsageCount  int      `json:"usageCount"`
}
