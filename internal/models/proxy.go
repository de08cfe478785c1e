package models

// ProxyErrorBody is the envelope the proxy synthesizes when the
// backend answers with something other than JSON, so HTML error pages
// ("Cannot GET /x") come back as diagnosable JSON instead of a parse
// failure.
type ProxyErrorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
	Body   string `json:"body"`
}
