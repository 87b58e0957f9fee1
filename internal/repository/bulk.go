package repository

// BulkResult accumulates the outcome of a transactional bulk create.
type BulkResult struct {
	Total      int
	Success    int
	Failed     int
	CreatedIDs []string
	Errors     []BulkItemError
}

// BulkItemError reports the failure of a single item in a bulk create.
type BulkItemError struct {
	Index   int
	Code    string
	Message string
}
