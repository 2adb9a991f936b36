package parser

import "github.com/erraggy/o2t/internal/httputil"

// DocumentStats contains statistical information about an export
type DocumentStats struct {
	PathCount      int            // Number of routes defined
	OperationCount int            // Total number of operations across all routes
	SchemaCount    int            // Number of component schemas
	ByMethod       map[string]int // Operations per lowercase method
	ByStatus       map[string]int // Operations per x-apifox-status; "" counts unmarked
}

// GetDocumentStats returns statistics for a parsed document
func GetDocumentStats(doc *Document) DocumentStats {
	stats := DocumentStats{
		ByMethod: make(map[string]int),
		ByStatus: make(map[string]int),
	}
	if doc == nil {
		return stats
	}
	stats.PathCount = doc.Paths.Len()
	stats.SchemaCount = doc.Components.Schemas.Len()
	for _, item := range doc.Paths.All() {
		if item == nil {
			continue
		}
		for _, method := range httputil.Methods {
			op := item.Operation(method)
			if op == nil {
				continue
			}
			stats.OperationCount++
			stats.ByMethod[method]++
			stats.ByStatus[op.Status]++
		}
	}
	return stats
}
