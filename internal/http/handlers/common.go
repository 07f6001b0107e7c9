package handlers

import "github.com/gauravsahdz/ecommerce-api/internal/query"

// withSort returns a copy of the shared list options with the resource's
// sortable-column allow-list. sortBy values outside the map fall back to the
// default, so client input never reaches the ORDER BY clause verbatim.
func withSort(opt query.Options, cols map[string]string) query.Options {
	opt.SortColumns = cols
	return opt
}
