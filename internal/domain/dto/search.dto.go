package dto

// UserSearchRequest is the body of POST /api/users from the web tab.
type UserSearchRequest struct {
	SearchText    string   `json:"searchText"`
	SearchFilters []string `json:"SearchFilters"`
}

// SharePoint search REST response, reduced to the parts the mapper
// reads: PrimaryQueryResult.RelevantResults.Table.Rows[].Cells.
type SharePointSearchResponse struct {
	PrimaryQueryResult struct {
		RelevantResults struct {
			Table struct {
				Rows []SharePointSearchRow `json:"Rows"`
			} `json:"Table"`
		} `json:"RelevantResults"`
	} `json:"PrimaryQueryResult"`
}

type SharePointSearchRow struct {
	Cells []SharePointSearchCell `json:"Cells"`
}

type SharePointSearchCell struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// CellValue returns the value for key, or empty when the cell is
// missing from the row.
func (r SharePointSearchRow) CellValue(key string) string {
	for _, cell := range r.Cells {
		if cell.Key == key {
			return cell.Value
		}
	}
	return ""
}
