package response

import "campus-booking/internal/timetable"

type UploadResponse struct {
	Columns        []string `json:"columns"`
	DroppedColumns []string `json:"dropped_columns"`
	MergedRows     int      `json:"merged_rows"`
	Rows           int      `json:"rows"`
}

type PreviewResponse struct {
	Columns []string           `json:"columns"`
	Rows    []timetable.Record `json:"rows"`
}

type UnresolvedCounts struct {
	Modules int `json:"modules"`
	Rooms   int `json:"rooms"`
	Staff   int `json:"staff"`
	Groups  int `json:"groups"`
}

type ImportResponse struct {
	Rows       int                 `json:"rows"`
	Created    int64               `json:"created"`
	Existing   int64               `json:"existing"`
	Skipped    []timetable.Skipped `json:"skipped"`
	Unresolved UnresolvedCounts    `json:"unresolved"`
}
