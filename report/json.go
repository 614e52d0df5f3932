package report

import (
	"encoding/json"
	"fmt"
	"io"

	"znkr.io/splitdiff/sidebyside"
)

type jsonReport struct {
	Rows  []jsonRow `json:"rows"`
	Stats jsonStats `json:"stats"`
}

type jsonRow struct {
	Op         string      `json:"op"`
	Left       string      `json:"left"`
	Right      string      `json:"right"`
	Tokens     []jsonToken `json:"tokens,omitempty"`
	LeftStart  int         `json:"left_start"`
	LeftEnd    int         `json:"left_end"`
	RightStart int         `json:"right_start"`
	RightEnd   int         `json:"right_end"`
}

type jsonToken struct {
	Op    string `json:"op"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

type jsonStats struct {
	Equal    int `json:"equal"`
	Deleted  int `json:"deleted"`
	Inserted int `json:"inserted"`
	Replaced int `json:"replaced"`
}

// WriteJSON writes the rows and stats of the report as JSON. Offsets are -1 for rows that don't
// carry a range.
func (r *Report) WriteJSON(w io.Writer) error {
	out := jsonReport{
		Rows: make([]jsonRow, 0, len(r.Rows)),
		Stats: jsonStats{
			Equal:    r.Stats.Equal,
			Deleted:  r.Stats.Deleted,
			Inserted: r.Stats.Inserted,
			Replaced: r.Stats.Replaced,
		},
	}
	for i := range r.Rows {
		out.Rows = append(out.Rows, toJSON(&r.Rows[i]))
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encoding json: %v", err)
	}
	return nil
}

func toJSON(row *sidebyside.Row) jsonRow {
	rg := row.Range()
	jr := jsonRow{
		Op:         row.Op.String(),
		Left:       row.Left,
		Right:      row.Right,
		LeftStart:  rg.LeftStart,
		LeftEnd:    rg.LeftEnd,
		RightStart: rg.RightStart,
		RightEnd:   rg.RightEnd,
	}
	for _, t := range row.Tokens() {
		jr.Tokens = append(jr.Tokens, jsonToken{Op: t.Op.String(), Left: t.Left, Right: t.Right})
	}
	return jr
}
