package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// WriteTable prints the groups as an aligned table followed by the entropy
func WriteTable(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	keyed := false
	for _, g := range r.Groups {
		if g.Key != "" {
			keyed = true
			break
		}
	}

	header := []string{"GROUP", "SIZE"}
	if keyed {
		header = append(header, "KEY")
	}
	header = append(header, "ID")
	for _, col := range r.Columns {
		header = append(header, strings.ToUpper(col))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for i, g := range r.Groups {
		for j, m := range g.Members {
			row := []string{"", ""}
			if j == 0 {
				row[0] = strconv.Itoa(i + 1)
				row[1] = strconv.Itoa(g.Size)
			}
			if keyed {
				key := ""
				if j == 0 {
					key = g.Key
				}
				row = append(row, key)
			}
			row = append(row, m.ID)
			for _, col := range r.Columns {
				row = append(row, m.Fields[col])
			}
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%s: %d groups, %d records (%d excluded)\nentropy: %.4f bits (max %.4f)\n",
		r.Title, len(r.Groups), r.Total, r.Excluded, r.Entropy, r.MaxEntropy)
	return err
}

// WriteCSV writes one row per member
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)

	header := append([]string{"group", "size", "id"}, r.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, g := range r.Groups {
		for _, m := range g.Members {
			row := []string{strconv.Itoa(i + 1), strconv.Itoa(g.Size), m.ID}
			for _, col := range r.Columns {
				row = append(row, m.Fields[col])
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
