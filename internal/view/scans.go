package view

import (
	"fmt"
	"time"

	"github.com/complianceops/scorecard/internal/models"
)

// scanTimeLayout renders scan timestamps as yyyy-mm-dd hh:mm:ss.
const scanTimeLayout = "2006-01-02 15:04:05"

// Scans projects the scan history: start time parsed from the scan id
// prefix, process state, TTL as a wall-clock expiry, error count, and the
// fatal flag.
func Scans(scans []models.ScanRecord) Table {
	columns := []Column{
		{Key: "scanStart", Name: "Scan Start", Sortable: true, Filterable: true, Width: 180},
		{Key: "processState", Name: "Process State", Sortable: true, Filterable: true, Width: 120},
		{Key: "ttl", Name: "Time To Live (TTL)", Sortable: true, Filterable: true, Width: 180},
		{Key: "errors", Name: "Number of Errors", Sortable: true, Filterable: true, Width: 180},
		{Key: "fatalError", Name: "Fatal Error", Sortable: true, Filterable: true, Width: 100},
		{Key: "drill", Name: "View", Width: 90},
	}

	rows := make([]Row, 0, len(scans))
	for _, scan := range scans {
		row := Row{
			"scanStart":    formatScanTime(scan.StartTime()),
			"processState": scan.ProcessState,
			"errors":       fmt.Sprintf("%d", len(scan.Errors)),
			"drill":        scan.ScanID,
		}

		row["ttl"] = ""
		if expiry := scan.Expiry(); !expiry.IsZero() {
			row["ttl"] = expiry.Format(scanTimeLayout)
		}

		row["fatalError"] = "no"
		if scan.FatalError != nil {
			row["fatalError"] = "yes"
		}

		rows = append(rows, row)
	}

	return Table{Columns: columns, Rows: rows}
}

func formatScanTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(scanTimeLayout)
}
