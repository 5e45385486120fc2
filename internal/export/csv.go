// Package export writes proposals as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"presales-tracker/internal/models"
)

const dateLayout = "2006-01-02"

// Header is the fixed column order of the proposal export.
var Header = []string{
	"Project",
	"Priority",
	"Bandwidth",
	"Gateway",
	"Terminal Count",
	"Terminal Type",
	"Sales Director",
	"Presales Owner",
	"Submission Date",
	"Proposal Link",
	"Commercial Value",
	"Status",
	"Remarks",
}

// WriteProposals writes a header row and one row per proposal. Each
// proposal must have its Project loaded.
func WriteProposals(w io.Writer, proposals []models.Proposal) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range proposals {
		if err := cw.Write(Row(&proposals[i])); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Row formats a proposal using display labels for enumerated fields.
func Row(p *models.Proposal) []string {
	remarks := ""
	if p.Remarks != nil {
		remarks = *p.Remarks
	}
	return []string{
		p.Project.ProjectName,
		p.Priority.Label(),
		p.Bandwidth,
		p.Gateway.Label(),
		strconv.FormatUint(uint64(p.TerminalCount), 10),
		p.TerminalType.Label(),
		p.SalesDirector,
		p.PresalesOwner,
		p.SubmissionDate.Format(dateLayout),
		p.ProposalLink,
		p.CommercialValue.StringFixed(2),
		p.Status.Label(),
		remarks,
	}
}
