package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"EdTechDigest/internal/domain"
	"EdTechDigest/internal/ports"
)

const rule = "------------------------------------------------------------"

// Reporter prints digests that need manual review and send confirmations.
type Reporter struct {
	out io.Writer
}

var _ ports.Reporter = (*Reporter)(nil)

// NewReporter writes to out, or stdout when out is nil.
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{out: out}
}

// ReportRejected prints every failed check followed by the full digest.
func (r *Reporter) ReportRejected(digest domain.Digest, verdict domain.Verdict) error {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Digest failed quality checks, not sending email")
	t.AppendHeader(table.Row{"#", "Reason"})
	for i, reason := range verdict.Reasons {
		t.AppendRow(table.Row{i + 1, reason})
	}
	t.Render()

	var b strings.Builder
	fmt.Fprintf(&b, "\nDigest for manual review (%d words, %d citations):\n", verdict.Words, verdict.Citations)
	b.WriteString(rule + "\n")
	b.WriteString(digest.Text())
	b.WriteString("\n" + rule + "\n")

	_, err := io.WriteString(r.out, b.String())
	return err
}

// ReportUnsent prints a passing digest whose delivery failed, so the text is not lost.
func (r *Reporter) ReportUnsent(digest domain.Digest, cause error) error {
	var b strings.Builder
	b.WriteString("\nDigest was generated but not sent")
	if cause != nil {
		fmt.Fprintf(&b, " (%v)", cause)
	}
	b.WriteString(":\n" + rule + "\n")
	b.WriteString(digest.Text())
	b.WriteString("\n" + rule + "\n")

	_, err := io.WriteString(r.out, b.String())
	return err
}

// ReportSent prints a short summary of the delivered message.
func (r *Reporter) ReportSent(msg domain.EmailMessage, verdict domain.Verdict) error {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Digest sent")
	t.AppendRows([]table.Row{
		{"Subject", msg.Subject},
		{"From", msg.From},
		{"To", msg.To},
		{"Word count", verdict.Words},
		{"Citations", verdict.Citations},
	})
	t.Render()
	return nil
}
