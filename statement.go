package ledgercore

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// Statement renders the account's transaction history as a PDF document
// and writes it to w. Rows where the account is the sender are printed
// in red with a leading minus, rows where it is the receiver in green
// with a leading plus.
func (s *serviceImpl) Statement(w io.Writer, req StatementReq) error {
	if _, err := s.repo.Lookup(req.AcctID); err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Courier", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("ACCOUNT STATEMENT: USER ID %d", req.AcctID), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Courier", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(50, 7, "TX ID", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "TYPE", "B", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, "AMOUNT", "B", 0, "R", false, 0, "")
	pdf.CellFormat(0, 7, "DATE", "B", 1, "L", false, 0, "")

	pdf.SetFont("Courier", "", 10)
	var found bool
	err := s.ledger.ReadAll(req.AcctID, func(txn Transaction) (bool, error) {
		found = true
		label, amount := "RECEIVED", "+$"+txn.Amount.StringFixed(2)
		if txn.SenderID == req.AcctID {
			label, amount = "SENT", "-$"+txn.Amount.StringFixed(2)
			pdf.SetTextColor(200, 0, 0)
		} else {
			pdf.SetTextColor(0, 140, 0)
		}
		pdf.CellFormat(50, 6, txn.TxID, "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, amount, "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 6, txn.Timestamp.Format(timestampLayout), "", 1, "L", false, 0, "")
		return false, nil
	})
	if err != nil {
		return err
	}
	if !found {
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 8, "No transactions found.", "", 1, "C", false, 0, "")
	}

	return pdf.Output(w)
}
