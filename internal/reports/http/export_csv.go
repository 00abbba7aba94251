package reporthttp

import (
	"bytes"
	"encoding/csv"
	"net/http"

	"github.com/mrcd-books/mrcd-books/internal/reports"
)

func (h *Handler) handleLedgerCSV(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.loadLedger(w, r)
	if !ok {
		return
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	_ = writer.Write([]string{"Date", "Voucher No", "Narration", "Debit", "Credit", "Balance"})
	_ = writer.Write([]string{"", "", "Opening Balance", "", "", reports.FormatBalance(rep.OpeningBalance)})
	for _, row := range rep.Transactions {
		_ = writer.Write([]string{
			dateVM(row.Date),
			row.VoucherNo,
			row.Narration,
			reports.FormatAmount(row.Debit),
			reports.FormatAmount(row.Credit),
			reports.FormatBalance(row.Balance),
		})
	}
	_ = writer.Write([]string{"", "", "Closing Balance", reports.FormatAmount(rep.TotalDebit), reports.FormatAmount(rep.TotalCredit), reports.FormatBalance(rep.ClosingBalance)})
	writer.Flush()
	sendCSV(w, "ledger_"+rep.AccountCode+".csv", buf)
}

func (h *Handler) handleTrialBalanceCSV(w http.ResponseWriter, r *http.Request) {
	tb, ok := h.loadTrialBalance(w, r)
	if !ok {
		return
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	_ = writer.Write([]string{"Account Code", "Account Name", "Type", "Debit", "Credit"})
	for _, row := range tb.Accounts {
		_ = writer.Write([]string{
			row.AccountCode,
			row.AccountName,
			string(row.AccountType),
			reports.FormatAmount(row.Debit),
			reports.FormatAmount(row.Credit),
		})
	}
	_ = writer.Write([]string{"", "Total", "", reports.FormatAmount(tb.TotalDebit), reports.FormatAmount(tb.TotalCredit)})
	writer.Flush()
	sendCSV(w, "trial_balance_"+dateVM(tb.AsOn)+".csv", buf)
}

func sendCSV(w http.ResponseWriter, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	_, _ = w.Write(buf.Bytes())
}
