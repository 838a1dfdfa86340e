package usecase

import (
	"sort"
	"strings"

	"summerschool.lol/lolcoin/internal/domain/entity"
)

// Row is one rendered ledger line.
type Row struct {
	Key            string            `json:"key"`
	ID             string            `json:"id,omitempty"`
	FullName       string            `json:"fullName"`
	SchoolGrade    string            `json:"schoolGrade"`
	AccountID      string            `json:"accountId"`
	Balance        entity.MinorUnits `json:"balance"`
	BalanceDisplay string            `json:"balanceDisplay"`
}

// RowFilter narrows the rendered rows. Empty fields match everything.
type RowFilter struct {
	FullName    string
	SchoolGrade string
}

func (f RowFilter) matches(a entity.Account) bool {
	return containsFold(a.FullName, f.FullName) && containsFold(a.SchoolGrade, f.SchoolGrade)
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}

// ProjectRows renders a snapshot, richest accounts first. Ties keep server order.
func ProjectRows(snapshot entity.LedgerSnapshot, formatter BalanceFormatter, filter RowFilter) []Row {
	accounts := snapshot.Accounts()
	rows := make([]Row, 0, len(accounts))
	for _, a := range accounts {
		if !filter.matches(a) {
			continue
		}
		rows = append(rows, Row{
			Key:            a.Key(),
			ID:             string(a.ID),
			FullName:       a.FullName,
			SchoolGrade:    a.SchoolGrade,
			AccountID:      a.AccountID,
			Balance:        a.Balance,
			BalanceDisplay: formatter.Format(a.Balance),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Balance > rows[j].Balance
	})
	return rows
}
