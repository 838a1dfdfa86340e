package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summerschool.lol/lolcoin/internal/domain/entity"
)

func testSnapshot() entity.LedgerSnapshot {
	return entity.NewLedgerSnapshot([]entity.Account{
		{ID: "1", FullName: "Олена Коваль", SchoolGrade: "10-А", AccountID: "olena.near", Balance: 1050},
		{FullName: "Петро Іваненко", SchoolGrade: "11-Б", AccountID: "petro.near", Balance: 3000},
		{ID: "3", FullName: "Оксана Мельник", SchoolGrade: "10-Б", AccountID: "oksana.near", Balance: 1050},
	}, time.Unix(1700000000, 0))
}

func TestProjectRows(t *testing.T) {
	formatter, err := NewBalanceFormatter("en", "")
	require.NoError(t, err)

	tests := []struct {
		name     string
		filter   RowFilter
		wantKeys []string
	}{
		{
			name:     "richest first, ties in server order",
			wantKeys: []string{"petro.near", "1", "3"},
		},
		{
			name:     "name contains, case-insensitive",
			filter:   RowFilter{FullName: "оЛЕНА"},
			wantKeys: []string{"1"},
		},
		{
			name:     "grade contains",
			filter:   RowFilter{SchoolGrade: "10"},
			wantKeys: []string{"1", "3"},
		},
		{
			name:     "both filters",
			filter:   RowFilter{FullName: "о", SchoolGrade: "б"},
			wantKeys: []string{"petro.near", "3"},
		},
		{
			name:     "no match",
			filter:   RowFilter{FullName: "Марія"},
			wantKeys: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := ProjectRows(testSnapshot(), formatter, tt.filter)
			keys := make([]string, 0, len(rows))
			for _, row := range rows {
				keys = append(keys, row.Key)
			}
			assert.Equal(t, tt.wantKeys, keys)
		})
	}
}

func TestProjectRows_RenderedFields(t *testing.T) {
	formatter, err := NewBalanceFormatter("en", "")
	require.NoError(t, err)

	rows := ProjectRows(testSnapshot(), formatter, RowFilter{FullName: "Олена"})
	require.Len(t, rows, 1)
	assert.Equal(t, Row{
		Key:            "1",
		ID:             "1",
		FullName:       "Олена Коваль",
		SchoolGrade:    "10-А",
		AccountID:      "olena.near",
		Balance:        1050,
		BalanceDisplay: "10.5 ЛОЛ",
	}, rows[0])
}

func TestProjectRows_EmptySnapshot(t *testing.T) {
	rows := ProjectRows(entity.LedgerSnapshot{}, BalanceFormatter{}, RowFilter{})
	assert.Empty(t, rows)
}
