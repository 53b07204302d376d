// backup.go — JSON-бэкап всех таблиц.
// Формат не схемозависимый: колонки читаются из описания результата,
// поэтому новые поля попадают в бэкап без правок здесь.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// backupTables — таблицы, попадающие в бэкап.
var backupTables = []string{
	"workers", "categories", "price_list", "worker_categories",
	"work_log", "advances", "penalties", "reminder_settings",
}

// Backup — содержимое бэкапа: таблица → строки.
type Backup struct {
	CreatedAt time.Time                   `json:"created_at"`
	Tables    map[string][]map[string]any `json:"tables"`
}

// RowCounts возвращает число строк по таблицам (для подписи к документу).
func (b *Backup) RowCounts() map[string]int {
	counts := make(map[string]int, len(b.Tables))
	for name, rows := range b.Tables {
		counts[name] = len(rows)
	}
	return counts
}

// DumpBackup выгружает все таблицы в JSON.
func DumpBackup(ctx context.Context, db *pgxpool.Pool) (*Backup, []byte, error) {
	b := &Backup{
		CreatedAt: time.Now().UTC(),
		Tables:    make(map[string][]map[string]any, len(backupTables)),
	}
	for _, table := range backupTables {
		rows, err := dumpTable(ctx, db, table)
		if err != nil {
			return nil, nil, err
		}
		b.Tables[table] = rows
	}
	raw, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка сериализации бэкапа: %w", err)
	}
	return b, raw, nil
}

func dumpTable(ctx context.Context, db *pgxpool.Pool, table string) ([]map[string]any, error) {
	rows, err := db.Query(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения таблицы %s: %w", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	dump := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения строки %s: %w", table, err)
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[fd.Name] = normalizeValue(values[i])
		}
		dump = append(dump, row)
	}
	return dump, rows.Err()
}

// normalizeValue приводит драйверные типы к JSON-дружелюбным.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		return v
	}
}
