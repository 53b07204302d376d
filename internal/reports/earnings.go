// earnings.go — текстовый экран «Заработок за месяц»:
// по каждому работнику разбивка категория → вид работы, внизу фонд.
package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yaMovsar/cabinet-bot/internal/common"
	"github.com/yaMovsar/cabinet-bot/internal/features/worklog"
)

type earningsItem struct {
	name     string
	quantity decimal.Decimal
	total    decimal.Decimal
}

// BuildEarningsText собирает текст экрана из детализации месяца.
// Строки должны идти сгруппированными по работнику (как их отдаёт
// MonthlyDetailedAll); одинаковые виды работ внутри категории складываются.
func BuildEarningsText(year int, month time.Month, rows []*worklog.DetailedRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Заработок за %s %d:\n", common.MonthsRU[month], year)
	if len(rows) == 0 {
		b.WriteString("\nЗаписей пока нет")
		return b.String()
	}

	fund := decimal.Zero
	i := 0
	for i < len(rows) {
		workerID := rows[i].WorkerID
		j := i
		for j < len(rows) && rows[j].WorkerID == workerID {
			j++
		}
		worker := rows[i:j]

		// категории в порядке первого появления, виды работ — тоже
		var catOrder []string
		catLabel := make(map[string]string)
		itemOrder := make(map[string][]string)
		items := make(map[string]map[string]*earningsItem)
		earned := decimal.Zero
		for _, r := range worker {
			cat := r.CategoryName
			if _, ok := items[cat]; !ok {
				catOrder = append(catOrder, cat)
				catLabel[cat] = r.CategoryEmoji + " " + r.CategoryName
				items[cat] = make(map[string]*earningsItem)
			}
			it, ok := items[cat][r.ItemName]
			if !ok {
				it = &earningsItem{name: r.ItemName, quantity: decimal.Zero, total: decimal.Zero}
				items[cat][r.ItemName] = it
				itemOrder[cat] = append(itemOrder[cat], r.ItemName)
			}
			it.quantity = it.quantity.Add(r.Quantity)
			it.total = it.total.Add(r.Total)
			earned = earned.Add(r.Total)
		}

		fmt.Fprintf(&b, "\n👷 %s\n", worker[0].WorkerName)
		for _, cat := range catOrder {
			fmt.Fprintf(&b, "%s:\n", catLabel[cat])
			for _, name := range itemOrder[cat] {
				it := items[cat][name]
				fmt.Fprintf(&b, "  %s: %s — %s\n",
					it.name, common.FormatQuantity(it.quantity), common.FormatMoney(it.total))
			}
		}
		fmt.Fprintf(&b, "Итого: %s\n", common.FormatMoney(earned))

		fund = fund.Add(earned)
		i = j
	}

	fmt.Fprintf(&b, "\n💰 Фонд за месяц: %s", common.FormatMoney(fund))
	return b.String()
}
