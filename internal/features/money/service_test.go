package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yaMovsar/cabinet-bot/internal/common"
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func balance(id int64, name string, earned, advances, penalties int64, days int) *WorkerBalance {
	b := &WorkerBalance{WorkerID: id, Name: name}
	b.Earned = dec(earned)
	b.Advances = dec(advances)
	b.Penalties = dec(penalties)
	b.Balance = b.Earned.Sub(b.Advances).Sub(b.Penalties)
	b.WorkDays = days
	return b
}

func TestBalanceArithmetic(t *testing.T) {
	b := balance(1, "Аслан", 50000, 20000, 3000, 10)
	if !b.Balance.Equal(dec(27000)) {
		t.Errorf("баланс = %v, ожидалось 27000", b.Balance)
	}

	// Авансов выдано больше заработанного — баланс отрицательный, как есть
	b = balance(2, "Мурад", 10000, 15000, 0, 3)
	if !b.Balance.Equal(dec(-5000)) {
		t.Errorf("переплата должна давать отрицательный баланс: %v", b.Balance)
	}
}

func TestBuildRankingsOrder(t *testing.T) {
	balances := []*WorkerBalance{
		balance(1, "Аслан", 30000, 0, 0, 10), // 3000/день
		balance(2, "Борис", 50000, 0, 0, 25), // 2000/день
		balance(3, "Вадим", 40000, 0, 0, 5),  // 8000/день
	}
	r := BuildRankings(balances)

	wantEarned := []string{"Борис", "Вадим", "Аслан"}
	for i, name := range wantEarned {
		if r.ByEarned[i].Name != name {
			t.Errorf("ByEarned[%d] = %s, ожидалось %s", i, r.ByEarned[i].Name, name)
		}
	}

	wantAvg := []string{"Вадим", "Аслан", "Борис"}
	for i, name := range wantAvg {
		if r.ByAverage[i].Name != name {
			t.Errorf("ByAverage[%d] = %s, ожидалось %s", i, r.ByAverage[i].Name, name)
		}
	}
}

func TestBuildRankingsTieBreak(t *testing.T) {
	// Одинаковый заработок и одинаковое среднее — порядок по имени
	balances := []*WorkerBalance{
		balance(3, "Яков", 20000, 0, 0, 10),
		balance(1, "Анна", 20000, 0, 0, 10),
		balance(2, "Борис", 20000, 0, 0, 10),
	}
	r := BuildRankings(balances)

	want := []string{"Анна", "Борис", "Яков"}
	for i, name := range want {
		if r.ByEarned[i].Name != name {
			t.Errorf("ByEarned[%d] = %s, ожидалось %s", i, r.ByEarned[i].Name, name)
		}
		if r.ByAverage[i].Name != name {
			t.Errorf("ByAverage[%d] = %s, ожидалось %s", i, r.ByAverage[i].Name, name)
		}
	}
}

func TestBuildRankingsExcludesZeroActivity(t *testing.T) {
	balances := []*WorkerBalance{
		balance(1, "Аслан", 30000, 0, 0, 10),
		balance(2, "Новичок", 0, 0, 0, 0),
		balance(3, "Отпускник", 0, 5000, 0, 0), // аванс есть, записей нет
	}
	r := BuildRankings(balances)

	if len(r.ByEarned) != 1 || len(r.ByAverage) != 1 {
		t.Fatalf("в рейтинге должен быть один работник: earned=%d avg=%d",
			len(r.ByEarned), len(r.ByAverage))
	}
	if len(r.NoRecords) != 2 {
		t.Fatalf("без записей должно быть двое: %v", r.NoRecords)
	}
	if r.NoRecords[0] != "Новичок" || r.NoRecords[1] != "Отпускник" {
		t.Errorf("список без записей не отсортирован: %v", r.NoRecords)
	}
}

func TestBuildRankingsAverage(t *testing.T) {
	balances := []*WorkerBalance{balance(1, "Аслан", 10000, 0, 0, 3)}
	r := BuildRankings(balances)
	// 10000/3 — точность decimal, не целочисленное деление
	want := dec(10000).Div(dec(3))
	if !r.ByAverage[0].AvgPerDay.Equal(want) {
		t.Errorf("среднее = %v, ожидалось %v", r.ByAverage[0].AvgPerDay, want)
	}
}

func TestBuildFundTotals(t *testing.T) {
	balances := []*WorkerBalance{
		balance(1, "Аслан", 50000, 20000, 3000, 10),
		balance(2, "Борис", 30000, 35000, 0, 8), // переплата -5000
	}
	totals := BuildFundTotals(balances)

	if !totals.Earned.Equal(dec(80000)) {
		t.Errorf("фонд заработка = %v", totals.Earned)
	}
	if !totals.Advances.Equal(dec(55000)) {
		t.Errorf("фонд авансов = %v", totals.Advances)
	}
	if !totals.Penalties.Equal(dec(3000)) {
		t.Errorf("фонд штрафов = %v", totals.Penalties)
	}
	// 27000 + (-5000) = 22000: переплата уменьшает сумму к выплате
	if !totals.ToPay.Equal(dec(22000)) {
		t.Errorf("к выплате = %v, ожидалось 22000", totals.ToPay)
	}
}

func TestBuildFundTotalsEmpty(t *testing.T) {
	totals := BuildFundTotals(nil)
	if !totals.Earned.IsZero() || !totals.ToPay.IsZero() {
		t.Errorf("пустой фонд должен быть нулевым: %+v", totals)
	}
}

func TestParseAmount(t *testing.T) {
	a, err := ParseAmount("5000")
	if err != nil || !a.Equal(dec(5000)) {
		t.Errorf("ParseAmount(5000): a=%v err=%v", a, err)
	}
	a, err = ParseAmount(" 1500,50 ")
	if err != nil || !a.Equal(decimal.RequireFromString("1500.50")) {
		t.Errorf("запятая как разделитель: a=%v err=%v", a, err)
	}
	for _, bad := range []string{"0", "-100", "abc", ""} {
		if _, err := ParseAmount(bad); !errors.Is(err, common.ErrInvalidAmount) {
			t.Errorf("ParseAmount(%q): ожидалась ErrInvalidAmount, получили %v", bad, err)
		}
	}
}
