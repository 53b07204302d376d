package worklog

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yaMovsar/cabinet-bot/internal/features/catalog"
)

var (
	testToday = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	catSofa  = &catalog.Category{Code: "sofa", Name: "Диваны", Emoji: "🛋"}
	catChair = &catalog.Category{Code: "chair", Name: "Стулья", Emoji: "🪑"}

	itemPiece = &catalog.PriceItem{
		Code: "sofa_big", Name: "Большой диван",
		Price: decimal.NewFromInt(500), CategoryCode: "sofa",
		UnitKind: catalog.UnitPiece, IsActive: true,
	}
	itemArea = &catalog.PriceItem{
		Code: "paint_wall", Name: "Покраска стен",
		Price: decimal.NewFromInt(200), CategoryCode: "sofa",
		UnitKind: catalog.UnitArea, IsActive: true,
	}
)

func startedSession() *Session {
	s := &Session{}
	s.Start()
	return s
}

func TestValidateWorkDate(t *testing.T) {
	if err := ValidateWorkDate(testToday, testToday); err != nil {
		t.Errorf("сегодня должна быть допустима: %v", err)
	}
	if err := ValidateWorkDate(testToday.AddDate(0, 0, -90), testToday); err != nil {
		t.Errorf("ровно 90 дней назад — допустимо: %v", err)
	}
	if err := ValidateWorkDate(testToday.AddDate(0, 0, 1), testToday); !errors.Is(err, ErrDateInFuture) {
		t.Errorf("завтра: ожидалась ErrDateInFuture, получили %v", err)
	}
	if err := ValidateWorkDate(testToday.AddDate(0, 0, -91), testToday); !errors.Is(err, ErrDateTooOld) {
		t.Errorf("91 день назад: ожидалась ErrDateTooOld, получили %v", err)
	}
}

func TestChooseDateInvalidKeepsState(t *testing.T) {
	s := startedSession()
	cats := []*catalog.Category{catSofa, catChair}

	if err := s.ChooseDate(testToday.AddDate(0, 0, 3), testToday, cats); !errors.Is(err, ErrDateInFuture) {
		t.Fatalf("ожидалась ErrDateInFuture, получили %v", err)
	}
	if s.State != StateChoosingDate {
		t.Errorf("при невалидной дате состояние не должно меняться: %v", s.State)
	}

	// Повторный ввод корректной даты проходит
	if err := s.ChooseDate(testToday, testToday, cats); err != nil {
		t.Fatalf("корректная дата: %v", err)
	}
	if s.State != StateChoosingCategory {
		t.Errorf("две категории — ожидался выбор категории, состояние %v", s.State)
	}
}

func TestChooseDateSingleCategorySkips(t *testing.T) {
	s := startedSession()
	if err := s.ChooseDate(testToday, testToday, []*catalog.Category{catSofa}); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if s.State != StateChoosingWork {
		t.Errorf("одна категория — выбор должен пропускаться, состояние %v", s.State)
	}
	if s.CategoryCode != "sofa" {
		t.Errorf("категория должна подставиться автоматически: %q", s.CategoryCode)
	}
}

func TestChooseDateNoCategories(t *testing.T) {
	s := startedSession()
	if err := s.ChooseDate(testToday, testToday, nil); !errors.Is(err, ErrNoCategories) {
		t.Errorf("ожидалась ErrNoCategories, получили %v", err)
	}
}

func TestParseQuantity(t *testing.T) {
	// Штучные работы: только целое
	q, err := ParseQuantity("25", catalog.UnitPiece)
	if err != nil || !q.Equal(decimal.NewFromInt(25)) {
		t.Errorf("целое для штучной: q=%v err=%v", q, err)
	}
	for _, bad := range []string{"12.5", "12,5", "0", "-3", "abc", ""} {
		if _, err := ParseQuantity(bad, catalog.UnitPiece); err == nil {
			t.Errorf("ParseQuantity(%q, piece): ожидалась ошибка", bad)
		}
	}

	// Площадные: дробь с точкой или запятой
	q, err = ParseQuantity("12.5", catalog.UnitArea)
	if err != nil || !q.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("точка для площадной: q=%v err=%v", q, err)
	}
	q, err = ParseQuantity("12,5", catalog.UnitArea)
	if err != nil || !q.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("запятая для площадной: q=%v err=%v", q, err)
	}
	for _, bad := range []string{"0", "-1.5", "x"} {
		if _, err := ParseQuantity(bad, catalog.UnitArea); err == nil {
			t.Errorf("ParseQuantity(%q, area): ожидалась ошибка", bad)
		}
	}
}

func TestEnterQuantityThreshold(t *testing.T) {
	// 20 × 500 = 10000 — ровно порог, подтверждение НЕ нужно
	s := startedSession()
	s.ChooseDate(testToday, testToday, []*catalog.Category{catSofa})
	s.ChooseWork(itemPiece)

	needConfirm, err := s.EnterQuantity("20")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if needConfirm {
		t.Error("сумма ровно 10000 не должна требовать подтверждения")
	}
	if !s.Total.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("Total = %v, ожидалось 10000", s.Total)
	}

	// 21 × 500 = 10500 — строго больше порога, нужно подтверждение
	s = startedSession()
	s.ChooseDate(testToday, testToday, []*catalog.Category{catSofa})
	s.ChooseWork(itemPiece)

	needConfirm, err = s.EnterQuantity("21")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if !needConfirm {
		t.Error("сумма выше 10000 должна требовать подтверждения")
	}
	if s.State != StateConfirmingLarge {
		t.Errorf("ожидалось StateConfirmingLarge, состояние %v", s.State)
	}
}

func TestEditAfterConfirmation(t *testing.T) {
	s := startedSession()
	s.ChooseDate(testToday, testToday, []*catalog.Category{catSofa})
	s.ChooseWork(itemPiece)
	s.EnterQuantity("100") // 50000 — подтверждение

	if err := s.RequestEdit(); err != nil {
		t.Fatalf("возврат к вводу: %v", err)
	}
	if s.State != StateEnteringQuantity {
		t.Errorf("ожидался повторный ввод количества, состояние %v", s.State)
	}

	// Новое количество ниже порога — подтверждение не нужно
	needConfirm, err := s.EnterQuantity("10")
	if err != nil || needConfirm {
		t.Errorf("5000 не требует подтверждения: confirm=%v err=%v", needConfirm, err)
	}
	if !s.Total.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Total = %v, ожидалось 5000", s.Total)
	}
}

func TestFullWalkthrough(t *testing.T) {
	s := startedSession()

	if err := s.RequestCustomDate(); err != nil {
		t.Fatalf("запрос произвольной даты: %v", err)
	}
	if s.State != StateEnteringCustomDate {
		t.Fatalf("ожидался ввод даты, состояние %v", s.State)
	}

	d := testToday.AddDate(0, 0, -2)
	if err := s.ChooseDate(d, testToday, []*catalog.Category{catSofa, catChair}); err != nil {
		t.Fatalf("выбор даты: %v", err)
	}
	if err := s.ChooseCategory("sofa"); err != nil {
		t.Fatalf("выбор категории: %v", err)
	}
	if err := s.ChooseWork(itemPiece); err != nil {
		t.Fatalf("выбор работы: %v", err)
	}

	// 25 × 500 = 12500 — требуется подтверждение
	needConfirm, err := s.EnterQuantity("25")
	if err != nil {
		t.Fatalf("ввод количества: %v", err)
	}
	if !needConfirm {
		t.Error("12500 должна требовать подтверждения")
	}
	if !s.Total.Equal(decimal.NewFromInt(12500)) {
		t.Errorf("Total = %v, ожидалось 12500", s.Total)
	}
	if !s.WorkDate.Equal(d) {
		t.Errorf("WorkDate = %v, ожидалось %v", s.WorkDate, d)
	}
}

func TestWrongStateTransitions(t *testing.T) {
	s := &Session{} // StateIdle

	if err := s.ChooseCategory("sofa"); !errors.Is(err, ErrWrongState) {
		t.Errorf("ChooseCategory из Idle: %v", err)
	}
	if err := s.ChooseWork(itemPiece); !errors.Is(err, ErrWrongState) {
		t.Errorf("ChooseWork из Idle: %v", err)
	}
	if _, err := s.EnterQuantity("5"); !errors.Is(err, ErrWrongState) {
		t.Errorf("EnterQuantity из Idle: %v", err)
	}
	if err := s.RequestEdit(); !errors.Is(err, ErrWrongState) {
		t.Errorf("RequestEdit из Idle: %v", err)
	}
}

func TestAreaQuantityTotal(t *testing.T) {
	s := startedSession()
	s.ChooseDate(testToday, testToday, []*catalog.Category{catSofa})
	s.ChooseWork(itemArea)

	// 12.5 м² × 200 = 2500, точно, без плавающей точки
	needConfirm, err := s.EnterQuantity("12,5")
	if err != nil {
		t.Fatalf("ввод площади: %v", err)
	}
	if needConfirm {
		t.Error("2500 не требует подтверждения")
	}
	if !s.Total.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("Total = %v, ожидалось 2500", s.Total)
	}
}

func TestSessionStore(t *testing.T) {
	st := NewSessionStore()
	if st.Get(42) != nil {
		t.Error("пустое хранилище должно возвращать nil")
	}

	s := st.Start(42)
	if s.State != StateChoosingDate {
		t.Errorf("новая сессия должна начинаться с выбора даты: %v", s.State)
	}
	if st.Get(42) != s {
		t.Error("Get должен возвращать ту же сессию")
	}

	// Повторный Start сбрасывает диалог
	s2 := st.Start(42)
	if s2 == s {
		t.Error("повторный Start должен создавать новую сессию")
	}

	st.Clear(42)
	if st.Get(42) != nil {
		t.Error("после Clear сессии быть не должно")
	}
}
