package jobs

import (
	"testing"
	"time"
)

func TestSchedulerAddRemove(t *testing.T) {
	s := NewScheduler(time.UTC)

	if err := s.Add("job", "0 18 * * *", func() {}); err != nil {
		t.Fatalf("регистрация задачи: %v", err)
	}
	if len(s.entries) != 1 {
		t.Fatalf("ожидалась одна задача, есть %d", len(s.entries))
	}

	// Перерегистрация под тем же именем заменяет, а не дублирует
	if err := s.Add("job", "30 19 * * *", func() {}); err != nil {
		t.Fatalf("перерегистрация: %v", err)
	}
	if len(s.entries) != 1 {
		t.Fatalf("после перерегистрации должна остаться одна задача, есть %d", len(s.entries))
	}

	s.Remove("job")
	if len(s.entries) != 0 {
		t.Fatalf("после снятия задач быть не должно, есть %d", len(s.entries))
	}

	// Снятие отсутствующей задачи — no-op
	s.Remove("missing")
}

func TestSchedulerBadSpec(t *testing.T) {
	s := NewScheduler(time.UTC)
	if err := s.Add("bad", "не крон", func() {}); err == nil {
		t.Error("некорректное выражение должно давать ошибку")
	}
	if len(s.entries) != 0 {
		t.Error("неудачная регистрация не должна оставлять записей")
	}
}
