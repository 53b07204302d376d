package reminders

import "testing"

func TestParseHHMM(t *testing.T) {
	h, m, err := ParseHHMM("19:30")
	if err != nil || h != 19 || m != 30 {
		t.Errorf("19:30: h=%d m=%d err=%v", h, m, err)
	}
	h, m, err = ParseHHMM(" 08:05 ")
	if err != nil || h != 8 || m != 5 {
		t.Errorf("08:05: h=%d m=%d err=%v", h, m, err)
	}
	for _, bad := range []string{"", "25:00", "12:60", "1230", "12:３0", "abc:def"} {
		if _, _, err := ParseHHMM(bad); err == nil {
			t.Errorf("ParseHHMM(%q): ожидалась ошибка", bad)
		}
	}
}

func TestCronSpec(t *testing.T) {
	spec, err := CronSpec("18:00")
	if err != nil || spec != "0 18 * * *" {
		t.Errorf("18:00: spec=%q err=%v", spec, err)
	}
	spec, err = CronSpec("09:45")
	if err != nil || spec != "45 9 * * *" {
		t.Errorf("09:45: spec=%q err=%v", spec, err)
	}
	if _, err := CronSpec("24:00"); err == nil {
		t.Error("24:00 должна давать ошибку")
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.EveningTime != "18:00" || s.LateTime != "20:00" || s.ReportTime != "21:00" {
		t.Errorf("времена по умолчанию: %+v", s)
	}
	if !s.EveningEnabled || !s.LateEnabled || !s.ReportEnabled {
		t.Errorf("всё должно быть включено по умолчанию: %+v", s)
	}
}
