package config

import (
	"strings"
	"testing"

	"github.com/nhle/planner/internal/model"
)

func TestValidateMinutes(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"25", false},
		{" 50 ", false},
		{"0", true},
		{"-5", true},
		{"abc", true},
		{"181", true},
	}
	for _, tt := range tests {
		if err := validateMinutes(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("validateMinutes(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestStartAndResult(t *testing.T) {
	m := New(80, 24)
	base := *model.DefaultAppConfig()
	m.Start(base)

	if !m.Active() || !strings.Contains(m.View(), "Settings") {
		t.Fatal("form should be open")
	}
	if m.fb.minutes != "25" || m.fb.weekStart != model.WeekStartSunday || !m.fb.persistTasks {
		t.Fatalf("bindings not pre-filled: %+v", m.fb)
	}

	m.fb.weekStart = model.WeekStartMonday
	m.fb.minutes = "45"
	m.fb.persistTasks = false

	got := m.result()
	if got.Calendar.WeekStart != model.WeekStartMonday || got.Pomodoro.Minutes != 45 || got.Storage.PersistTasks {
		t.Errorf("result = %+v", got)
	}
	if got.Storage.DBPath != base.Storage.DBPath {
		t.Error("fields outside the form must be kept")
	}
}
