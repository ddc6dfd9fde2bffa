package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/planner/internal/logging"
	"github.com/nhle/planner/internal/model"
	"github.com/nhle/planner/internal/ui/calendar"
)

// openSettings shows the settings form for the running configuration.
func (m *Model) openSettings() tea.Cmd {
	m.overlay = OverlaySettings
	return m.settings.Start(*m.cfg)
}

// applyConfig validates and writes cfg, then applies what can change while
// running. Task persistence takes effect on the next start.
func (m *Model) applyConfig(cfg model.AppConfig) {
	if err := cfg.Validate(); err != nil {
		m.setError(err)
		return
	}
	if m.configPath != "" {
		if err := writeSettings(m.configPath, *m.cfg, cfg); err != nil {
			m.setError(err)
			return
		}
	}

	restart := cfg.Storage.PersistTasks != m.cfg.Storage.PersistTasks
	m.cfg = &cfg
	m.calendar.SetWeekStart(calendar.WeekStartFromConfig(cfg.Calendar.WeekStart))
	m.pomodoro.SetMinutes(cfg.Pomodoro.Minutes)
	m.logger.SetLevel(logging.ParseLevel(cfg.Log.Level))
	m.logger.Info("settings changed", "path", m.configPath)

	if restart {
		m.setStatus("Settings saved. Task persistence changes apply on restart.")
		return
	}
	m.setStatus("Settings saved")
}

// writeSettings saves the fields that differ between before and after into
// the config file at path. Everything else keeps its file value, so env and
// flag overrides in the running config are not written.
func writeSettings(path string, before, after model.AppConfig) error {
	file, err := model.LoadFileConfig(path)
	if err != nil {
		return err
	}
	if after.Calendar.WeekStart != before.Calendar.WeekStart {
		file.Calendar.WeekStart = after.Calendar.WeekStart
	}
	if after.Pomodoro.Minutes != before.Pomodoro.Minutes {
		file.Pomodoro.Minutes = after.Pomodoro.Minutes
	}
	if after.Storage.PersistTasks != before.Storage.PersistTasks {
		file.Storage.PersistTasks = after.Storage.PersistTasks
	}
	if after.Log.Level != before.Log.Level {
		file.Log.Level = after.Log.Level
	}
	return model.SaveConfig(path, file)
}
