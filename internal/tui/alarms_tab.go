// alarms_tab.go renders wall-clock alarms as a list with inline add,
// enable/disable and delete actions.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tomo-dev/tomo/internal/store"
)

// ============================================================================
// alarmItem
// ============================================================================

// alarmItem implements list.Item for the alarm list.
type alarmItem struct {
	alarm store.Alarm
}

// Title returns the alarm time and label for list display.
func (i alarmItem) Title() string {
	if i.alarm.Label == "" {
		return i.alarm.TimeOfDay
	}
	return i.alarm.TimeOfDay + "  " + i.alarm.Label
}

// Description returns the repeat mode and enabled state for list display.
func (i alarmItem) Description() string {
	kind := "daily"
	if !i.alarm.Repeat {
		kind = "once"
	}
	state := "enabled"
	if !i.alarm.Enabled {
		state = "disabled"
	}
	return kind + " · " + state
}

// FilterValue returns the value used for filtering in the list.
func (i alarmItem) FilterValue() string {
	return i.alarm.TimeOfDay + " " + i.alarm.Label
}

// ============================================================================
// alarmsModel
// ============================================================================

// alarmsModel is the view model for the alarms tab.
type alarmsModel struct {
	list   list.Model
	input  textinput.Model
	adding bool
	err    error

	store *store.Store
	sound string // default sound for new alarms
}

func newAlarmsModel(st *store.Store, sound string) alarmsModel {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color(primaryColor)).
		BorderForeground(lipgloss.Color(primaryColor))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("#9CA3AF"))

	l := list.New([]list.Item{}, delegate, contentWidth, contentHeight)
	l.Title = "Alarms"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.Placeholder = "HH:MM label [once]..."
	ti.CharLimit = 80
	ti.Width = contentWidth - 4

	return alarmsModel{
		list:  l,
		input: ti,
		store: st,
		sound: sound,
	}
}

// editing reports whether the add input owns the keyboard.
func (m alarmsModel) editing() bool {
	return m.adding
}

// setAlarms rebuilds the list items from a fresh load.
func (m *alarmsModel) setAlarms(alarms []store.Alarm) {
	items := make([]list.Item, len(alarms))
	for i, a := range alarms {
		items[i] = alarmItem{alarm: a}
	}
	m.list.SetItems(items)
}

// Update handles messages for the alarms tab.
func (m alarmsModel) Update(msg tea.Msg) (alarmsModel, tea.Cmd) {
	var cmd tea.Cmd

	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey && m.adding {
		keys := DefaultKeyMap
		switch {
		case key.Matches(keyMsg, keys.Select):
			value := strings.TrimSpace(m.input.Value())
			m.adding = false
			m.input.Reset()
			m.input.Blur()
			if value == "" {
				return m, nil
			}
			// First field is the time of day, the rest is the label. A
			// trailing "once" makes the alarm one-shot instead of daily.
			fields := strings.Fields(value)
			timeOfDay := fields[0]
			rest := fields[1:]
			repeat := true
			if n := len(rest); n > 0 && strings.EqualFold(rest[n-1], "once") {
				repeat = false
				rest = rest[:n-1]
			}
			label := strings.Join(rest, " ")
			st, sound := m.store, m.sound
			return m, func() tea.Msg {
				a, err := st.CreateAlarm(timeOfDay, label, sound, repeat)
				if err != nil {
					return ActionDoneMsg{Err: err}
				}
				if !a.Repeat {
					return ActionDoneMsg{Note: "Added one-shot alarm at " + a.TimeOfDay}
				}
				return ActionDoneMsg{Note: "Added alarm at " + a.TimeOfDay}
			}

		case key.Matches(keyMsg, keys.Cancel):
			m.adding = false
			m.input.Reset()
			m.input.Blur()
			return m, nil
		}

		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if isKey {
		keys := DefaultKeyMap
		switch {
		case key.Matches(keyMsg, keys.Add):
			m.adding = true
			m.input.Focus()
			return m, textinput.Blink

		case key.Matches(keyMsg, keys.Toggle):
			if item, ok := m.list.SelectedItem().(alarmItem); ok {
				st := m.store
				return m, func() tea.Msg {
					if err := st.SetAlarmEnabled(item.alarm.ID, !item.alarm.Enabled); err != nil {
						return ActionDoneMsg{Err: err}
					}
					verb := "Enabled"
					if item.alarm.Enabled {
						verb = "Disabled"
					}
					return ActionDoneMsg{Note: verb + " alarm at " + item.alarm.TimeOfDay}
				}
			}
			return m, nil

		case key.Matches(keyMsg, keys.Delete):
			if item, ok := m.list.SelectedItem().(alarmItem); ok {
				st := m.store
				return m, func() tea.Msg {
					if err := st.DeleteAlarm(item.alarm.ID); err != nil {
						return ActionDoneMsg{Err: err}
					}
					return ActionDoneMsg{Note: "Removed alarm at " + item.alarm.TimeOfDay}
				}
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the alarms tab.
func (m alarmsModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render("Alarms unavailable: " + m.err.Error())
	}

	var b strings.Builder
	if m.adding {
		b.WriteString("New alarm: ")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	if len(m.list.Items()) == 0 && !m.adding {
		b.WriteString(DimStyle.Render("No alarms yet. Press a to add one."))
	} else {
		b.WriteString(m.list.View())
	}
	return b.String()
}
