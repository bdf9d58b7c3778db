// tasks_tab.go renders the task backlog as a filterable list with inline
// add, done and delete actions.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tomo-dev/tomo/internal/store"
	"github.com/tomo-dev/tomo/internal/timer"
)

// ============================================================================
// taskItem
// ============================================================================

// taskItem implements list.Item for the task list.
type taskItem struct {
	task      store.Task
	completed int // completed focus sessions attributed to this task
}

// Title returns the task title with a done marker for list display.
func (i taskItem) Title() string {
	if i.task.Done {
		return IconDone + " " + i.task.Title
	}
	return i.task.Title
}

// Description returns progress and age for list display.
func (i taskItem) Description() string {
	var progress string
	if i.task.EstimatedPomodoros > 0 {
		progress = fmt.Sprintf("%d/%d pomodoros", i.completed, i.task.EstimatedPomodoros)
	} else {
		progress = fmt.Sprintf("%d pomodoro(s)", i.completed)
	}
	return fmt.Sprintf("%s · added %s", progress, i.task.CreatedAt.Format("Jan 02"))
}

// FilterValue returns the value used for filtering in the list.
func (i taskItem) FilterValue() string {
	return i.task.Title
}

// ============================================================================
// tasksModel
// ============================================================================

// tasksModel is the view model for the tasks tab.
type tasksModel struct {
	list      list.Model
	input     textinput.Model
	adding    bool
	completed map[string]int
	err       error

	store   *store.Store
	machine *timer.Machine
}

func newTasksModel(st *store.Store, machine *timer.Machine) tasksModel {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color(primaryColor)).
		BorderForeground(lipgloss.Color(primaryColor))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("#9CA3AF"))

	l := list.New([]list.Item{}, delegate, contentWidth, contentHeight)
	l.Title = "Tasks"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.Placeholder = "Task title..."
	ti.CharLimit = 200
	ti.Width = contentWidth - 4

	return tasksModel{
		list:    l,
		input:   ti,
		store:   st,
		machine: machine,
	}
}

// editing reports whether the add input owns the keyboard.
func (m tasksModel) editing() bool {
	return m.adding || m.list.FilterState() == list.Filtering
}

// setTasks rebuilds the list items from a fresh load.
func (m *tasksModel) setTasks(tasks []store.Task) {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = taskItem{task: t, completed: m.completed[t.ID]}
	}
	m.list.SetItems(items)
}

// Update handles messages for the tasks tab.
func (m tasksModel) Update(msg tea.Msg) (tasksModel, tea.Cmd) {
	var cmd tea.Cmd

	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey && m.adding {
		keys := DefaultKeyMap
		switch {
		case key.Matches(keyMsg, keys.Select):
			title := strings.TrimSpace(m.input.Value())
			m.adding = false
			m.input.Reset()
			m.input.Blur()
			if title == "" {
				return m, nil
			}
			st := m.store
			return m, func() tea.Msg {
				// Quick add assumes a one-pomodoro estimate.
				if _, err := st.CreateTask(title, 1); err != nil {
					return ActionDoneMsg{Err: err}
				}
				return ActionDoneMsg{Note: "Added task: " + title}
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

	if isKey && m.list.FilterState() != list.Filtering {
		keys := DefaultKeyMap
		switch {
		case key.Matches(keyMsg, keys.Add):
			m.adding = true
			m.input.Focus()
			return m, textinput.Blink

		case key.Matches(keyMsg, keys.Toggle):
			if item, ok := m.list.SelectedItem().(taskItem); ok {
				st := m.store
				return m, func() tea.Msg {
					if err := st.SetTaskDone(item.task.ID, !item.task.Done); err != nil {
						return ActionDoneMsg{Err: err}
					}
					return ActionDoneMsg{Note: "Updated task: " + item.task.Title}
				}
			}
			return m, nil

		case key.Matches(keyMsg, keys.Delete):
			if item, ok := m.list.SelectedItem().(taskItem); ok {
				st := m.store
				return m, func() tea.Msg {
					if err := st.DeleteTask(item.task.ID); err != nil {
						return ActionDoneMsg{Err: err}
					}
					return ActionDoneMsg{Note: "Removed task: " + item.task.Title}
				}
			}
			return m, nil

		case key.Matches(keyMsg, keys.Select):
			if item, ok := m.list.SelectedItem().(taskItem); ok {
				m.machine.SetTask(item.task.ID)
				return m, func() tea.Msg {
					return ActionDoneMsg{Note: "Working on: " + item.task.Title}
				}
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the tasks tab.
func (m tasksModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render("Tasks unavailable: " + m.err.Error())
	}

	var b strings.Builder
	if m.adding {
		b.WriteString("New task: ")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	if len(m.list.Items()) == 0 && !m.adding {
		b.WriteString(DimStyle.Render("No tasks yet. Press a to add one."))
	} else {
		b.WriteString(m.list.View())
	}
	return b.String()
}
