package cli

import "github.com/charmbracelet/bubbles/key"

type timelineKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Today       key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	ZoomReset   key.Binding
	DayView     key.Binding
	WeekView    key.Binding
	Toggle      key.Binding
	Select      key.Binding
	SelectAll   key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	ShiftEarly  key.Binding
	ShiftLate   key.Binding
	Escape      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultTimelineKeyMap() timelineKeyMap {
	return timelineKeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "earlier")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "later")),
		Today:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		ZoomReset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),
		DayView:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "day view")),
		WeekView:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "week view")),
		Toggle:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "collapse")),
		Select:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "select")),
		SelectAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
		ShiftEarly:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "shift -1d")),
		ShiftLate:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "shift +1d")),
		Escape:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel/clear")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k timelineKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.ZoomIn, k.ZoomOut, k.WeekView, k.Escape, k.Help, k.Quit}
}

func (k timelineKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Today},
		{k.ZoomIn, k.ZoomOut, k.ZoomReset, k.DayView, k.WeekView},
		{k.Toggle, k.Select, k.SelectAll, k.ExpandAll, k.CollapseAll},
		{k.ShiftEarly, k.ShiftLate, k.Escape, k.Help, k.Quit},
	}
}
