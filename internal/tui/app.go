package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muderick/searchfav/internal/favorites"
	"github.com/muderick/searchfav/internal/items"
	"github.com/muderick/searchfav/internal/search"
	"go.uber.org/zap"
)

type focusPane int

const (
	focusSearch focusPane = iota
	focusResults
	focusFavorites
	focusCount
)

func (f focusPane) String() string {
	switch f {
	case focusResults:
		return "results"
	case focusFavorites:
		return "favorites"
	default:
		return "search"
	}
}

// App is the root model. It owns the search controller and the favorites set;
// the render functions only read from them.
type App struct {
	ctrl      *search.Controller
	favs      *favorites.Set
	debouncer *search.Debouncer
	log       *zap.Logger

	// send delivers messages from outside the event loop (debounce timer).
	send func(tea.Msg)

	// ctx is cancelled on quit and bounds every fetch.
	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int

	searchInput textinput.Model
	spinner     spinner.Model
	help        help.Model
	keys        keyMap

	focus        focusPane
	resultCursor int
	favCursor    int

	// err holds the last favorites write failure.
	err error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Controller *search.Controller
	Favorites  *favorites.Set
	Debounce   time.Duration
	Logger     *zap.Logger
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search items..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		ctx:         ctx,
		cancel:      cancel,
		ctrl:        opts.Controller,
		favs:        opts.Favorites,
		log:         log,
		searchInput: ti,
		spinner:     sp,
		help:        help.New(),
		keys:        newKeyMap(),
		focus:       focusSearch,
	}
	a.debouncer = search.NewDebouncer(opts.Debounce, a.settle)
	return a
}

// settle runs on the debounce timer goroutine.
func (a *App) settle(term string) {
	if a.send != nil {
		a.send(querySettledMsg{term: term})
	}
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// fetchCmd captures the request so the closure never reads live state.
func (a *App) fetchCmd(req search.Request) tea.Cmd {
	ctrl, ctx := a.ctrl, a.ctx
	return func() tea.Msg {
		return resultsMsg{res: ctrl.Run(ctx, req)}
	}
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.debouncer.Stop()
	a.cancel()
	return a, tea.Quit
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case querySettledMsg:
		req, ok := a.ctrl.Settle(msg.term)
		a.resultCursor = 0
		if !ok {
			return a, nil
		}
		return a, tea.Batch(a.fetchCmd(req), a.spinner.Tick)

	case resultsMsg:
		if a.ctrl.Commit(msg.res) {
			a.resultCursor = clampCursor(a.resultCursor, len(a.ctrl.State().Results))
		}
		return a, nil

	case spinner.TickMsg:
		if a.ctrl.State().Loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.focus == focusSearch {
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) setFocus(f focusPane) tea.Cmd {
	a.focus = f
	if f == focusSearch {
		return a.searchInput.Focus()
	}
	a.searchInput.Blur()
	return nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return a.quit()
	case "tab":
		return a, a.setFocus((a.focus + 1) % focusCount)
	case "shift+tab":
		return a, a.setFocus((a.focus + focusCount - 1) % focusCount)
	}

	switch a.focus {
	case focusSearch:
		return a.handleSearchKey(msg)
	case focusResults:
		return a.handleResultsKey(msg)
	case focusFavorites:
		return a.handleFavoritesKey(msg)
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Clear) {
		if a.searchInput.Value() != "" {
			a.searchInput.SetValue("")
			a.debouncer.Push("")
		}
		return a, nil
	}

	before := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	// Only value changes count as keystrokes, not cursor moves
	if v := a.searchInput.Value(); v != before {
		a.debouncer.Push(v)
	}
	return a, cmd
}

func (a *App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	results := a.ctrl.State().Results
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit()
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, a.keys.Search):
		return a, a.setFocus(focusSearch)
	case key.Matches(msg, a.keys.Up):
		if a.resultCursor > 0 {
			a.resultCursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.resultCursor < len(results)-1 {
			a.resultCursor++
		}
	case key.Matches(msg, a.keys.Add):
		if a.resultCursor < len(results) {
			a.addFavorite(results[a.resultCursor])
		}
	}
	return a, nil
}

func (a *App) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	favs := a.favs.Items()
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit()
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, a.keys.Search):
		return a, a.setFocus(focusSearch)
	case key.Matches(msg, a.keys.Up):
		if a.favCursor > 0 {
			a.favCursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.favCursor < len(favs)-1 {
			a.favCursor++
		}
	case key.Matches(msg, a.keys.Remove):
		if a.favCursor < len(favs) {
			a.removeFavorite(favs[a.favCursor].ID)
		}
	}
	return a, nil
}

// addFavorite is a no-op for items already in the set; the control is
// rendered disabled for them.
func (a *App) addFavorite(it items.Item) {
	if a.favs.Contains(it.ID) {
		return
	}
	_, err := a.favs.Add(context.Background(), it)
	a.err = err
}

func (a *App) removeFavorite(id int64) {
	_, err := a.favs.Remove(context.Background(), id)
	a.err = err
	a.favCursor = clampCursor(a.favCursor, a.favs.Len())
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  searchfav")
	}

	state := a.ctrl.State()

	header := headerStyle.Render("Search and Favorites App")
	input := a.searchInput.View()

	var errLine string
	if state.Err != "" {
		errLine = errorStyle.Render("Error: " + state.Err)
	} else if a.err != nil {
		errLine = errorStyle.Render("Error: " + a.err.Error())
	}

	helpView := a.help.View(a.keys)
	status := renderStatusBar(len(state.Results), a.favs.Len(), "focus: "+a.focus.String(), a.width)

	// header, input, error, pane titles, borders, status, help
	chrome := 1 + 1 + 1 + 1 + 2 + 1 + lipgloss.Height(helpView)
	contentHeight := a.height - chrome
	if contentHeight < 4 {
		contentHeight = 4
	}

	leftWidth := a.width / 2
	rightWidth := a.width - leftWidth
	innerLeft := leftWidth - 4
	innerRight := rightWidth - 4

	left := a.renderResultsPane(state, contentHeight, innerLeft)
	right := a.renderFavoritesPane(contentHeight, innerRight)

	leftStyle, rightStyle := paneStyle, paneStyle
	if a.focus == focusResults {
		leftStyle = paneActiveStyle
	}
	if a.focus == focusFavorites {
		rightStyle = paneActiveStyle
	}

	leftPane := leftStyle.Width(leftWidth - 2).Height(contentHeight + 1).Render(
		paneTitleStyle.Render("Search Results") + "\n" + left)
	rightPane := rightStyle.Width(rightWidth - 2).Height(contentHeight + 1).Render(
		paneTitleStyle.Render("Favorites") + "\n" + right)

	content := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	return lipgloss.JoinVertical(lipgloss.Left, header, input, errLine, content, status, helpView)
}

func (a *App) renderResultsPane(state search.State, height, width int) string {
	if state.Loading {
		return a.spinner.View() + " " + loadingText
	}
	if len(state.Results) == 0 {
		return emptyStyle.Render(truncateStr(emptyResults, width))
	}
	return renderList(state.Results, a.resultCursor, a.focus == focusResults, height, width,
		func(it items.Item) string { return resultAction(a.favs.Contains(it.ID)) })
}

func (a *App) renderFavoritesPane(height, width int) string {
	favs := a.favs.Items()
	if len(favs) == 0 {
		return emptyStyle.Render(emptyFavs)
	}
	return renderList(favs, a.favCursor, a.focus == focusFavorites, height, width,
		func(items.Item) string { return favoriteAction() })
}

// Run starts the TUI application. The debouncer is stopped and in-flight
// fetches are cancelled on the way out.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	app.send = p.Send
	defer app.debouncer.Stop()
	defer app.cancel()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
