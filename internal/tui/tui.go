// Package tui is the terminal storefront: a catalog pane and a cart pane
// driven by the cart in the caller's provider scope.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/gomarketplace/internal/cart"
	"github.com/Makepad-fr/gomarketplace/internal/model"
	"github.com/Makepad-fr/gomarketplace/internal/ui"
)

type pane int

const (
	catalogPane pane = iota
	cartPane
)

// productItem adapts a Product to bubbles/list.Item
type productItem struct {
	model.Product
	inCart bool
}

func (i productItem) FilterValue() string { return i.Title }

// single-line rows
type productDelegate struct{}

func (d productDelegate) Height() int                               { return 1 }
func (d productDelegate) Spacing() int                              { return 0 }
func (d productDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d productDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(productItem)

	var line string
	if it.inCart {
		line = fmt.Sprintf("%s %s %s",
			accentStyle.Render(fmt.Sprintf("%3d", it.Quantity)),
			it.Title,
			priceStyle.Render(ui.Money(it.Price*float64(it.Quantity))))
	} else {
		line = fmt.Sprintf("%s %s", it.Title, priceStyle.Render(ui.Money(it.Price)))
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type snapshotMsg []model.Product

// worker applies cart mutations one at a time, in the order Update queued
// them. tea.Cmds run on their own goroutines and could reorder taps.
type worker struct {
	ops  chan func()
	done chan struct{}
	once sync.Once
}

func newWorker() *worker {
	w := &worker{
		ops:  make(chan func(), 64),
		done: make(chan struct{}),
	}
	go func() {
		defer close(w.done)
		for op := range w.ops {
			op()
		}
	}()
	return w
}

func (w *worker) enqueue(op func()) { w.ops <- op }

// stop waits for every queued mutation to finish.
func (w *worker) stop() {
	w.once.Do(func() { close(w.ops) })
	<-w.done
}

// Model implements tea.Model.
type Model struct {
	ctx  context.Context
	cart cart.Cart

	catalog list.Model
	lines   list.Model
	focus   pane
	status  string

	updates     chan []model.Product
	unsubscribe func()
	worker      *worker

	width, height int
}

var (
	addKey  = key.NewBinding(key.WithKeys("enter", "a"), key.WithHelp("enter", "add to cart"))
	incKey  = key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "increment"))
	decKey  = key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "decrement"))
	tabKey  = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane"))
	quitKey = key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit"))
)

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, productDelegate{}, 0, 0)
	l.Title = title
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

// New builds the storefront for the cart in ctx's provider scope. It
// panics with cart.ErrNoProvider when there is none.
func New(ctx context.Context, products []model.Product) Model {
	c := cart.Use(ctx)

	items := make([]list.Item, 0, len(products))
	for _, p := range products {
		items = append(items, productItem{Product: p})
	}

	m := Model{
		ctx:     ctx,
		cart:    c,
		catalog: newList("Catalog", items),
		lines:   newList("Cart", cartItems(c.Products())),
		updates: make(chan []model.Product, 1),
		worker:  newWorker(),
		width:   80,
		height:  24,
	}
	updates := m.updates
	m.unsubscribe = c.Subscribe(func(p []model.Product) {
		// keep only the newest snapshot; the view needs nothing older
		select {
		case updates <- p:
		default:
			select {
			case <-updates:
			default:
			}
			updates <- p
		}
	})
	m.resize()
	return m
}

func cartItems(products []model.Product) []list.Item {
	items := make([]list.Item, 0, len(products))
	for _, p := range products {
		items = append(items, productItem{Product: p, inCart: true})
	}
	return items
}

func waitForSnapshot(ch <-chan []model.Product) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-ch)
	}
}

// Close finishes queued mutations and stops listening to the cart. Call it
// before releasing the cart's storage.
func (m Model) Close() {
	m.worker.stop()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) Init() tea.Cmd { return waitForSnapshot(m.updates) }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		idx := m.lines.Index()
		cmd := m.lines.SetItems(cartItems(msg))
		if idx < len(msg) {
			m.lines.Select(idx)
		}
		return m, tea.Batch(cmd, waitForSnapshot(m.updates))

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, quitKey):
			return m, tea.Quit

		case key.Matches(msg, tabKey):
			if m.focus == catalogPane {
				m.focus = cartPane
			} else {
				m.focus = catalogPane
			}
			return m, nil

		case key.Matches(msg, addKey) && m.focus == catalogPane:
			it, ok := m.catalog.SelectedItem().(productItem)
			if !ok {
				return m, nil
			}
			m.status = "added " + it.Title
			p := it.Product
			m.worker.enqueue(func() { m.cart.AddToCart(m.ctx, p) })
			return m, nil

		case key.Matches(msg, incKey) && m.focus == cartPane:
			if it, ok := m.lines.SelectedItem().(productItem); ok {
				id := it.ID
				m.worker.enqueue(func() { m.cart.Increment(m.ctx, id) })
			}
			return m, nil

		case key.Matches(msg, decKey) && m.focus == cartPane:
			if it, ok := m.lines.SelectedItem().(productItem); ok {
				id := it.ID
				m.worker.enqueue(func() { m.cart.Decrement(m.ctx, id) })
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == catalogPane {
		m.catalog, cmd = m.catalog.Update(msg)
	} else {
		m.lines, cmd = m.lines.Update(msg)
	}
	return m, cmd
}

func (m *Model) resize() {
	// two panes side by side; borders and padding take 4 columns each
	paneW := m.width/2 - 4
	if paneW < 20 {
		paneW = 20
	}
	listH := m.height - 6
	if listH < 3 {
		listH = 3
	}
	m.catalog.SetSize(paneW, listH)
	m.lines.SetSize(paneW, listH)
}

func (m Model) View() string {
	products := m.cart.Products()
	sum := model.Summarize(products)

	header := fmt.Sprintf("%s   %s %d  %s %s",
		titleStyle.Render("GoMarketplace"),
		accentStyle.Render("Items"), sum.Items,
		accentStyle.Render("Total"), priceStyle.Render(ui.Money(sum.Total)),
	)

	left, right := paneStyle, paneStyle
	if m.focus == catalogPane {
		left = focusedPaneStyle
	} else {
		right = focusedPaneStyle
	}
	cartView := m.lines.View()
	if len(products) == 0 {
		cartView = titleStyle.Render("Cart") + "\n\n" + mutedStyle.Render("cart is empty")
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		left.Render(m.catalog.View()),
		right.Render(cartView),
	)

	help := []string{}
	for _, b := range []key.Binding{tabKey, addKey, incKey, decKey, quitKey} {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	footer := helpStyle.Render(strings.Join(help, " • "))
	if m.status != "" {
		footer = okStyle.Render("✔ "+m.status) + "  " + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Run shows the storefront until the user quits.
func Run(ctx context.Context, products []model.Product) error {
	m := New(ctx, products)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
