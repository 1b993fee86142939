package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/gomarketplace/internal/cart"
	"github.com/Makepad-fr/gomarketplace/internal/model"
	"github.com/Makepad-fr/gomarketplace/internal/store/memstore"
)

var testCatalog = []model.Product{
	{ID: "a", Title: "Mug", ImageURL: "u", Price: 10},
	{ID: "b", Title: "Shoe", ImageURL: "v", Price: 5},
}

func setup(t *testing.T) (Model, *cart.Store) {
	t.Helper()
	s := cart.New(memstore.New())
	ctx := cart.Provide(context.Background(), s)
	m := New(ctx, testCatalog)
	t.Cleanup(m.Close)
	return m, s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers msg without waiting for any cart change.
func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

// press delivers a mutating key and feeds the resulting snapshot back.
func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	m = send(m, msg)
	next, _ := m.Update(waitForSnapshot(m.updates)())
	return next.(Model)
}

func TestNew_OutsideProviderPanics(t *testing.T) {
	assert.PanicsWithValue(t, cart.ErrNoProvider, func() {
		New(context.Background(), testCatalog)
	})
}

func TestAddFromCatalog(t *testing.T) {
	m, s := setup(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, s.Products(), 1)
	assert.Equal(t, 2, s.Products()[0].Quantity)
	assert.Equal(t, "added Mug", m.status)
	require.Len(t, m.lines.Items(), 1)
	assert.Equal(t, 2, m.lines.Items()[0].(productItem).Quantity)
}

func TestIncrementDecrementInCartPane(t *testing.T) {
	m, s := setup(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, cartPane, m.focus)

	m = press(t, m, runes("+"))
	m = press(t, m, runes("+"))
	assert.Equal(t, 3, s.Products()[0].Quantity)

	m = press(t, m, runes("-"))
	m = press(t, m, runes("-"))
	m = press(t, m, runes("-"))
	assert.Equal(t, 1, s.Products()[0].Quantity)
	assert.Equal(t, 1, m.lines.Items()[0].(productItem).Quantity)
}

func TestPlusIgnoredInCatalogPane(t *testing.T) {
	m, s := setup(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	send(m, runes("+"))
	m.Close()
	assert.Equal(t, 1, s.Products()[0].Quantity)
}

func TestTapsApplyInOrder(t *testing.T) {
	for i := 0; i < 20; i++ {
		m, s := setup(t)
		m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		m = send(m, tea.KeyMsg{Type: tea.KeyTab})

		// at quantity 1 the decrement is a no-op, then the increment lands
		m = send(m, runes("-"))
		m = send(m, runes("+"))
		m.Close()

		require.Equal(t, 2, s.Products()[0].Quantity)
	}
}

func TestClose_FinishesQueuedWrites(t *testing.T) {
	storage := memstore.New()
	s := cart.New(storage)
	ctx := cart.Provide(context.Background(), s)
	m := New(ctx, testCatalog)

	for i := 0; i < 10; i++ {
		m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	}
	m.Close()

	fresh := cart.New(storage)
	fresh.Load(context.Background())
	require.Len(t, fresh.Products(), 1)
	assert.Equal(t, 10, fresh.Products()[0].Quantity)
}

func TestExternalChangeReachesView(t *testing.T) {
	m, s := setup(t)

	s.AddToCart(context.Background(), testCatalog[1])
	next, _ := m.Update(waitForSnapshot(m.updates)())
	m = next.(Model)

	require.Len(t, m.lines.Items(), 1)
	assert.Contains(t, m.View(), "Shoe")
}

func TestQuit(t *testing.T) {
	m, _ := setup(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView_EmptyCart(t *testing.T) {
	m, _ := setup(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	v := next.(Model).View()
	assert.Contains(t, v, "GoMarketplace")
	assert.Contains(t, v, "cart is empty")
	assert.Contains(t, v, "Mug")
}
