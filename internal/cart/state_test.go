package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Makepad-fr/gomarketplace/internal/model"
)

func TestAddState_DoesNotTouchInput(t *testing.T) {
	old := []model.Product{{ID: "a", Quantity: 1}}

	got := addState(old, model.Product{ID: "a"})
	assert.Equal(t, 2, got[0].Quantity)
	assert.Equal(t, 1, old[0].Quantity)

	got = addState(old, model.Product{ID: "b", Quantity: 9})
	assert.Len(t, got, 2)
	assert.Equal(t, 1, got[1].Quantity)
	assert.Len(t, old, 1)
}

func TestDecrementState(t *testing.T) {
	old := []model.Product{{ID: "a", Quantity: 3}, {ID: "b", Quantity: 1}}

	got := decrementState(old, "a")
	assert.Equal(t, []model.Product{{ID: "a", Quantity: 2}, {ID: "b", Quantity: 1}}, got)

	got = decrementState(old, "b")
	assert.Equal(t, old, got)

	got = decrementState(old, "zzz")
	assert.Equal(t, old, got)
}

func TestIncrementState_NoUpperBound(t *testing.T) {
	old := []model.Product{{ID: "a", Quantity: 1 << 20}}
	assert.Equal(t, 1<<20+1, incrementState(old, "a")[0].Quantity)
}
