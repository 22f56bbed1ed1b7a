package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coresim/coresim/go/models"
)

func TestInsertAndLookup(t *testing.T) {
	tab := New()
	require.NoError(t, tab.Insert(models.Symbol{Name: "main", Addr: 0x1000, Binding: models.GlobalBinding}))
	require.NoError(t, tab.Insert(models.Symbol{Name: "helper", Addr: 0x1100, Binding: models.LocalBinding}))

	assert.Equal(t, 2, tab.Len())
	sym, ok := tab.ByName("main")
	require.True(t, ok)
	assert.Equal(t, models.Addr(0x1000), sym.Addr)

	_, ok = tab.ByName("missing")
	assert.False(t, ok)
}

func TestInsertDuplicateKeepsFirst(t *testing.T) {
	tab := New()
	require.NoError(t, tab.Insert(models.Symbol{Name: "sym", Addr: 0x1000, Binding: models.GlobalBinding}))
	require.NoError(t, tab.Insert(models.Symbol{Name: "sym", Addr: 0x2000, Binding: models.WeakBinding}))

	assert.Equal(t, 1, tab.Len())
	sym, _ := tab.ByName("sym")
	assert.Equal(t, models.Addr(0x1000), sym.Addr)
}

func TestInsertUnnamed(t *testing.T) {
	tab := New()
	require.Error(t, tab.Insert(models.Symbol{Addr: 0x1000}))
}

func TestFilter(t *testing.T) {
	tab := New()
	tab.Insert(models.Symbol{Name: "a", Addr: 1, Binding: models.GlobalBinding})
	tab.Insert(models.Symbol{Name: "b", Addr: 2, Binding: models.WeakBinding})
	tab.Insert(models.Symbol{Name: "c", Addr: 3, Binding: models.GlobalBinding})

	globals := tab.Filter(models.GlobalBinding)
	require.Len(t, globals, 2)
	assert.Equal(t, "a", globals[0].Name)
	assert.Equal(t, "c", globals[1].Name)
	assert.Empty(t, tab.Filter(models.LocalBinding))
}

func TestFindNearest(t *testing.T) {
	tab := New()
	tab.Insert(models.Symbol{Name: "start", Addr: 0x1000, Binding: models.GlobalBinding})
	tab.Insert(models.Symbol{Name: "middle", Addr: 0x2000, Binding: models.GlobalBinding})

	sym, ok := tab.FindNearest(0x2010)
	require.True(t, ok)
	assert.Equal(t, "middle", sym.Name)

	sym, ok = tab.FindNearest(0x1fff)
	require.True(t, ok)
	assert.Equal(t, "start", sym.Name)

	_, ok = tab.FindNearest(0xfff)
	assert.False(t, ok)
}
