package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/fjod/decohome/internal/codec"
	"github.com/fjod/decohome/internal/domain"
	"github.com/fjod/decohome/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStorage struct {
	m      sync.Mutex
	values map[string]string
	getErr error
	setErr error
	sets   int
}

func newMockStorage() *mockStorage {
	return &mockStorage{values: map[string]string{}}
}

func (m *mockStorage) Get(_ context.Context, key string) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (m *mockStorage) Set(_ context.Context, key, value string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockStorage) Delete(_ context.Context, key string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.values, key)
	return nil
}

func (m *mockStorage) Close() error { return nil }

func (m *mockStorage) stored(t *testing.T, c *codec.Codec) []domain.Product {
	t.Helper()
	m.m.Lock()
	defer m.m.Unlock()
	products, ok := c.PersistDecode(m.values[StorageKey])
	require.True(t, ok, "storage holds no decodable catalog")
	return products
}

var (
	catalogC1 = []domain.Product{
		{ID: "c1-a", Name: "Lámpara", Price: 12.5},
		{ID: "c1-b", Name: "Alfombra", Price: 80},
	}
	catalogC2 = []domain.Product{
		{ID: "c2-a", Name: "Jarrón", Description: "Cerámica esmaltada", Price: 10.00, ImageURL: "https://img/1"},
	}
)

func newTestStore(st storage.Store) (*Store, *codec.Codec) {
	c := codec.New(zap.NewNop())
	return NewStore(st, c, zap.NewNop()), c
}

func seed(t *testing.T, st *mockStorage, c *codec.Codec, products []domain.Product) {
	t.Helper()
	value, err := c.PersistEncode(products)
	require.NoError(t, err)
	st.values[StorageKey] = value
}

func TestInitialize_LinkOverridesStorageAndRewritesIt(t *testing.T) {
	st := newMockStorage()
	store, c := newTestStore(st)
	seed(t, st, c, catalogC1)

	loc := codec.NewFragmentLocation(c.Encode(catalogC2))
	products, source := store.Initialize(context.Background(), loc)

	assert.Equal(t, SourceLink, source)
	assert.Equal(t, catalogC2, products)
	assert.Equal(t, catalogC2, st.stored(t, c))
	assert.False(t, loc.Cleared())
}

func TestInitialize_StorageWhenNoLink(t *testing.T) {
	st := newMockStorage()
	store, c := newTestStore(st)
	seed(t, st, c, catalogC1)

	products, source := store.Initialize(context.Background(), codec.NewFragmentLocation(""))

	assert.Equal(t, SourceStorage, source)
	assert.Equal(t, catalogC1, products)
	assert.Equal(t, 0, st.sets, "adopting stored catalog must not rewrite it")
}

func TestInitialize_InvalidLinkFallsBackToStorageAndClearsFragment(t *testing.T) {
	st := newMockStorage()
	store, c := newTestStore(st)
	seed(t, st, c, catalogC1)

	loc := codec.NewFragmentLocation("not-a-catalog!!")
	products, source := store.Initialize(context.Background(), loc)

	assert.Equal(t, SourceStorage, source)
	assert.Equal(t, catalogC1, products)
	assert.True(t, loc.Cleared())
}

func TestInitialize_DefaultWhenNothingStored(t *testing.T) {
	st := newMockStorage()
	store, c := newTestStore(st)

	products, source := store.Initialize(context.Background(), nil)

	assert.Equal(t, SourceDefault, source)
	assert.Equal(t, DefaultProducts(), products)
	assert.Equal(t, DefaultProducts(), st.stored(t, c))
}

func TestInitialize_DefaultWhenStoredValueIsCorrupt(t *testing.T) {
	st := newMockStorage()
	store, _ := newTestStore(st)
	st.values[StorageKey] = `{"broken":`

	products, source := store.Initialize(context.Background(), nil)

	assert.Equal(t, SourceDefault, source)
	assert.Len(t, products, 8)
}

func TestInitialize_StorageUnavailable(t *testing.T) {
	st := newMockStorage()
	st.getErr = errors.New("connection refused")
	st.setErr = errors.New("connection refused")
	store, _ := newTestStore(st)

	products, source := store.Initialize(context.Background(), nil)

	assert.Equal(t, SourceDefault, source)
	assert.Equal(t, DefaultProducts(), products)
}

func TestAdd_PrependsAndPersists(t *testing.T) {
	st := newMockStorage()
	store, c := newTestStore(st)
	store.Replace(context.Background(), catalogC1)

	added := store.Add(context.Background(), domain.ProductDraft{
		Name:        "Espejo",
		Description: "Espejo redondo",
		Price:       25.25,
		ImageURL:    "data:image/png;base64,AAAA",
	})

	require.NotEmpty(t, added.ID)
	assert.Equal(t, "Espejo", added.Name)

	products := store.Products()
	require.Len(t, products, 3)
	assert.Equal(t, added, products[0])
	assert.Equal(t, catalogC1, products[1:])
	assert.Equal(t, products, st.stored(t, c))
}

func TestAdd_PersistFailureKeepsInMemoryCatalog(t *testing.T) {
	st := newMockStorage()
	st.setErr = errors.New("quota exceeded")
	store, _ := newTestStore(st)

	added := store.Add(context.Background(), domain.ProductDraft{Name: "Vela", Price: 3})

	assert.Equal(t, []domain.Product{added}, store.Products())
}

func TestAdd_UsesInjectedIDGenerator(t *testing.T) {
	store := NewStore(newMockStorage(), codec.New(zap.NewNop()), zap.NewNop(),
		WithIDGenerator(func() string { return "fixed" }))

	assert.Equal(t, "fixed", store.Add(context.Background(), domain.ProductDraft{Name: "x"}).ID)
}

func TestNewProductID_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewProductID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestProducts_ReturnsCopy(t *testing.T) {
	store, _ := newTestStore(newMockStorage())
	store.Replace(context.Background(), catalogC1)

	products := store.Products()
	products[0].Name = "changed"

	assert.Equal(t, "Lámpara", store.Products()[0].Name)
}

func TestGet(t *testing.T) {
	store, _ := newTestStore(newMockStorage())
	store.Replace(context.Background(), catalogC1)

	p, err := store.Get("c1-b")
	require.NoError(t, err)
	assert.Equal(t, "Alfombra", p.Name)

	_, err = store.Get("nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestShareLink_RoundTrips(t *testing.T) {
	store, c := newTestStore(newMockStorage())
	store.Replace(context.Background(), catalogC2)

	link, err := store.ShareLink("https://shop.example/store#old-fragment")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "https://shop.example/store#"))
	assert.Equal(t, 1, strings.Count(link, "#"))

	products, ok := c.Decode(codec.FromURL(link).Fragment())
	require.True(t, ok)
	assert.Equal(t, catalogC2, products)
}

func TestInitialize_WithRealStorage(t *testing.T) {
	st := storage.NewMemoryStore()
	store, c := newTestStore(st)

	store.Initialize(context.Background(), codec.NewFragmentLocation(c.Encode(catalogC2)))

	reloaded, _ := newTestStore(st)
	products, source := reloaded.Initialize(context.Background(), codec.NewFragmentLocation(""))
	assert.Equal(t, SourceStorage, source)
	assert.Equal(t, catalogC2, products)
}

func TestInitialize_AdoptedCatalogIsWrittenOnceAndOwned(t *testing.T) {
	tests := []struct {
		name       string
		fragment   func(c *codec.Codec) string
		wantSource Source
	}{
		{"link", func(c *codec.Codec) string { return c.Encode(catalogC2) }, SourceLink},
		{"default", func(*codec.Codec) string { return "" }, SourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newMockStorage()
			store, c := newTestStore(st)

			products, source := store.Initialize(context.Background(), codec.NewFragmentLocation(tt.fragment(c)))
			require.Equal(t, tt.wantSource, source)
			assert.Equal(t, 1, st.sets)

			products[0].Name = "changed"
			assert.NotEqual(t, "changed", store.Products()[0].Name)
			assert.Equal(t, store.Products(), st.stored(t, c))
		})
	}
}
