// Package catalog owns the list of products for sale and keeps it in
// persistent storage.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fjod/decohome/internal/codec"
	"github.com/fjod/decohome/internal/domain"
	"github.com/fjod/decohome/internal/metrics"
	"github.com/fjod/decohome/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StorageKey is the fixed key the catalog is persisted under. The stored
// value carries no version; changing the format breaks existing data.
const StorageKey = "novar-decohome-products"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrShare           = errors.New("catalog could not be encoded for sharing")
)

type Source string

const (
	SourceLink    Source = "link"
	SourceStorage Source = "storage"
	SourceDefault Source = "default"
)

// Store is not safe for concurrent use; the session controller serializes
// access to it.
type Store struct {
	storage      storage.Store
	codec        *codec.Codec
	logger       *zap.Logger
	key          string
	storeTimeout time.Duration
	newID        func() string

	products []domain.Product
}

type Option func(*Store)

// WithIDGenerator replaces the id generator used by Add.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func WithStorageKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithStorageTimeout(d time.Duration) Option {
	return func(s *Store) { s.storeTimeout = d }
}

func NewStore(st storage.Store, c *codec.Codec, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		storage:      st,
		codec:        c,
		logger:       logger,
		key:          StorageKey,
		storeTimeout: 2 * time.Second,
		newID:        NewProductID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewProductID returns a timestamp-derived id with a random suffix, so two
// products added within the same instant still get distinct ids.
func NewProductID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return time.Now().UTC().Format(time.RFC3339Nano) + "-" + suffix
}

// Initialize picks the startup catalog: the shared link wins over storage,
// which wins over the built-in default. Link and default catalogs are
// written back to storage.
func (s *Store) Initialize(ctx context.Context, loc codec.Location) ([]domain.Product, Source) {
	source := s.resolve(ctx, loc)
	metrics.CatalogSource.WithLabelValues(string(source)).Inc()
	s.logger.Info("catalog initialized",
		zap.String("source", string(source)),
		zap.Int("products", len(s.products)))
	return s.Products(), source
}

func (s *Store) resolve(ctx context.Context, loc codec.Location) Source {
	if loc != nil {
		if products, ok := s.codec.DecodeLocation(loc); ok {
			s.Replace(ctx, products)
			return SourceLink
		}
	}

	if products, ok := s.load(ctx); ok {
		s.products = products
		return SourceStorage
	}

	s.Replace(ctx, DefaultProducts())
	return SourceDefault
}

func (s *Store) load(ctx context.Context) ([]domain.Product, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	value, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("read catalog from storage", zap.Error(err))
		}
		return nil, false
	}
	return s.codec.PersistDecode(value)
}

// Add assigns a fresh id to draft and puts the product first.
func (s *Store) Add(ctx context.Context, draft domain.ProductDraft) domain.Product {
	product := draft.WithID(s.newID())

	products := make([]domain.Product, 0, len(s.products)+1)
	products = append(products, product)
	products = append(products, s.products...)
	s.products = products

	s.persist(ctx)
	return product
}

// Replace swaps the whole catalog, keeping the ids and order of products.
func (s *Store) Replace(ctx context.Context, products []domain.Product) {
	s.products = append([]domain.Product(nil), products...)
	s.persist(ctx)
}

func (s *Store) Products() []domain.Product {
	return append([]domain.Product{}, s.products...)
}

func (s *Store) Get(id string) (domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

// ShareLink returns base (without any fragment) followed by the encoded
// catalog as fragment.
func (s *Store) ShareLink(base string) (string, error) {
	fragment := s.codec.Encode(s.products)
	if fragment == "" {
		return "", ErrShare
	}
	base, _, _ = strings.Cut(base, "#")
	return base + "#" + fragment, nil
}

// persist is best-effort: the in-memory catalog stays authoritative.
func (s *Store) persist(ctx context.Context) {
	value, err := s.codec.PersistEncode(s.products)
	if err != nil {
		metrics.CatalogPersistFailures.Inc()
		s.logger.Error("encode catalog for storage", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.storage.Set(ctx, s.key, value); err != nil {
		metrics.CatalogPersistFailures.Inc()
		s.logger.Error("write catalog to storage", zap.Error(err))
	}
}
