// Package session holds the single storefront session: which screen is
// shown, the cart panel, the add-product form and the share feedback. It
// routes every user action to the catalog store and the cart engine.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/decohome/internal/cart"
	"github.com/fjod/decohome/internal/catalog"
	"github.com/fjod/decohome/internal/checkout"
	"github.com/fjod/decohome/internal/clipboard"
	"github.com/fjod/decohome/internal/codec"
	"github.com/fjod/decohome/internal/domain"
	"github.com/fjod/decohome/internal/generator"
	"github.com/fjod/decohome/internal/metrics"
	"github.com/fjod/decohome/internal/publisher"
	"go.uber.org/zap"
)

const DefaultFeedbackTTL = 3 * time.Second

// Pool runs background tasks. Submit reports false when the task was not
// accepted.
type Pool interface {
	Submit(task func()) bool
}

type Deps struct {
	Catalog   *catalog.Store
	Generator generator.Generator
	Clipboard clipboard.Clipboard
	Payments  checkout.PaymentProcessor
	Publisher publisher.Publisher
	Pool      Pool
	Logger    *zap.Logger
}

// Controller serializes every event on one mutex, so catalog and cart are
// only ever touched by one caller at a time.
type Controller struct {
	mu sync.Mutex

	catalog   *catalog.Store
	cart      *cart.Engine
	generator generator.Generator
	clipboard clipboard.Clipboard
	payments  checkout.PaymentProcessor
	publisher publisher.Publisher
	pool      Pool
	logger    *zap.Logger

	now         func() time.Time
	feedbackTTL time.Duration

	view      domain.View
	cartOpen  bool
	source    catalog.Source
	form      FormState
	genToken  uint64
	feedback  *Feedback
	lastOrder *domain.Order
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithFeedbackTTL(d time.Duration) Option {
	return func(c *Controller) { c.feedbackTTL = d }
}

func New(deps Deps, opts ...Option) *Controller {
	c := &Controller{
		catalog:     deps.Catalog,
		cart:        cart.NewEngine(),
		generator:   deps.Generator,
		clipboard:   deps.Clipboard,
		payments:    deps.Payments,
		publisher:   deps.Publisher,
		pool:        deps.Pool,
		logger:      deps.Logger,
		now:         time.Now,
		feedbackTTL: DefaultFeedbackTTL,
		view:        domain.ViewGallery,
	}
	if c.generator == nil {
		c.generator = generator.Unconfigured{}
	}
	if c.clipboard == nil {
		c.clipboard = clipboard.Disabled{}
	}
	if c.payments == nil {
		c.payments = checkout.MockPayment{}
	}
	if c.publisher == nil {
		c.publisher = publisher.NewLogPublisher(c.logger)
	}
	if c.pool == nil {
		c.pool = goPool{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type goPool struct{}

func (goPool) Submit(task func()) bool {
	go task()
	return true
}

// Load starts the session as a page load does: gallery, closed panel,
// empty cart and the catalog resolved from link, storage or default.
func (c *Controller) Load(ctx context.Context, loc codec.Location) catalog.Source {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.view = domain.ViewGallery
	c.cartOpen = false
	c.cart.Clear()
	c.resetForm()
	c.feedback = nil
	c.lastOrder = nil

	_, c.source = c.catalog.Initialize(ctx, loc)
	return c.source
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() Snapshot {
	if c.feedback != nil && !c.now().Before(c.feedback.ExpiresAt) {
		c.feedback = nil
	}

	s := Snapshot{
		View:          c.view,
		CartOpen:      c.cartOpen,
		CatalogSource: c.source,
		Products:      c.catalog.Products(),
		Cart:          c.cart.Lines(),
		CartCount:     c.cart.TotalCount(),
		Totals:        checkout.ComputeTotals(c.cart.Subtotal()),
		Form:          c.form,
	}
	if c.feedback != nil {
		f := *c.feedback
		s.Feedback = &f
	}
	if c.lastOrder != nil {
		o := *c.lastOrder
		s.LastOrder = &o
	}
	return s
}

func (c *Controller) View() domain.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *Controller) transition(action string, from, to domain.View) error {
	if c.view != from {
		return fmt.Errorf("%w: cannot %s from %s", ErrIllegalTransition, action, c.view)
	}
	c.logger.Debug("view transition",
		zap.String("action", action),
		zap.Stringer("from", from),
		zap.Stringer("to", to))
	c.view = to
	return nil
}

func (c *Controller) OpenAddForm() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.transition("open add form", domain.ViewGallery, domain.ViewAddProductForm); err != nil {
		return err
	}
	c.resetForm()
	return nil
}

func (c *Controller) CancelAddForm() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.transition("cancel add form", domain.ViewAddProductForm, domain.ViewGallery); err != nil {
		return err
	}
	c.resetForm()
	return nil
}

// SubmitProduct validates draft, adds it to the catalog and returns to the
// gallery. An invalid draft leaves view and catalog untouched.
func (c *Controller) SubmitProduct(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != domain.ViewAddProductForm {
		return domain.Product{}, fmt.Errorf("%w: cannot submit product from %s", ErrIllegalTransition, c.view)
	}
	if err := checkout.ValidateProductDraft(draft); err != nil {
		var vErr *checkout.ValidationError
		if errors.As(err, &vErr) {
			c.form.Error = vErr.Message
		}
		return domain.Product{}, err
	}

	product := c.catalog.Add(ctx, draft)
	c.view = domain.ViewGallery
	c.resetForm()

	c.logger.Info("product added", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}

// resetForm also invalidates any generation still in flight.
func (c *Controller) resetForm() {
	c.form = FormState{}
	c.genToken++
}

// GenerateDetails asks the AI generator for a name and description in the
// background. The form shows a loading flag until it completes; results
// that arrive after the form was left are dropped.
func (c *Controller) GenerateDetails(image []byte, mimeType string) error {
	c.mu.Lock()
	if c.view != domain.ViewAddProductForm {
		c.mu.Unlock()
		return fmt.Errorf("%w: cannot generate details from %s", ErrIllegalTransition, c.view)
	}
	if len(image) == 0 {
		c.form.Error = "select an image first"
		c.mu.Unlock()
		return &checkout.ValidationError{Fields: []string{"image"}, Message: "select an image first"}
	}
	c.genToken++
	token := c.genToken
	c.form.Generating = true
	c.form.Error = ""
	c.mu.Unlock()

	accepted := c.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error("generator panicked", zap.Any("panic", r))
				c.completeGeneration(token, generator.Details{}, generator.ErrExternalService)
			}
		}()
		details, err := c.generator.Generate(context.Background(), image, mimeType)
		c.completeGeneration(token, details, err)
	})
	if !accepted {
		c.completeGeneration(token, generator.Details{}, generator.ErrExternalService)
	}
	return nil
}

func (c *Controller) completeGeneration(token uint64, details generator.Details, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.genToken || c.view != domain.ViewAddProductForm {
		c.logger.Debug("discarding stale generation result")
		return
	}

	c.form.Generating = false
	if err != nil {
		c.form.Error = generator.ErrExternalService.Error()
		return
	}
	c.form.Name = details.Name
	c.form.Description = details.Description
}

func (c *Controller) OpenCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cartOpen = true
}

func (c *Controller) CloseCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cartOpen = false
}

// AddToCart copies the catalog product into the cart and opens the panel.
func (c *Controller) AddToCart(productID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	product, err := c.catalog.Get(productID)
	if err != nil {
		return err
	}
	if err := c.cart.Add(product, quantity); err != nil {
		return err
	}
	c.cartOpen = true
	return nil
}

func (c *Controller) RemoveFromCart(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart.Remove(productID)
}

func (c *Controller) UpdateCartQuantity(productID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart.SetQuantity(productID, quantity)
}

func (c *Controller) ProceedToCheckout() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view == domain.ViewGallery && c.cart.IsEmpty() {
		return ErrEmptyCart
	}
	if err := c.transition("proceed to checkout", domain.ViewGallery, domain.ViewCheckout); err != nil {
		return err
	}
	c.cartOpen = false
	return nil
}

func (c *Controller) BackToCart() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.transition("go back to cart", domain.ViewCheckout, domain.ViewGallery); err != nil {
		return err
	}
	c.cartOpen = true
	return nil
}

// PlaceOrder validates the checkout form, charges the mock processor,
// clears the cart and shows the confirmation.
func (c *Controller) PlaceOrder(ctx context.Context, form domain.CheckoutForm) (domain.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != domain.ViewCheckout {
		return domain.Order{}, fmt.Errorf("%w: cannot place order from %s", ErrIllegalTransition, c.view)
	}
	if err := checkout.ValidateForm(form); err != nil {
		return domain.Order{}, err
	}
	if c.cart.IsEmpty() {
		return domain.Order{}, ErrEmptyCart
	}

	order := checkout.NewOrder(c.cart.Lines(), c.now())
	txn, err := c.payments.Charge(ctx, order, form)
	if err != nil {
		return domain.Order{}, fmt.Errorf("charge order: %w", err)
	}

	c.cart.Clear()
	c.view = domain.ViewConfirmation
	c.lastOrder = &order
	metrics.OrdersPlaced.Inc()
	c.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("transaction_id", txn),
		zap.String("total", order.Total.StringFixed(2)))

	published := c.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.publisher.PublishOrderPlaced(ctx, order); err != nil {
			c.logger.Warn("publish order placed", zap.String("order_id", order.ID), zap.Error(err))
		}
	})
	if !published {
		c.logger.Warn("order placed event not published", zap.String("order_id", order.ID))
	}

	return order, nil
}

func (c *Controller) ContinueShopping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transition("continue shopping", domain.ViewConfirmation, domain.ViewGallery)
}

// Share builds a link carrying the whole catalog and copies it to the
// clipboard. Either way a feedback message is shown for a short time.
func (c *Controller) Share(baseURL string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	link, err := c.catalog.ShareLink(baseURL)
	if err == nil {
		err = c.clipboard.Write(link)
	}
	if err != nil {
		c.logger.Warn("share catalog link", zap.Error(err))
		c.setFeedback(FeedbackError, "could not copy the link")
		return "", err
	}

	c.setFeedback(FeedbackSuccess, "link copied to clipboard")
	return link, nil
}

func (c *Controller) setFeedback(kind FeedbackKind, message string) {
	c.feedback = &Feedback{
		Kind:      kind,
		Message:   message,
		ExpiresAt: c.now().Add(c.feedbackTTL),
	}
}
