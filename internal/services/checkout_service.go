package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"storefront/internal/cache"
	"storefront/internal/cart"
	"storefront/internal/domain"
	rabbit "storefront/internal/infra/rabbitmq"
	"storefront/internal/invoice"
	"storefront/internal/repository"
	"storefront/internal/share"
)

// ProductFinder resolves a product ID against the live catalog.
type ProductFinder interface {
	FindProduct(ctx context.Context, id string) (*domain.Product, error)
}

type CheckoutOptions struct {
	MinimumOrder decimal.Decimal
	SharePhone   string
	Now          func() time.Time
}

// CartSummary is the cart as shown to the shopper.
type CartSummary struct {
	Session  *domain.Session
	Total    decimal.Decimal
	Minimum  decimal.Decimal
	Eligible bool
}

// CheckoutService drives one shopper's cart through submission, invoice
// download and sharing. Session state lives in the session store.
type CheckoutService struct {
	sessions  cache.SessionStore
	products  ProductFinder
	orders    repository.OrderRepository
	counters  repository.CounterRepository
	publisher rabbit.PublisherInterface
	composer  *invoice.Composer
	renderer  invoice.Renderer
	validate  *validator.Validate

	minimum    decimal.Decimal
	sharePhone string
	now        func() time.Time

	submits singleflight.Group
	pending sync.WaitGroup
}

func NewCheckoutService(
	sessions cache.SessionStore,
	products ProductFinder,
	orders repository.OrderRepository,
	counters repository.CounterRepository,
	publisher rabbit.PublisherInterface,
	composer *invoice.Composer,
	renderer invoice.Renderer,
	opts CheckoutOptions,
) *CheckoutService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MinimumOrder.IsZero() {
		opts.MinimumOrder = cart.DefaultMinimumOrder
	}
	return &CheckoutService{
		sessions:   sessions,
		products:   products,
		orders:     orders,
		counters:   counters,
		publisher:  publisher,
		composer:   composer,
		renderer:   renderer,
		validate:   NewValidator(),
		minimum:    opts.MinimumOrder,
		sharePhone: opts.SharePhone,
		now:        opts.Now,
	}
}

// Session returns the stored session, or a fresh draft when none exists.
func (s *CheckoutService) Session(ctx context.Context, sid string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, sid)
	if errors.Is(err, cache.ErrCacheMiss) {
		return domain.NewSession(sid), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sid, err)
	}
	return sess, nil
}

func (s *CheckoutService) Summary(sess *domain.Session) CartSummary {
	total := cart.Total(sess.Lines)
	return CartSummary{
		Session:  sess,
		Total:    total,
		Minimum:  s.minimum,
		Eligible: len(sess.Lines) > 0 && cart.IsEligible(total, s.minimum),
	}
}

func (s *CheckoutService) SetQuantity(ctx context.Context, sid, productID string, qty int) (CartSummary, error) {
	return s.editCart(ctx, sid, productID, func(l *cart.Ledger, p domain.Product) {
		l.SetQuantity(p, qty)
	})
}

func (s *CheckoutService) Increment(ctx context.Context, sid, productID string) (CartSummary, error) {
	return s.editCart(ctx, sid, productID, func(l *cart.Ledger, p domain.Product) {
		l.Increment(p)
	})
}

func (s *CheckoutService) Decrement(ctx context.Context, sid, productID string) (CartSummary, error) {
	return s.editCart(ctx, sid, productID, func(l *cart.Ledger, p domain.Product) {
		l.Decrement(p)
	})
}

func (s *CheckoutService) ClearCart(ctx context.Context, sid string) (CartSummary, error) {
	sess, err := s.draft(ctx, sid)
	if err != nil {
		return CartSummary{}, err
	}
	sess.Lines = nil
	if err := s.save(ctx, sess); err != nil {
		return CartSummary{}, err
	}
	return s.Summary(sess), nil
}

func (s *CheckoutService) editCart(ctx context.Context, sid, productID string, edit func(*cart.Ledger, domain.Product)) (CartSummary, error) {
	sess, err := s.draft(ctx, sid)
	if err != nil {
		return CartSummary{}, err
	}
	ledger := cart.FromLines(sess.Lines)

	p, err := s.products.FindProduct(ctx, productID)
	if err != nil {
		// a product dropped from the catalog can still be edited out of the cart
		existing, ok := lineProduct(sess.Lines, productID)
		if !ok {
			return CartSummary{}, err
		}
		p = &existing
	}
	edit(ledger, *p)

	sess.Lines = ledger.Lines()
	if err := s.save(ctx, sess); err != nil {
		return CartSummary{}, err
	}
	return s.Summary(sess), nil
}

func (s *CheckoutService) draft(ctx context.Context, sid string) (*domain.Session, error) {
	sess, err := s.Session(ctx, sid)
	if err != nil {
		return nil, err
	}
	if sess.State != domain.StateDraft {
		return nil, ErrOrderLocked
	}
	return sess, nil
}

// Submit validates the contact and cart, then places the order. Concurrent
// calls for the same session share a single submission, which is not
// cancelled when the first caller goes away.
func (s *CheckoutService) Submit(ctx context.Context, sid string, contact domain.Contact) (*domain.Order, error) {
	v, err, _ := s.submits.Do(sid, func() (any, error) {
		return s.submit(context.WithoutCancel(ctx), sid, contact)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Order), nil
}

func (s *CheckoutService) submit(ctx context.Context, sid string, contact domain.Contact) (*domain.Order, error) {
	sess, err := s.Session(ctx, sid)
	if err != nil {
		return nil, err
	}
	if sess.State.HasOrder() {
		return nil, fmt.Errorf("%w: order already placed", ErrIllegalTransition)
	}
	if !domain.CanTransitionTo(sess.State, domain.StateValidating) {
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalTransition, sess.State, domain.StateValidating)
	}

	snapshot := *sess
	sess.Contact = contact
	sess.State = domain.StateValidating

	req, err := s.check(sess)
	if err != nil {
		sess.State = domain.StateDraft
		if saveErr := s.save(ctx, sess); saveErr != nil {
			log.Printf("checkout %s: keep rejected contact: %v", sid, saveErr)
		}
		return nil, err
	}

	// the stored state locks the cart while the remote calls are in flight
	sess.State = domain.StateSubmitting
	if err := s.save(ctx, sess); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteCall, err)
	}
	order, err := s.place(ctx, req)
	if err != nil {
		log.Printf("checkout %s: %v", sid, err)
		if restoreErr := s.save(ctx, &snapshot); restoreErr != nil {
			log.Printf("checkout %s: restore session: %v", sid, restoreErr)
		}
		return nil, err
	}

	sess.State = domain.StatePlaced
	sess.Order = order
	if err := s.save(ctx, sess); err != nil {
		// the order exists; the shopper can still be told about it
		log.Printf("checkout %s: save placed session: %v", sid, err)
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.publishOrderPlaced(context.Background(), order)
	}()

	return order, nil
}

// check applies the rejection rules in order: contact fields, empty cart,
// minimum total.
func (s *CheckoutService) check(sess *domain.Session) (domain.OrderRequest, error) {
	if err := ValidateContact(s.validate, sess.Contact); err != nil {
		return domain.OrderRequest{}, err
	}
	if len(sess.Lines) == 0 {
		return domain.OrderRequest{}, ErrEmptyCart
	}
	total := cart.Total(sess.Lines)
	if !cart.IsEligible(total, s.minimum) {
		return domain.OrderRequest{}, &BelowMinimumError{Total: total, Minimum: s.minimum}
	}
	return domain.OrderRequest{
		Contact: sess.Contact,
		Lines:   append([]domain.CartLine(nil), sess.Lines...),
		Total:   total,
	}, nil
}

// place numbers and stores the order. The counters are read and written
// without a lock, so two sessions submitting at the same moment can receive
// the same numbers.
func (s *CheckoutService) place(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	lastInvoice, err := s.counters.Read(ctx, repository.InvoiceCounter)
	if err != nil {
		return nil, fmt.Errorf("%w: read invoice counter: %w", ErrRemoteCall, err)
	}
	lastToken, err := s.counters.Read(ctx, repository.TokenCounter)
	if err != nil {
		return nil, fmt.Errorf("%w: read token counter: %w", ErrRemoteCall, err)
	}

	order := &domain.Order{
		InvoiceNumber: lastInvoice + 1,
		TokenNumber:   lastToken + 1,
		Contact:       req.Contact,
		Lines:         req.Lines,
		TotalAmount:   req.Total,
		Status:        domain.StatusPending,
		OrderDate:     s.now(),
	}
	id, err := s.orders.Append(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("%w: append order: %w", ErrRemoteCall, err)
	}
	order.ID = id

	if err := s.counters.Write(ctx, repository.InvoiceCounter, order.InvoiceNumber); err != nil {
		s.compensate(ctx, id)
		return nil, fmt.Errorf("%w: write invoice counter: %w", ErrRemoteCall, err)
	}
	if err := s.counters.Write(ctx, repository.TokenCounter, order.TokenNumber); err != nil {
		s.compensate(ctx, id)
		if rewindErr := s.counters.Write(ctx, repository.InvoiceCounter, lastInvoice); rewindErr != nil {
			log.Printf("checkout: rewind invoice counter to %d: %v", lastInvoice, rewindErr)
		}
		return nil, fmt.Errorf("%w: write token counter: %w", ErrRemoteCall, err)
	}
	return order, nil
}

func (s *CheckoutService) compensate(ctx context.Context, id string) {
	if err := s.orders.Remove(ctx, id); err != nil {
		log.Printf("checkout: remove order %s after failed counter write: %v", id, err)
	}
}

func (s *CheckoutService) publishOrderPlaced(ctx context.Context, order *domain.Order) {
	evt := domain.NewOrderPlacedEvent(order)
	if err := s.publisher.Publish(ctx, rabbit.OrderPlaced, evt); err != nil {
		log.Printf("Failed to publish %s for order %s: %v", rabbit.OrderPlaced, order.ID, err)
		return
	}
	log.Printf("Published %s for order %s", rabbit.OrderPlaced, order.ID)
}

// Wait blocks until in-flight event publishes have finished.
func (s *CheckoutService) Wait() {
	s.pending.Wait()
}

// DownloadInvoice renders the invoice for the placed order and records the
// download on the order.
func (s *CheckoutService) DownloadInvoice(ctx context.Context, sid string) (*invoice.File, error) {
	sess, err := s.Session(ctx, sid)
	if err != nil {
		return nil, err
	}
	if !sess.State.HasOrder() || sess.Order == nil {
		return nil, ErrNoActiveOrder
	}

	file, err := invoice.Export(s.renderer, s.composer.Compose(sess.Order))
	if err != nil {
		log.Printf("checkout %s: render invoice: %v", sid, err)
		return nil, fmt.Errorf("%w: %w", ErrDocumentGeneration, err)
	}

	if err := s.orders.Update(ctx, sess.Order.ID, map[string]any{"pdf_downloaded": true}); err != nil {
		log.Printf("checkout %s: mark invoice downloaded: %v", sid, err)
	}
	sess.Order.PDFDownloaded = true
	if sess.State == domain.StatePlaced {
		sess.State = domain.StatePDFReady
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return file, nil
}

// Share returns the chat link for the placed order. The invoice must have
// been downloaded first.
func (s *CheckoutService) Share(ctx context.Context, sid string) (string, error) {
	sess, err := s.Session(ctx, sid)
	if err != nil {
		return "", err
	}
	if !sess.State.HasOrder() || sess.Order == nil {
		return "", ErrNoActiveOrder
	}
	if !domain.CanTransitionTo(sess.State, domain.StateShared) {
		return "", ErrPDFRequired
	}

	link := share.Link(s.sharePhone, share.Message(sess.Order))

	if err := s.orders.Update(ctx, sess.Order.ID, map[string]any{"shared": true}); err != nil {
		log.Printf("checkout %s: mark order shared: %v", sid, err)
	}
	sess.Order.Shared = true
	sess.State = domain.StateShared
	if err := s.save(ctx, sess); err != nil {
		return "", err
	}
	return link, nil
}

// Reset discards the cart, contact and order and starts a new draft.
func (s *CheckoutService) Reset(ctx context.Context, sid string) (*domain.Session, error) {
	sess := domain.NewSession(sid)
	sess.UpdatedAt = s.now()
	if err := s.sessions.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("reset session %s: %w", sid, err)
	}
	return sess, nil
}

func (s *CheckoutService) save(ctx context.Context, sess *domain.Session) error {
	sess.UpdatedAt = s.now()
	if err := s.sessions.Set(ctx, sess); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

func lineProduct(lines []domain.CartLine, id string) (domain.Product, bool) {
	for _, l := range lines {
		if l.Product.ID == id {
			return l.Product, true
		}
	}
	return domain.Product{}, false
}
