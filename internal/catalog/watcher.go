package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"storefront/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type Source interface {
	LoadProducts(ctx context.Context) ([]domain.Product, error)
}

// Invalidator is implemented by sources that hold a cached copy.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Watcher keeps an in-memory snapshot of the catalog, polling its source and
// notifying subscribers whenever the product set changes.
type Watcher struct {
	source   Source
	interval time.Duration

	mu          sync.RWMutex
	products    []domain.Product
	byID        map[string]int
	fingerprint string
	subs        map[int]func([]domain.Product)
	nextSub     int
}

func NewWatcher(source Source, interval time.Duration) *Watcher {
	return &Watcher{
		source:   source,
		interval: interval,
		byID:     map[string]int{},
		subs:     map[int]func([]domain.Product){},
	}
}

// Subscribe registers fn and immediately hands it the current snapshot when
// one is loaded. The returned func removes the subscription.
func (w *Watcher) Subscribe(fn func([]domain.Product)) func() {
	w.mu.Lock()
	id := w.nextSub
	w.nextSub++
	w.subs[id] = fn
	current := w.products
	loaded := w.fingerprint != ""
	w.mu.Unlock()

	if loaded {
		fn(current)
	}
	return func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}
}

// Refresh reloads the catalog, bypassing any source-side cache.
func (w *Watcher) Refresh(ctx context.Context) error {
	if inv, ok := w.source.(Invalidator); ok {
		if err := inv.Invalidate(ctx); err != nil {
			log.Printf("catalog: invalidate cache: %v", err)
		}
	}
	return w.poll(ctx)
}

func (w *Watcher) Run(ctx context.Context) {
	if err := w.poll(ctx); err != nil {
		log.Printf("catalog: initial load: %v", err)
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.poll(ctx); err != nil {
				log.Printf("catalog: poll: %v", err)
			}
		}
	}
}

func (w *Watcher) poll(ctx context.Context) error {
	products, err := w.source.LoadProducts(ctx)
	if err != nil {
		return err
	}
	fp, err := json.Marshal(products)
	if err != nil {
		return err
	}

	w.mu.Lock()
	if string(fp) == w.fingerprint {
		w.mu.Unlock()
		return nil
	}
	w.products = products
	w.fingerprint = string(fp)
	w.byID = make(map[string]int, len(products))
	for i, p := range products {
		w.byID[p.ID] = i
	}
	subs := make([]func([]domain.Product), 0, len(w.subs))
	for _, fn := range w.subs {
		subs = append(subs, fn)
	}
	w.mu.Unlock()

	for _, fn := range subs {
		fn(products)
	}
	return nil
}

func (w *Watcher) Products() []domain.Product {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.Product(nil), w.products...)
}

func (w *Watcher) FindProduct(_ context.Context, id string) (*domain.Product, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	i, ok := w.byID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := w.products[i]
	return &p, nil
}
