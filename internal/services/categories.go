package services

import (
	"context"
	"sync"
	"time"

	"movimenti/internal/cache"
	"movimenti/internal/core"
	"movimenti/internal/log"
)

const categoriesCacheKey = "categories"

// CategoryStore loads and caches the category taxonomy. The taxonomy has no
// durable local persistence: it is refreshed on demand from the remote
// system, with a short-lived in-process cache in front of the fetch.
type CategoryStore struct {
	fetcher CategoryFetcher
	cache   *cache.LRUCache[[]core.Category]
	logger  *log.Logger

	mu          sync.Mutex
	state       State
	categories  []core.Category
	byCode      map[string]core.Category
	subscribers []chan []core.Category
}

func NewCategoryStore(fetcher CategoryFetcher, ttl time.Duration, logger *log.Logger) *CategoryStore {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &CategoryStore{
		fetcher: fetcher,
		cache:   cache.NewLRUCache[[]core.Category](1, ttl),
		logger:  logger.WithComponent(log.ComponentCategories),
	}
}

// Load returns the current taxonomy, fetching it from the remote system when
// the in-process cache has expired. A fetch failure is logged and surfaced
// as an empty result set plus the error; there is no retry, and transactions
// referencing unknown codes keep rendering without a resolved category.
func (s *CategoryStore) Load(ctx context.Context) ([]core.Category, error) {
	if cached, ok := s.cache.Get(categoriesCacheKey); ok {
		s.install(cached)
		return append([]core.Category(nil), cached...), nil
	}

	s.setState(StateHydrating)
	categories, err := s.fetcher.FetchCategories(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch categories",
			log.FieldOperation, log.OpFetch,
			log.FieldError, err)
		s.install(nil)
		return nil, err
	}

	s.cache.Set(categoriesCacheKey, categories)
	s.install(categories)
	s.logger.InfoContext(ctx, "Categories loaded",
		log.FieldOperation, log.OpFetch,
		log.FieldCount, len(categories))
	return append([]core.Category(nil), categories...), nil
}

// State returns the store's lifecycle state.
func (s *CategoryStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// MainCategories returns all categories without a parent.
func (s *CategoryStore) MainCategories() []core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Category
	for _, c := range s.categories {
		if c.IsMain() {
			out = append(out, c)
		}
	}
	return out
}

// SubCategoriesOf returns all categories whose parent is the given code.
func (s *CategoryStore) SubCategoriesOf(code string) []core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Category
	for _, c := range s.categories {
		if c.ParentCode == code {
			out = append(out, c)
		}
	}
	return out
}

// Resolve looks a category up by exact code. An unresolved code is reported
// with ok=false, never as an error, so stale catcodes still render.
func (s *CategoryStore) Resolve(code string) (core.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byCode[code]
	return c, ok
}

// Subscribe registers an observer of the taxonomy. The channel has
// latest-value semantics: a subscriber joining after a load immediately
// receives the current taxonomy, and a slow one only sees the most recent.
func (s *CategoryStore) Subscribe() <-chan []core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan []core.Category, 1)
	s.subscribers = append(s.subscribers, ch)
	if s.state == StateReady {
		ch <- append([]core.Category(nil), s.categories...)
	}
	return ch
}

func (s *CategoryStore) install(categories []core.Category) {
	byCode := make(map[string]core.Category, len(categories))
	for _, c := range categories {
		byCode[c.Code] = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
	s.byCode = byCode
	s.state = StateReady

	for _, ch := range s.subscribers {
		snapshot := append([]core.Category(nil), categories...)
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

func (s *CategoryStore) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		s.state = state
	}
}
