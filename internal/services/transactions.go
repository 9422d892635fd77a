package services

import (
	"context"
	"fmt"
	"sync"

	"movimenti/internal/amqp"
	"movimenti/internal/core"
	"movimenti/internal/log"
)

// RemoteOutcome reports how the fire-and-forget remote write of a mutation
// ended. By the time it is delivered the local cache has long been committed;
// a failed outcome means local and remote state have diverged.
type RemoteOutcome struct {
	OK  bool
	Err error
}

// MutationResult is returned by categorize/split operations. Transaction is
// the locally committed state with categories resolved; Remote delivers
// exactly one outcome once the remote write completes, then closes. The
// channel is buffered, so a caller that only cares about the local commit can
// drop the result without leaking the dispatch goroutine.
type MutationResult struct {
	Transaction core.Transaction
	Remote      <-chan RemoteOutcome
}

// TransactionStore owns the durable local transaction cache and answers all
// queries from it. The remote system seeds the cache on first start and
// receives fire-and-forget writes afterwards; it is never read before a
// query. Every visible page is re-derived filter -> sort -> paginate ->
// category-resolve, in that fixed order.
type TransactionStore struct {
	gateway   TransactionGateway
	snapshots TransactionSnapshots
	resolver  CategoryResolver
	events    *amqp.Client
	logger    *log.Logger

	mu          sync.Mutex
	state       State
	cache       []core.Transaction
	page        int
	pageSize    int
	filter      core.Filter
	latest      *core.QueryResult
	subscribers []chan core.QueryResult
}

func NewTransactionStore(
	gateway TransactionGateway,
	snapshots TransactionSnapshots,
	resolver CategoryResolver,
	events *amqp.Client,
	defaultPageSize int,
	logger *log.Logger,
) *TransactionStore {
	if defaultPageSize < 1 {
		defaultPageSize = 3
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &TransactionStore{
		gateway:   gateway,
		snapshots: snapshots,
		resolver:  resolver,
		events:    events,
		logger:    logger.WithComponent(log.ComponentTransactions),
		page:      1,
		pageSize:  defaultPageSize,
	}
}

// State returns the store's lifecycle state.
func (s *TransactionStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Hydrate fills the cache. A non-empty local cache wins outright; only an
// empty one triggers the remote seed fetch, which is then persisted. After
// the first successful Hydrate the remote system is never consulted for
// reads again. A remote fetch failure degrades to an empty Ready cache and
// is returned as a side channel, never as a crash.
func (s *TransactionStore) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateReady {
		s.mu.Unlock()
		return nil
	}
	s.state = StateHydrating
	s.mu.Unlock()

	stored, err := s.snapshots.LoadTransactions(ctx)
	if err != nil {
		s.mu.Lock()
		s.state = StateUninitialized
		s.mu.Unlock()
		return fmt.Errorf("load local cache: %w", err)
	}

	var fetchErr error
	if len(stored) == 0 {
		seed, err := s.gateway.FetchTransactions(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to fetch transaction seed",
				log.FieldOperation, log.OpHydrate,
				log.FieldError, err)
			fetchErr = err
		} else {
			if err := s.snapshots.SaveTransactions(ctx, seed); err != nil {
				s.logger.ErrorContext(ctx, "Failed to persist transaction seed",
					log.FieldOperation, log.OpHydrate,
					log.FieldError, err)
			}
			stored = seed
		}
	}

	s.mu.Lock()
	s.cache = stored
	s.state = StateReady
	s.refreshLocked()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction store ready",
		log.FieldOperation, log.OpHydrate,
		log.FieldCount, len(stored),
		log.FieldState, StateReady.String())
	return fetchErr
}

// Query answers one page over the full local cache: filter, then sort, then
// paginate, then resolve display categories. The page and page size become
// the store's current query context, used to re-derive the visible page
// after every mutation.
func (s *TransactionStore) Query(ctx context.Context, page, pageSize int, filter core.Filter) (core.QueryResult, error) {
	if pageSize <= 0 {
		return core.QueryResult{}, fmt.Errorf("%w: %d", core.ErrInvalidPageSize, pageSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.page = page
	s.pageSize = pageSize
	s.filter = filter

	result := s.deriveLocked()
	s.latest = &result
	s.broadcastLocked(result)

	s.logger.DebugContext(ctx, "Query answered",
		log.FieldOperation, log.OpQuery,
		log.FieldPage, page,
		log.FieldPageSize, pageSize,
		log.FieldTotalCount, result.TotalCount)
	return result, nil
}

// ChangePageSize switches the page size and resets the current page to 1.
func (s *TransactionStore) ChangePageSize(ctx context.Context, pageSize int) (core.QueryResult, error) {
	s.mu.Lock()
	filter := s.filter
	s.mu.Unlock()
	return s.Query(ctx, 1, pageSize, filter)
}

// CurrentPageSize returns the page size of the current query context.
func (s *TransactionStore) CurrentPageSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageSize
}

// Get returns the cached transaction with the given id, categories resolved.
func (s *TransactionStore) Get(id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return core.Transaction{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return s.resolveTransaction(s.cache[idx]), nil
}

// Categorize assigns a category code to one transaction. The local update
// and persist are unconditional and authoritative; the remote write is
// issued concurrently and its failure is logged and reported through the
// result's Remote channel without rolling anything back.
func (s *TransactionStore) Categorize(ctx context.Context, id, catcode string) (*MutationResult, error) {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}

	s.cache[idx].CatCode = catcode
	s.cache[idx].Category = nil
	s.persistLocked(ctx)
	s.refreshLocked()
	resolved := s.resolveTransaction(s.cache[idx])
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction categorized",
		log.FieldOperation, log.OpCategorize,
		log.FieldTransactionID, id,
		log.FieldCatCode, catcode)

	remote := s.dispatchRemote(ctx, amqp.NewCategorizedEvent(id, catcode, amqp.RemotePending, nil), func(ctx context.Context) error {
		return s.gateway.Categorize(ctx, id, catcode)
	})

	return &MutationResult{Transaction: resolved, Remote: remote}, nil
}

// ApplySplits validates and stores a split assignment for one transaction,
// with the same write-through policy as Categorize. The splits are stored
// with their display categories resolved; persistence strips those again so
// only catcodes reach disk.
func (s *TransactionStore) ApplySplits(ctx context.Context, id string, splits []core.Split) (*MutationResult, error) {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}

	if err := core.ValidateSplits(splits, s.cache[idx].Amount); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	s.cache[idx].Splits = s.resolveSplits(splits)
	s.persistLocked(ctx)
	s.refreshLocked()
	resolved := s.resolveTransaction(s.cache[idx])
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction split applied",
		log.FieldOperation, log.OpSplit,
		log.FieldTransactionID, id,
		log.FieldSplitCount, len(splits))

	bare := make([]core.Split, len(splits))
	for i, sp := range splits {
		sp.Category = nil
		bare[i] = sp
	}
	remote := s.dispatchRemote(ctx, amqp.NewSplitEvent(id, len(splits), amqp.RemotePending, nil), func(ctx context.Context) error {
		return s.gateway.Split(ctx, id, bare)
	})

	return &MutationResult{Transaction: resolved, Remote: remote}, nil
}

// Subscribe registers an observer of the visible query snapshot. The channel
// has latest-value semantics: a late subscriber immediately receives the
// current snapshot, and a slow one only ever sees the most recent state.
func (s *TransactionStore) Subscribe() <-chan core.QueryResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan core.QueryResult, 1)
	s.subscribers = append(s.subscribers, ch)
	if s.latest != nil {
		ch <- *s.latest
	}
	return ch
}

// dispatchRemote issues the remote write without blocking the caller. There
// is no cancellation: once issued the write runs to completion or failure
// independent of later local state, so the caller's context is detached.
func (s *TransactionStore) dispatchRemote(ctx context.Context, event *amqp.MutationEvent, write func(context.Context) error) <-chan RemoteOutcome {
	outcome := make(chan RemoteOutcome, 1)
	detached := context.WithoutCancel(ctx)

	go func() {
		defer close(outcome)

		err := write(detached)
		if err != nil {
			s.logger.ErrorContext(detached, "Remote write failed, local state already committed",
				log.FieldTransactionID, event.TransactionID,
				log.FieldError, err)
			event.Remote = amqp.RemoteFailed
			event.RemoteError = err.Error()
		} else {
			s.logger.DebugContext(detached, "Remote write acknowledged",
				log.FieldTransactionID, event.TransactionID)
			event.Remote = amqp.RemoteOK
		}

		if pubErr := s.events.PublishMutation(detached, event); pubErr != nil {
			s.logger.WarnContext(detached, "Failed to publish mutation event",
				log.FieldOperation, log.OpPublish,
				log.FieldError, pubErr)
		}

		outcome <- RemoteOutcome{OK: err == nil, Err: err}
	}()

	return outcome
}

// persistLocked writes the whole cache through to durable storage. A persist
// failure is logged but does not undo the in-memory mutation; the next
// successful persist writes the full current state anyway.
func (s *TransactionStore) persistLocked(ctx context.Context) {
	if err := s.snapshots.SaveTransactions(ctx, s.cache); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist transaction cache",
			log.FieldOperation, log.OpPersist,
			log.FieldError, err)
	}
}

// refreshLocked re-derives the visible page for the current query context
// and broadcasts it.
func (s *TransactionStore) refreshLocked() {
	result := s.deriveLocked()
	s.latest = &result
	s.broadcastLocked(result)
}

func (s *TransactionStore) deriveLocked() core.QueryResult {
	filtered := core.FilterTransactions(s.cache, s.filter)
	sorted := core.SortTransactions(filtered)
	items, err := core.Paginate(sorted, s.page, s.pageSize)
	if err != nil {
		// the query context is validated before it is stored
		items = nil
	}
	return core.QueryResult{
		Items:      s.resolveTransactions(items),
		TotalCount: len(filtered),
		Page:       s.page,
		PageSize:   s.pageSize,
		SortBy:     "date",
		SortOrder:  "desc",
	}
}

func (s *TransactionStore) broadcastLocked(result core.QueryResult) {
	for _, ch := range s.subscribers {
		select {
		case ch <- result:
		default:
			// replace the stale snapshot the subscriber never read
			select {
			case <-ch:
			default:
			}
			ch <- result
		}
	}
}

func (s *TransactionStore) indexOfLocked(id string) int {
	for i := range s.cache {
		if s.cache[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TransactionStore) resolveTransactions(transactions []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, len(transactions))
	for i, t := range transactions {
		out[i] = s.resolveTransaction(t)
	}
	return out
}

// resolveTransaction rebuilds the derived category views from catcodes. The
// result is a copy; cached transactions are never mutated on the read path.
func (s *TransactionStore) resolveTransaction(t core.Transaction) core.Transaction {
	t.Category = nil
	if s.resolver != nil && t.CatCode != "" {
		if cat, ok := s.resolver.Resolve(t.CatCode); ok {
			t.Category = &cat
		}
	}
	t.Splits = s.resolveSplits(t.Splits)
	return t
}

func (s *TransactionStore) resolveSplits(splits []core.Split) []core.Split {
	if len(splits) == 0 {
		return nil
	}
	out := make([]core.Split, len(splits))
	for i, sp := range splits {
		sp.Category = nil
		if s.resolver != nil && sp.CatCode != "" {
			if cat, ok := s.resolver.Resolve(sp.CatCode); ok {
				sp.Category = &cat
			}
		}
		out[i] = sp
	}
	return out
}
