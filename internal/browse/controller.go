package browse

import (
	"context"
	"net/url"
	"sync"
	"time"

	"product-catalog/internal/model"

	"github.com/rs/zerolog"
)

// Fetcher is the slice of the API client the controller depends on.
type Fetcher interface {
	Search(ctx context.Context, state State, pageSize int) (*model.SearchResult, error)
}

// View is what a renderer receives after every completed fetch. A failed
// fetch renders as "no results": empty product list, zero total, one page.
type View struct {
	State      State
	Products   []model.Product
	Facets     model.Facets
	Total      int
	TotalPages int
	Err        error
}

// ControllerConfig configures a browse controller.
type ControllerConfig struct {
	// PageSize is the number of products per page. Default: 24.
	PageSize int

	// SearchDelay is how long search input must be idle before it
	// propagates. Default: 300ms.
	SearchDelay time.Duration

	// InitialQuery seeds the state from URL parameters; it is parsed once
	// here and never re-read afterwards.
	InitialQuery url.Values

	// OnView is invoked with the new view after every completed fetch.
	OnView func(View)

	// OnNavigate is invoked with the URL parameters for the current state
	// whenever it changes, so the address bar mirrors the view.
	OnNavigate func(url.Values)
}

// Controller drives the product list view. It owns the browse state,
// mirrors every change into URL parameters, and re-queries the catalogue
// after every change. Any state change resets the page to 1 except an
// explicit page change. Each fetch carries a generation number and a
// response that arrives after a newer fetch started is discarded, so the
// rendered view always reflects the latest state.
type Controller struct {
	fetcher     Fetcher
	pageSize    int
	searchDelay time.Duration
	onView      func(View)
	onNavigate  func(url.Values)
	logger      zerolog.Logger

	mu    sync.Mutex
	state State
	gen   uint64
	timer *time.Timer

	// pubMu serializes view publication; the staleness check and the
	// OnView call happen under it so a superseded response can never land
	// after its superseder.
	pubMu sync.Mutex
}

// NewController creates a browse controller. The initial state is parsed
// from cfg.InitialQuery; call Refresh to load the first page.
func NewController(fetcher Fetcher, cfg *ControllerConfig, logger zerolog.Logger) *Controller {
	if cfg == nil {
		cfg = &ControllerConfig{}
	}

	pageSize := cfg.PageSize
	if pageSize < 1 {
		pageSize = model.DefaultPageSize
	}
	searchDelay := cfg.SearchDelay
	if searchDelay <= 0 {
		searchDelay = 300 * time.Millisecond
	}

	return &Controller{
		fetcher:     fetcher,
		pageSize:    pageSize,
		searchDelay: searchDelay,
		onView:      cfg.OnView,
		onNavigate:  cfg.OnNavigate,
		logger:      logger.With().Str("component", "browse-controller").Logger(),
		state:       ParseState(cfg.InitialQuery),
	}
}

// State returns a snapshot of the current browse state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Refresh re-fetches the current page without changing any state.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	snapshot, gen := c.commitLocked()
	c.mu.Unlock()
	c.dispatch(ctx, snapshot, gen)
}

// SetSearch updates the search text and resets to the first page. The
// change propagates only after the input has been idle for the configured
// delay, so typing does not produce one request per keystroke.
func (c *Controller) SetSearch(ctx context.Context, term string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if term == c.state.Search {
		return
	}
	c.state.Search = term
	c.state.Page = 1

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.searchDelay, func() {
		c.mu.Lock()
		c.timer = nil
		snapshot, gen := c.commitLocked()
		c.mu.Unlock()
		c.dispatch(ctx, snapshot, gen)
	})
}

// SetCategories replaces the selected categories.
func (c *Controller) SetCategories(ctx context.Context, categories []string) {
	c.apply(ctx, func(s *State) {
		s.Categories = append([]string(nil), categories...)
	})
}

// SetBrands replaces the selected brands.
func (c *Controller) SetBrands(ctx context.Context, brands []string) {
	c.apply(ctx, func(s *State) {
		s.Brands = append([]string(nil), brands...)
	})
}

// SetAttr replaces the selected values for one attribute key; an empty
// value list removes the key.
func (c *Controller) SetAttr(ctx context.Context, key string, values []string) {
	c.apply(ctx, func(s *State) {
		if len(values) == 0 {
			delete(s.Attrs, key)
			if len(s.Attrs) == 0 {
				s.Attrs = nil
			}
			return
		}
		if s.Attrs == nil {
			s.Attrs = make(map[string][]string)
		}
		s.Attrs[key] = append([]string(nil), values...)
	})
}

// SetPriceRange replaces the price bounds; nil clears a bound.
func (c *Controller) SetPriceRange(ctx context.Context, min, max *float64) {
	c.apply(ctx, func(s *State) {
		s.PriceMin = min
		s.PriceMax = max
	})
}

// SetSort replaces the sort choice.
func (c *Controller) SetSort(ctx context.Context, sortBy, sortOrder string) {
	c.apply(ctx, func(s *State) {
		s.SortBy = sortBy
		s.SortOrder = sortOrder
	})
}

// ClearFilters drops every filter, the search text and the sort choice.
func (c *Controller) ClearFilters(ctx context.Context) {
	c.apply(ctx, func(s *State) {
		*s = State{Page: 1}
	})
}

// SetPage moves to another page. This is the one state change that does
// not reset the page number.
func (c *Controller) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	if page == c.state.Page {
		c.mu.Unlock()
		return
	}
	c.state.Page = page
	snapshot, gen := c.commitLocked()
	c.mu.Unlock()
	c.dispatch(ctx, snapshot, gen)
}

// apply runs a filter mutation, resets to the first page and commits.
func (c *Controller) apply(ctx context.Context, mutate func(*State)) {
	c.mu.Lock()
	mutate(&c.state)
	c.state.Page = 1
	snapshot, gen := c.commitLocked()
	c.mu.Unlock()
	c.dispatch(ctx, snapshot, gen)
}

// commitLocked starts a new fetch generation and snapshots the state for
// it. Callers must hold c.mu.
func (c *Controller) commitLocked() (State, uint64) {
	c.gen++
	return c.state.clone(), c.gen
}

// dispatch mirrors the snapshot into the URL and starts its fetch. Runs
// without the lock so callbacks may call back into the controller.
func (c *Controller) dispatch(ctx context.Context, snapshot State, gen uint64) {
	if c.onNavigate != nil {
		c.onNavigate(snapshot.Values())
	}
	go c.runFetch(ctx, gen, snapshot)
}

// runFetch executes one fetch and publishes its view unless a newer
// generation has started in the meantime. Publication is serialized under
// pubMu and the staleness check is repeated there, so a stale response
// queued behind a newer one observes the newer generation and discards
// itself.
func (c *Controller) runFetch(ctx context.Context, gen uint64, state State) {
	result, err := c.fetcher.Search(ctx, state, c.pageSize)

	view := View{State: state}
	if err != nil {
		c.logger.Error().Err(err).Msg("product fetch failed")
		view.Products = []model.Product{}
		view.TotalPages = 1
		view.Err = err
	} else {
		view.Products = result.Products
		view.Facets = result.Facets
		view.Total = result.Total
		view.TotalPages = totalPages(result.Total, c.pageSize)
	}

	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	c.mu.Lock()
	current := c.gen
	c.mu.Unlock()
	if gen != current {
		c.logger.Debug().
			Uint64("generation", gen).
			Uint64("current", current).
			Msg("discarding stale fetch result")
		return
	}

	if c.onView != nil {
		c.onView(view)
	}
}

func totalPages(total, pageSize int) int {
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}
