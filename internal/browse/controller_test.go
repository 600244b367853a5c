package browse

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"product-catalog/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher records every fetched state and answers through respond.
type stubFetcher struct {
	mu      sync.Mutex
	states  []State
	respond func(call int, state State) (*model.SearchResult, error)
}

func (f *stubFetcher) Search(ctx context.Context, state State, pageSize int) (*model.SearchResult, error) {
	f.mu.Lock()
	call := len(f.states)
	f.states = append(f.states, state)
	respond := f.respond
	f.mu.Unlock()
	return respond(call, state)
}

func (f *stubFetcher) fetchedStates() []State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]State(nil), f.states...)
}

func okResult(total int) *model.SearchResult {
	return &model.SearchResult{
		Products: []model.Product{{ID: 1, Name: "Product 1"}},
		Total:    total,
	}
}

func waitView(t *testing.T, views <-chan View) View {
	t.Helper()
	select {
	case view := <-views:
		return view
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a view")
		return View{}
	}
}

func newTestController(t *testing.T, fetcher *stubFetcher, cfg *ControllerConfig) (*Controller, chan View) {
	t.Helper()
	views := make(chan View, 16)
	if cfg == nil {
		cfg = &ControllerConfig{}
	}
	cfg.OnView = func(v View) { views <- v }
	return NewController(fetcher, cfg, zerolog.Nop()), views
}

func TestController_RefreshPublishesView(t *testing.T) {
	fetcher := &stubFetcher{
		respond: func(call int, state State) (*model.SearchResult, error) {
			return okResult(50), nil
		},
	}
	controller, views := newTestController(t, fetcher, nil)

	controller.Refresh(context.Background())
	view := waitView(t, views)

	require.NoError(t, view.Err)
	assert.Len(t, view.Products, 1)
	assert.Equal(t, 50, view.Total)
	assert.Equal(t, 3, view.TotalPages) // 50 products, 24 per page
}

func TestController_InitialStateFromQuery(t *testing.T) {
	fetcher := &stubFetcher{
		respond: func(call int, state State) (*model.SearchResult, error) {
			return okResult(1), nil
		},
	}
	query, err := url.ParseQuery("search=laptop&brands=HP&page=3")
	require.NoError(t, err)

	controller, views := newTestController(t, fetcher, &ControllerConfig{InitialQuery: query})

	controller.Refresh(context.Background())
	waitView(t, views)

	states := fetcher.fetchedStates()
	require.Len(t, states, 1)
	assert.Equal(t, "laptop", states[0].Search)
	assert.Equal(t, []string{"HP"}, states[0].Brands)
	assert.Equal(t, 3, states[0].Page)
}

func TestController_FilterChangeResetsPage(t *testing.T) {
	fetcher := &stubFetcher{
		respond: func(call int, state State) (*model.SearchResult, error) {
			return okResult(100), nil
		},
	}
	controller, views := newTestController(t, fetcher, &ControllerConfig{
		InitialQuery: url.Values{"page": {"4"}},
	})

	controller.SetBrands(context.Background(), []string{"Nike"})
	view := waitView(t, views)

	assert.Equal(t, 1, view.State.Page)
	assert.Equal(t, []string{"Nike"}, view.State.Brands)

	controller.SetCategories(context.Background(), []string{"Apparel"})
	view = waitView(t, views)
	assert.Equal(t, 1, view.State.Page)

	controller.SetPriceRange(context.Background(), floatPtr(10), nil)
	view = waitView(t, views)
	assert.Equal(t, 1, view.State.Page)

	controller.SetSort(context.Background(), "price", "asc")
	view = waitView(t, views)
	assert.Equal(t, 1, view.State.Page)
	assert.Equal(t, "price", view.State.SortBy)
}

func TestController_SetPageKeepsFilters(t *testing.T) {
	fetcher := &stubFetcher{
		respond: func(call int, state State) (*model.SearchResult, error) {
			return okResult(100), nil
		},
	}
	controller, views := newTestController(t, fetcher, nil)

	controller.SetBrands(context.Background(), []string{"HP"})
	waitView(t, views)

	controller.SetPage(context.Background(), 3)
	view := waitView(t, views)

	assert.Equal(t, 3, view.State.Page)
	assert.Equal(t, []string{"HP"}, view.State.Brands)
}

func TestController_SetPageSamePageIsNoop(t *testing.T) {
	fetcher := &stubFetcher{
		respond: func(call int, state State) (*model.SearchResult, error) {
			return okResult(100), nil
		},
	}
	controller, views := newTestController(t, fetcher, nil)

	controller.SetPage(context.Background(), 2)
	waitView(t, views)

	controller.SetPage(context.Background(), 2)

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, fetcher.fetchedStates(), 1)
}

func TestController_SearchIsDebounced(t *testing.T) {
	fetcher := &stubFetcher{
		respond: func(call int, state State) (*model.SearchResult, error) {
			return okResult(1), nil
		},
	}
	controller, views := newTestController(t, fetcher, &ControllerConfig{
		SearchDelay: 30 * time.Millisecond,
	})

	ctx := context.Background()
	controller.SetSearch(ctx, "l")
	controller.SetSearch(ctx, "la")
	controller.SetSearch(ctx, "laptop")

	view := waitView(t, views)
	assert.Equal(t, "laptop", view.State.Search)
	assert.Equal(t, 1, view.State.Page)

	time.Sleep(60 * time.Millisecond)
	states := fetcher.fetchedStates()
	require.Len(t, states, 1)
	assert.Equal(t, "laptop", states[0].Search)
}

func TestController_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	fetcher := &stubFetcher{
		respond: func(call int, state State) (*model.SearchResult, error) {
			if call == 0 {
				<-release
				return okResult(999), nil
			}
			return okResult(100), nil
		},
	}
	controller, views := newTestController(t, fetcher, nil)

	ctx := context.Background()
	controller.Refresh(ctx)

	// Wait until the slow fetch is in flight before superseding it.
	require.Eventually(t, func() bool {
		return len(fetcher.fetchedStates()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	controller.SetPage(ctx, 2)
	view := waitView(t, views)
	assert.Equal(t, 100, view.Total)
	assert.Equal(t, 2, view.State.Page)

	close(release)

	// The superseded response must never surface.
	select {
	case stale := <-views:
		t.Fatalf("stale view published: %+v", stale)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestController_OutOfOrderResponsesPublishLatestOnly(t *testing.T) {
	// Earlier fetches take longer, so responses complete in reverse order
	// of their requests.
	fetcher := &stubFetcher{
		respond: func(call int, state State) (*model.SearchResult, error) {
			time.Sleep(time.Duration(3-call) * 20 * time.Millisecond)
			return okResult(state.Page * 100), nil
		},
	}
	controller, views := newTestController(t, fetcher, nil)

	ctx := context.Background()
	controller.SetPage(ctx, 2)
	controller.SetPage(ctx, 3)
	controller.SetPage(ctx, 4)

	view := waitView(t, views)
	assert.Equal(t, 4, view.State.Page)
	assert.Equal(t, 400, view.Total)

	// The slower superseded responses must not surface afterwards.
	select {
	case stale := <-views:
		t.Fatalf("superseded view published: %+v", stale)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestController_FetchErrorRendersEmpty(t *testing.T) {
	fetcher := &stubFetcher{
		respond: func(call int, state State) (*model.SearchResult, error) {
			return nil, errors.New("connection refused")
		},
	}
	controller, views := newTestController(t, fetcher, nil)

	controller.Refresh(context.Background())
	view := waitView(t, views)

	require.Error(t, view.Err)
	assert.Empty(t, view.Products)
	assert.Equal(t, 0, view.Total)
	assert.Equal(t, 1, view.TotalPages)
}

func TestController_NavigateMirrorsState(t *testing.T) {
	fetcher := &stubFetcher{
		respond: func(call int, state State) (*model.SearchResult, error) {
			return okResult(1), nil
		},
	}
	navigations := make(chan url.Values, 16)
	controller, views := newTestController(t, fetcher, &ControllerConfig{
		OnNavigate: func(v url.Values) { navigations <- v },
	})

	controller.SetBrands(context.Background(), []string{"Nike", "HP"})
	waitView(t, views)

	select {
	case values := <-navigations:
		assert.Equal(t, "Nike,HP", values.Get("brands"))
		assert.Empty(t, values.Get("page"))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for navigation")
	}
}

func TestController_ClearFiltersResetsEverything(t *testing.T) {
	fetcher := &stubFetcher{
		respond: func(call int, state State) (*model.SearchResult, error) {
			return okResult(10), nil
		},
	}
	controller, views := newTestController(t, fetcher, &ControllerConfig{
		InitialQuery: url.Values{
			"search": {"laptop"},
			"brands": {"HP"},
			"page":   {"5"},
		},
	})

	controller.ClearFilters(context.Background())
	view := waitView(t, views)

	assert.Equal(t, State{Page: 1}, view.State)
}
