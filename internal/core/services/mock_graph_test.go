package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/trinoor/o365-cli/internal/core/domain"
	"github.com/trinoor/o365-cli/internal/core/ports/driven"
)

// --- Mock implementations for service testing ---

// mockGraph implements driven.GraphClient for testing. Single-shot
// responses are keyed by "METHOD path"; list pages and downloads are
// keyed by path alone.
type mockGraph struct {
	responses map[string]json.RawMessage
	errs      map[string]error
	pages     map[string][][]json.RawMessage
	pageErrs  map[string]error
	downloads map[string]string
	matches   []domain.MessageMatch
	searchErr error

	calls     []graphCall
	listPaths []string
	listOpts  map[string]domain.ListOptions
	uploads   []uploadCall
}

type graphCall struct {
	method string
	path   string
	body   any
}

type uploadCall struct {
	path string
	size int64
}

func newMockGraph() *mockGraph {
	return &mockGraph{
		responses: make(map[string]json.RawMessage),
		errs:      make(map[string]error),
		pages:     make(map[string][][]json.RawMessage),
		pageErrs:  make(map[string]error),
		downloads: make(map[string]string),
		listOpts:  make(map[string]domain.ListOptions),
	}
}

func (m *mockGraph) Execute(_ context.Context, method, path string, body any) (json.RawMessage, error) {
	m.calls = append(m.calls, graphCall{method: method, path: path, body: body})
	key := method + " " + path
	if err, ok := m.errs[key]; ok {
		return nil, err
	}
	if resp, ok := m.responses[key]; ok {
		return resp, nil
	}
	return json.RawMessage("null"), nil
}

func (m *mockGraph) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return m.Execute(ctx, http.MethodGet, path, nil)
}

func (m *mockGraph) GetJSON(ctx context.Context, path string, out any) error {
	raw, err := m.Get(ctx, path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (m *mockGraph) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return m.Execute(ctx, http.MethodPost, path, body)
}

func (m *mockGraph) Patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return m.Execute(ctx, http.MethodPatch, path, body)
}

func (m *mockGraph) Delete(ctx context.Context, path string) error {
	_, err := m.Execute(ctx, http.MethodDelete, path, nil)
	return err
}

func (m *mockGraph) List(path string, opts domain.ListOptions) driven.Pager {
	m.listPaths = append(m.listPaths, path)
	m.listOpts[path] = opts
	return &mockPager{
		pages:    m.pages[path],
		err:      m.pageErrs[path],
		maxItems: opts.MaxItems,
	}
}

func (m *mockGraph) SearchMessages(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.MessageMatch, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.matches, nil
}

func (m *mockGraph) Download(_ context.Context, url string) (io.ReadCloser, error) {
	if err, ok := m.errs["DOWNLOAD "+url]; ok {
		return nil, err
	}
	content, ok := m.downloads[url]
	if !ok {
		return nil, fmt.Errorf("no download stubbed for %s", url)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func (m *mockGraph) Upload(_ context.Context, path string, content io.Reader, size int64) (json.RawMessage, error) {
	m.uploads = append(m.uploads, uploadCall{path: path, size: size})
	if err, ok := m.errs["UPLOAD "+path]; ok {
		return nil, err
	}
	if _, err := io.Copy(io.Discard, content); err != nil {
		return nil, err
	}
	if resp, ok := m.responses["UPLOAD "+path]; ok {
		return resp, nil
	}
	return json.RawMessage("null"), nil
}

// lastCall returns the most recent request, failing the lookup with a
// zero value when nothing was recorded.
func (m *mockGraph) lastCall() graphCall {
	if len(m.calls) == 0 {
		return graphCall{}
	}
	return m.calls[len(m.calls)-1]
}

// mockPager implements driven.Pager over canned pages. A configured
// error is returned by the NextPage call after the last page, matching
// how a live pager fails on a continuation fetch.
type mockPager struct {
	pages    [][]json.RawMessage
	err      error
	maxItems int

	idx     int
	yielded int
	failed  bool
}

func (p *mockPager) NextPage(_ context.Context) ([]json.RawMessage, error) {
	if p.maxItems > 0 && p.yielded >= p.maxItems {
		return nil, nil
	}
	if p.idx >= len(p.pages) {
		if p.err != nil && !p.failed {
			p.failed = true
			return nil, p.err
		}
		return nil, nil
	}
	page := p.pages[p.idx]
	p.idx++
	if p.maxItems > 0 && p.yielded+len(page) > p.maxItems {
		page = page[:p.maxItems-p.yielded]
	}
	p.yielded += len(page)
	return page, nil
}

func (p *mockPager) Err() error {
	if p.failed {
		return p.err
	}
	return nil
}

func (p *mockPager) All(ctx context.Context) ([]json.RawMessage, error) {
	var items []json.RawMessage
	for {
		page, err := p.NextPage(ctx)
		if err != nil {
			return items, err
		}
		if page == nil {
			return items, nil
		}
		items = append(items, page...)
	}
}

// page builds one pager page from raw JSON items.
func page(items ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(items))
	for i, s := range items {
		out[i] = json.RawMessage(s)
	}
	return out
}
