package selector

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikari-pl/go-olap-memberselect/internal/catalog"
	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
)

const geographyYAML = `
cubes:
  - name: Sales
    dimensions:
      - name: Geography
        hierarchies:
          - name: Standard
            levels: [Country, State, City]
            members:
              - name: USA
                children:
                  - name: CA
                    children:
                      - name: Los Angeles
                  - name: NY
                    children:
                      - name: New York City
              - name: Canada
                children:
                  - name: ON
                    children:
                      - name: Toronto
`

var (
	testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	geography  = olap.Coordinates{Cube: "Sales", Dimension: "Geography", Hierarchy: "Standard"}
)

func testCatalog(t *testing.T) *catalog.FileCatalog {
	t.Helper()
	doc, err := catalog.Decode(strings.NewReader(geographyYAML))
	require.NoError(t, err)
	fc, err := catalog.NewFileCatalog(testLogger, doc)
	require.NoError(t, err)
	return fc
}

type recorder struct {
	trail      olap.Trail
	actionable []bool
	rows       []olap.MemberRow
	level      string
	renders    int
	shown      int
	hidden     int
}

func (r *recorder) RenderBreadcrumbs(trail olap.Trail, actionable []bool) {
	r.trail = trail
	r.actionable = actionable
	r.renders++
}

func (r *recorder) RenderMembers(rows []olap.MemberRow) { r.rows = rows }
func (r *recorder) RenderSelectedLevel(label string)    { r.level = label }
func (r *recorder) Show()                               { r.shown++ }
func (r *recorder) Hide()                               { r.hidden++ }

func newTestEngine(t *testing.T, client catalog.Client) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	e := NewEngine(client, geography,
		WithLogger(testLogger),
		WithRenderer(rec),
		WithLoadingIndicator(rec),
	)
	return e, rec
}

// settle returns a func that resolves a gesture's request and every
// follow-up, e.g. settle(t, e)(e.DrillIn(name)).
func settle(t *testing.T, e *Engine) func(Request, bool) {
	t.Helper()
	return func(req Request, ok bool) {
		t.Helper()
		require.True(t, ok, "gesture should issue a request")
		require.NoError(t, e.Run(context.Background(), req))
	}
}

func captions(rows []olap.MemberRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.DisplayText()
	}
	return out
}

func TestEngineNewSelection(t *testing.T) {
	e, rec := newTestEngine(t, testCatalog(t))

	req, ok := e.Open("", nil)
	assert.Equal(t, FetchFirstLevel, req.Kind)
	assert.True(t, e.State().Loading)
	settle(t, e)(req, ok)

	st := e.State()
	assert.Equal(t, olap.Trail{"Geography", "Standard", "Country"}, st.Trail)
	assert.Equal(t, []string{"USA", "Canada"}, captions(st.Listing))
	assert.Empty(t, st.CurrentUniqueName)
	assert.Equal(t, "Country", st.ClearLevel)
	assert.False(t, st.Loading)

	assert.Equal(t, st.Trail, rec.trail)
	assert.Equal(t, []bool{false, false, false}, rec.actionable)
	assert.Equal(t, []string{"USA", "Canada"}, captions(rec.rows))
	assert.Equal(t, 2, rec.shown, "first level and its members")
	assert.Equal(t, 1, rec.hidden)
}

func TestEngineDrillInScenario(t *testing.T) {
	e, rec := newTestEngine(t, testCatalog(t))
	settle(t, e)(e.Open("", nil))

	settle(t, e)(e.DrillIn("[Geography].[Standard].[USA]"))
	st := e.State()
	assert.Equal(t, olap.Trail{"Geography", "Standard", "Country", "State"}, st.Trail)
	assert.Equal(t, "[Geography].[Standard].[USA]", st.CurrentUniqueName)
	assert.Equal(t, []string{"CA", "NY"}, captions(st.Listing))
	assert.Equal(t, "Country", st.SelectedLevel)
	assert.Equal(t, "Country", rec.level)
	assert.Equal(t, []bool{false, false, true, false}, rec.actionable)

	settle(t, e)(e.DrillIn("[Geography].[Standard].[USA].[CA]"))
	st = e.State()
	assert.Equal(t, olap.Trail{"Geography", "Standard", "Country", "State", "City"}, st.Trail)
	assert.Equal(t, "State", st.SelectedLevel)
	assert.Equal(t, []string{"Los Angeles"}, captions(st.Listing))

	// Los Angeles is a leaf.
	renders := rec.renders
	settle(t, e)(e.DrillIn("[Geography].[Standard].[USA].[CA].[Los Angeles]"))
	after := e.State()
	assert.Equal(t, st.Trail, after.Trail)
	assert.Equal(t, "[Geography].[Standard].[USA].[CA]", after.CurrentUniqueName)
	assert.Equal(t, st.Listing, after.Listing)
	assert.False(t, after.Loading)
	assert.Equal(t, renders, rec.renders, "a leaf drill does not re-render")

	sel, err := e.Commit()
	require.NoError(t, err)
	assert.Equal(t, "[USA].[CA]", sel.UniqueName)
	assert.Equal(t, []string{"Geography", "Standard", "Country", "State", "City"}, sel.Breadcrumbs)
}

func TestEngineCrumbClick(t *testing.T) {
	e, rec := newTestEngine(t, testCatalog(t))
	settle(t, e)(e.Open("", nil))
	settle(t, e)(e.DrillIn("[Geography].[Standard].[USA]"))
	settle(t, e)(e.DrillIn("[Geography].[Standard].[USA].[CA]"))

	for _, i := range []int{-1, 0, 1, 4, 9} {
		_, ok := e.CrumbClick(i)
		assert.False(t, ok, "index %d is not actionable", i)
	}

	req, ok := e.CrumbClick(3)
	require.True(t, ok)
	assert.Equal(t, FetchLevelMembers, req.Kind)
	assert.Equal(t, "State", req.Target)

	st := e.State()
	assert.Equal(t, olap.Trail{"Geography", "Standard", "Country", "State"}, st.Trail, "truncated before the fetch")
	assert.Empty(t, st.CurrentUniqueName)
	assert.Empty(t, st.Listing)
	assert.Empty(t, rec.rows)

	require.NoError(t, e.Run(context.Background(), req))
	st = e.State()
	assert.Equal(t, []string{"CA", "NY", "ON"}, captions(st.Listing))
	assert.Empty(t, st.CurrentUniqueName)

	_, err := e.Commit()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgNoMember, verr.Message)
}

func TestEngineFilterChange(t *testing.T) {
	e, _ := newTestEngine(t, testCatalog(t))
	settle(t, e)(e.Open("", nil))

	_, ok := e.FilterChange("")
	assert.False(t, ok, "empty filter issues nothing")

	settle(t, e)(e.FilterChange("[USA].[CA]"))
	st := e.State()
	assert.Equal(t, "[USA].[CA]", st.FilterText)
	assert.Equal(t, "[USA].[CA]", st.CurrentUniqueName)
	assert.Equal(t, olap.Trail{"Geography", "Standard", "Country", "City"}, st.Trail)
	assert.Equal(t, []string{"Los Angeles"}, captions(st.Listing))

	// No such member: state is kept.
	settle(t, e)(e.FilterChange("[USA].[C"))
	after := e.State()
	assert.Equal(t, "[USA].[C", after.FilterText)
	assert.Equal(t, st.Trail, after.Trail)
	assert.Equal(t, st.CurrentUniqueName, after.CurrentUniqueName)

	sel, err := e.Commit()
	require.NoError(t, err)
	assert.Equal(t, "[USA].[CA]", sel.UniqueName)

	settle(t, e)(e.DrillIn("[Geography].[Standard].[Canada]"))
	assert.Empty(t, e.State().FilterText, "drill-in clears the filter")
}

func TestEngineClear(t *testing.T) {
	e, _ := newTestEngine(t, testCatalog(t))
	settle(t, e)(e.Open("", nil))
	settle(t, e)(e.DrillIn("[Geography].[Standard].[USA]"))
	settle(t, e)(e.DrillIn("[Geography].[Standard].[USA].[NY]"))

	req, ok := e.Clear()
	require.True(t, ok)
	assert.Equal(t, FetchLevelMembers, req.Kind)
	assert.Equal(t, "Country", req.Target)
	require.NoError(t, e.Run(context.Background(), req))

	st := e.State()
	assert.Equal(t, olap.Trail{"Geography", "Standard", "Country"}, st.Trail)
	assert.Empty(t, st.CurrentUniqueName)
	assert.Empty(t, st.SelectedLevel)
	assert.Equal(t, []string{"USA", "Canada"}, captions(st.Listing))
}

func TestEngineClearBeforeFirstLevel(t *testing.T) {
	e, _ := newTestEngine(t, testCatalog(t))

	req, ok := e.Clear()
	require.True(t, ok)
	assert.Equal(t, FetchFirstLevel, req.Kind)
	assert.Equal(t, GestureClear, req.Gesture)
	require.NoError(t, e.Run(context.Background(), req))
	assert.Equal(t, olap.Trail{"Geography", "Standard", "Country"}, e.State().Trail)
}

func TestEngineResume(t *testing.T) {
	e, _ := newTestEngine(t, testCatalog(t))

	req, ok := e.Open("[USA]", []string{"Geography", "Standard", "Country"})
	require.True(t, ok)
	assert.Equal(t, FetchChildMembers, req.Kind)
	assert.Equal(t, GestureResume, req.Gesture)
	assert.Equal(t, "[USA]", req.Target)
	require.NoError(t, e.Run(context.Background(), req))

	st := e.State()
	assert.Equal(t, olap.Trail{"Geography", "Standard", "Country", "State"}, st.Trail)
	assert.Equal(t, "[USA]", st.CurrentUniqueName)
	assert.Equal(t, "Country", st.ClearLevel)
	assert.Equal(t, []string{"CA", "NY"}, captions(st.Listing))

	sel, err := e.Commit()
	require.NoError(t, err)
	assert.Equal(t, "[USA]", sel.UniqueName)
}

func TestEngineResumeWithoutTrail(t *testing.T) {
	e, _ := newTestEngine(t, testCatalog(t))
	settle(t, e)(e.Open("[Geography].[Standard].[Canada]", nil))

	st := e.State()
	assert.Equal(t, olap.Trail{"Geography", "Standard", "State"}, st.Trail)
	assert.Empty(t, st.ClearLevel)
	assert.Equal(t, "[Geography].[Standard].[Canada]", st.CurrentUniqueName)
}

func TestEngineResumeLeaf(t *testing.T) {
	e, rec := newTestEngine(t, testCatalog(t))
	prior := []string{"Geography", "Standard", "Country", "State", "City"}
	settle(t, e)(e.Open("[Geography].[Standard].[USA].[CA].[Los Angeles]", prior))

	st := e.State()
	assert.Equal(t, olap.Trail(prior), st.Trail)
	assert.Equal(t, "[Geography].[Standard].[USA].[CA].[Los Angeles]", st.CurrentUniqueName)
	assert.Equal(t, "State", rec.level)
	assert.Empty(t, st.Listing)

	sel, err := e.Commit()
	require.NoError(t, err)
	assert.Equal(t, "[USA].[CA].[Los Angeles]", sel.UniqueName)
	assert.Equal(t, prior, sel.Breadcrumbs)
}

func TestEngineResumeTrailOnly(t *testing.T) {
	e, _ := newTestEngine(t, testCatalog(t))

	req, ok := e.Open("", []string{"Geography", "Standard", "Country", "State"})
	require.True(t, ok)
	assert.Equal(t, FetchLevelMembers, req.Kind)
	assert.Equal(t, GestureResume, req.Gesture)
	assert.Equal(t, "State", req.Target)
	require.NoError(t, e.Run(context.Background(), req))

	st := e.State()
	assert.Equal(t, olap.Trail{"Geography", "Standard", "Country", "State"}, st.Trail)
	assert.Equal(t, "Country", st.ClearLevel)
	assert.Equal(t, []string{"CA", "NY", "ON"}, captions(st.Listing))

	_, err := e.Commit()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgNoMember, verr.Message)
}

func TestEngineOpenHeaderOnlyTrail(t *testing.T) {
	e, _ := newTestEngine(t, testCatalog(t))
	req, ok := e.Open("", []string{"Geography", "Standard"})
	require.True(t, ok)
	assert.Equal(t, FetchFirstLevel, req.Kind)
	assert.Equal(t, GestureOpen, req.Gesture)
}

func TestEngineOpenDiscardsIncompleteTrail(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := NewEngine(testCatalog(t), geography, WithLogger(logger))

	settle(t, e)(e.Open("[USA]", []string{"Country"}))

	assert.Equal(t, olap.Trail{"Geography", "Standard", "State"}, e.State().Trail)
	assert.Contains(t, buf.String(), "discarding incomplete trail")
}

type stubClient struct {
	levels   []olap.Level
	members  map[string][]olap.MemberRow
	children map[string][]olap.MemberRow
	err      error
}

func (s *stubClient) Levels(context.Context, olap.Coordinates) ([]olap.Level, error) {
	return s.levels, s.err
}

func (s *stubClient) LevelMembers(_ context.Context, _ olap.Coordinates, level string) ([]olap.MemberRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.members[level], nil
}

func (s *stubClient) ChildMembers(_ context.Context, _ string, uniqueName string) ([]olap.MemberRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	rows, ok := s.children[uniqueName]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return rows, nil
}

func TestEngineResolveOutcomes(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")

	e := NewEngine(&stubClient{err: boom}, geography)
	resp := e.Resolve(ctx, Request{ID: 1, Kind: FetchLevelMembers, Target: "Country"})
	assert.Equal(t, OutcomeFailed, resp.Outcome)
	assert.ErrorIs(t, resp.Err, boom)

	e = NewEngine(&stubClient{}, geography)
	resp = e.Resolve(ctx, Request{ID: 1, Kind: FetchFirstLevel})
	assert.Equal(t, OutcomeEmpty, resp.Outcome, "no levels")
	resp = e.Resolve(ctx, Request{ID: 2, Kind: FetchChildMembers, Target: "[Nowhere]"})
	assert.Equal(t, OutcomeEmpty, resp.Outcome, "not found is empty")
	assert.True(t, catalog.IsNotFound(resp.Err))

	e = NewEngine(&stubClient{levels: []olap.Level{{Name: "Country"}}}, geography)
	resp = e.Resolve(ctx, Request{ID: 1, Kind: FetchFirstLevel})
	assert.Equal(t, OutcomeOK, resp.Outcome)
	assert.Equal(t, "Country", resp.Level.Name)
}

func TestEngineFailedFirstLevel(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(&stubClient{err: errors.New("down")}, geography, WithLoadingIndicator(rec), WithRenderer(rec))
	settle(t, e)(e.Open("", nil))

	st := e.State()
	assert.Empty(t, st.Trail)
	assert.False(t, st.Loading)
	assert.Equal(t, 1, rec.hidden)
	assert.Zero(t, rec.renders)
}

func TestEngineDropsStaleResponses(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	e := NewEngine(testCatalog(t), geography, WithLogger(testLogger), WithMetrics(metrics))
	settle(t, e)(e.Open("", nil))
	ctx := context.Background()

	first, ok := e.FilterChange("[USA]")
	require.True(t, ok)
	second, ok := e.FilterChange("[Canada]")
	require.True(t, ok)
	assert.Greater(t, second.ID, first.ID)

	newer := e.Resolve(ctx, second)
	older := e.Resolve(ctx, first)

	_, ok = e.Apply(newer)
	assert.False(t, ok)
	assert.Equal(t, "[Canada]", e.State().CurrentUniqueName)

	_, ok = e.Apply(older)
	assert.False(t, ok)
	st := e.State()
	assert.Equal(t, "[Canada]", st.CurrentUniqueName, "older response must not overwrite")
	assert.Equal(t, []string{"ON"}, captions(st.Listing))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.stale))

	// A response to a superseded request keeps the newer one loading.
	third, _ := e.DrillIn("[Geography].[Standard].[USA]")
	fourth, _ := e.DrillIn("[Geography].[Standard].[Canada]")
	_, _ = e.Apply(e.Resolve(ctx, third))
	assert.True(t, e.State().Loading)
	assert.Equal(t, fourth.ID, e.State().PendingRequestID)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.stale))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.gestures.WithLabelValues(string(GestureOpen))))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.gestures.WithLabelValues(string(GestureFilter))))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.gestures.WithLabelValues(string(GestureDrillIn))))
}

func TestEngineRunStopsOnCancelledContext(t *testing.T) {
	e := NewEngine(testCatalog(t), geography)
	req, ok := e.Open("", nil)
	require.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.Run(ctx, req), context.Canceled)
}

func TestEngineCommitMetrics(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	e := NewEngine(testCatalog(t), geography, WithMetrics(metrics))

	_, err := e.Commit()
	require.Error(t, err)
	settle(t, e)(e.Open("", nil))
	settle(t, e)(e.DrillIn("[Geography].[Standard].[USA]"))
	_, err = e.Commit()
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.commits.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.commits.WithLabelValues("ok")))
	assert.NotEmpty(t, e.Session())
}
