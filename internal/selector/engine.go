package selector

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ikari-pl/go-olap-memberselect/internal/catalog"
	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
)

var tracer = otel.Tracer("membersel.selector")

// Engine owns the navigation state of one selection session. Gesture
// methods and Apply must be called from a single goroutine; Resolve only
// reads the catalog and may run anywhere.
type Engine struct {
	client  catalog.Client
	coords  olap.Coordinates
	logger  *slog.Logger
	loading LoadingIndicator
	render  Renderer
	metrics *Metrics
	session string

	seq   uint64
	state State
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLoadingIndicator sets the indicator shown while a request is pending.
func WithLoadingIndicator(li LoadingIndicator) Option {
	return func(e *Engine) {
		if li != nil {
			e.loading = li
		}
	}
}

// WithRenderer sets the receiver of render events.
func WithRenderer(r Renderer) Option {
	return func(e *Engine) {
		if r != nil {
			e.render = r
		}
	}
}

// WithMetrics sets the collectors updated by the engine.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates an engine navigating the hierarchy at coords.
func NewEngine(client catalog.Client, coords olap.Coordinates, opts ...Option) *Engine {
	e := &Engine{
		client:  client,
		coords:  coords,
		logger:  slog.New(slog.DiscardHandler),
		loading: nopIndicator{},
		render:  nopRenderer{},
		session: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(
		"session", e.session,
		"cube", coords.Cube,
		"dimension", coords.Dimension,
		"hierarchy", coords.Hierarchy,
	)
	return e
}

// Coordinates returns the hierarchy the engine navigates.
func (e *Engine) Coordinates() olap.Coordinates {
	return e.coords
}

// Session returns the id attached to the engine's log records.
func (e *Engine) Session() string {
	return e.session
}

// State returns a copy of the current navigation state.
func (e *Engine) State() State {
	return e.state.Clone()
}

// Open starts a session. Without a prior unique name or trail it begins a
// new selection at the first level of the hierarchy. Otherwise it resumes:
// the prior member stays selected while its children load, and a trail
// without a member reopens the listing of its last level.
func (e *Engine) Open(priorUniqueName string, priorTrail []string) (Request, bool) {
	e.state = State{}

	trail := olap.Trail(priorTrail).Clone()
	if len(trail) > 0 && len(trail) < olap.HeaderLen {
		e.logger.Debug("discarding incomplete trail", "trail", priorTrail)
		trail = nil
	}
	if priorUniqueName == "" && len(trail) <= olap.HeaderLen {
		e.logger.Debug("opening new selection")
		return e.issue(FetchFirstLevel, GestureOpen, ""), true
	}

	if len(trail) == 0 {
		trail = olap.NewTrail(e.coords.Dimension, e.coords.Hierarchy)
	}
	e.state.Trail = trail
	if len(trail) > olap.HeaderLen {
		e.state.ClearLevel = trail[olap.HeaderLen]
		e.state.SelectedLevel = trail.SelectedLevel()
	}
	e.state.CurrentUniqueName = priorUniqueName
	e.logger.Debug("resuming selection", "unique_name", priorUniqueName, "trail", []string(trail))
	e.emit()

	if priorUniqueName == "" {
		return e.issue(FetchLevelMembers, GestureResume, trail.Current()), true
	}
	return e.issue(FetchChildMembers, GestureResume, priorUniqueName), true
}

// DrillIn requests the children of the member uniqueName.
func (e *Engine) DrillIn(uniqueName string) (Request, bool) {
	if uniqueName == "" {
		return Request{}, false
	}
	e.state.FilterText = ""
	return e.issue(FetchChildMembers, GestureDrillIn, uniqueName), true
}

// CrumbClick navigates back to the level at trail index i. Header entries
// and the current entry are not actionable and are ignored.
func (e *Engine) CrumbClick(i int) (Request, bool) {
	if !e.state.Trail.IsActionable(i) {
		return Request{}, false
	}
	label := e.state.Trail[i]
	e.state.Trail = e.state.Trail.TruncateAt(i)
	e.reset()
	e.emit()
	return e.issue(FetchLevelMembers, GestureCrumb, label), true
}

// FilterChange treats text as a member unique name and jumps to its
// children. Empty text issues nothing.
func (e *Engine) FilterChange(text string) (Request, bool) {
	e.state.FilterText = text
	if text == "" {
		return Request{}, false
	}
	return e.issue(FetchChildMembers, GestureFilter, text), true
}

// Clear returns to the level the session was opened at. A session that never
// reached a level starts over.
func (e *Engine) Clear() (Request, bool) {
	level := e.state.ClearLevel
	if level == "" {
		e.state = State{}
		e.emit()
		return e.issue(FetchFirstLevel, GestureClear, ""), true
	}

	if i := e.state.Trail.IndexOf(level); i >= olap.HeaderLen {
		e.state.Trail = e.state.Trail.TruncateAt(i)
	} else {
		e.state.Trail = olap.NewTrail(e.coords.Dimension, e.coords.Hierarchy, level)
	}
	e.reset()
	e.emit()
	return e.issue(FetchLevelMembers, GestureClear, level), true
}

// Commit validates the current state and returns the selection.
func (e *Engine) Commit() (Selection, error) {
	sel, err := Commit(e.coords, e.state)
	e.metrics.commit(err == nil)
	if err != nil {
		e.logger.Debug("commit rejected", "error", err)
		return Selection{}, err
	}
	e.logger.Info("selection committed", "unique_name", sel.UniqueName, "breadcrumbs", sel.Breadcrumbs)
	return sel, nil
}

// Resolve performs the catalog lookup for req. It does not read or modify
// engine state.
func (e *Engine) Resolve(ctx context.Context, req Request) Response {
	ctx, span := tracer.Start(ctx, "selector."+req.Kind.String())
	defer span.End()
	span.SetAttributes(
		attribute.Int64("membersel.request_id", int64(req.ID)),
		attribute.String("membersel.gesture", string(req.Gesture)),
		attribute.String("membersel.target", req.Target),
	)

	resp := Response{Request: req}
	var n int
	switch req.Kind {
	case FetchFirstLevel:
		resp.Level, resp.Err = catalog.FirstLevel(ctx, e.client, e.coords)
		if resp.Err == nil {
			n = 1
		}
	case FetchLevelMembers:
		resp.Rows, resp.Err = e.client.LevelMembers(ctx, e.coords, req.Target)
		n = len(resp.Rows)
	case FetchChildMembers:
		resp.Rows, resp.Err = e.client.ChildMembers(ctx, e.coords.Cube, req.Target)
		n = len(resp.Rows)
	}

	switch {
	case resp.Err == nil && n > 0:
		resp.Outcome = OutcomeOK
	case resp.Err == nil || catalog.IsNotFound(resp.Err):
		resp.Outcome = OutcomeEmpty
	default:
		resp.Outcome = OutcomeFailed
		span.RecordError(resp.Err)
		span.SetStatus(codes.Error, resp.Err.Error())
	}
	span.SetAttributes(attribute.String("membersel.outcome", resp.Outcome.String()))
	return resp
}

// Apply reconciles resp with the current state. It returns the follow-up
// request when the response requires one.
func (e *Engine) Apply(resp Response) (Request, bool) {
	log := e.logger.With("request_id", resp.Request.ID, "kind", resp.Request.Kind.String())

	tr := reduce(e.coords, e.state, resp)
	if tr.Stale {
		e.metrics.staleResponse()
		log.Debug("dropping stale response", "pending_id", e.state.PendingRequestID)
		return Request{}, false
	}

	switch resp.Outcome {
	case OutcomeFailed:
		log.Warn("catalog request failed", "target", resp.Request.Target, "error", resp.Err)
	case OutcomeEmpty:
		log.Debug("catalog request returned nothing", "target", resp.Request.Target)
	}

	e.state = tr.State
	if tr.Changed {
		e.emit()
	}
	if tr.Next != nil {
		return e.issue(tr.Next.Kind, tr.Next.Gesture, tr.Next.Target), true
	}
	e.loading.Hide()
	return Request{}, false
}

// Run resolves req and every follow-up request on the calling goroutine.
func (e *Engine) Run(ctx context.Context, req Request) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, ok := e.Apply(e.Resolve(ctx, req))
		if !ok {
			return ctx.Err()
		}
		req = next
	}
}

func (e *Engine) issue(kind RequestKind, gesture Gesture, target string) Request {
	e.seq++
	req := Request{ID: e.seq, Kind: kind, Gesture: gesture, Target: target}
	e.state.PendingRequestID = req.ID
	e.state.Loading = true
	e.metrics.request(gesture)
	e.logger.Debug("request issued",
		"request_id", req.ID,
		"kind", kind.String(),
		"gesture", string(gesture),
		"target", target,
	)
	e.loading.Show()
	return req
}

// reset clears the member position while keeping trail and clear level.
func (e *Engine) reset() {
	e.state.CurrentUniqueName = ""
	e.state.SelectedLevel = ""
	e.state.Listing = nil
	e.state.FilterText = ""
}

func (e *Engine) emit() {
	trail := e.state.Trail.Clone()
	e.render.RenderBreadcrumbs(trail, trail.Actionable())
	e.render.RenderMembers(cloneRows(e.state.Listing))
	e.render.RenderSelectedLevel(e.state.SelectedLevel)
}
