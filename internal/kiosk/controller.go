package kiosk

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/memorytrail/internal/domain"
	"github.com/pscheid92/memorytrail/internal/platform/correlation"
)

const (
	// ScanDelay is how long the simulated card read stays on screen.
	ScanDelay = 2 * time.Second
	// CountdownTick is the period of the end-of-visit countdown.
	CountdownTick = 1 * time.Second

	stopTimeout       = 5 * time.Second
	commandBufferSize = 64
	subscriberBuffer  = 8
)

type timerKind int

const (
	timerScan timerKind = iota
	timerCountdown
)

func (k timerKind) String() string {
	if k == timerScan {
		return "scan_delay"
	}
	return "countdown"
}

func (k timerKind) event() domain.EventType {
	if k == timerScan {
		return domain.EventScanComplete
	}
	return domain.EventCountdownTick
}

// Recorder receives controller activity for metrics.
type Recorder interface {
	EventAccepted(event domain.EventType)
	EventIgnored(event domain.EventType, reason string)
	ScreenChanged(from, to domain.Screen)
	TimerFired(timer string)
	TimerStale(timer string)
	VisitStarted()
	VisitCompleted()
	ContractFault()
}

type nopRecorder struct{}

func (nopRecorder) EventAccepted(domain.EventType) {}
func (nopRecorder) EventIgnored(domain.EventType, string) {}
func (nopRecorder) ScreenChanged(domain.Screen, domain.Screen) {}
func (nopRecorder) TimerFired(string) {}
func (nopRecorder) TimerStale(string) {}
func (nopRecorder) VisitStarted() {}
func (nopRecorder) VisitCompleted() {}
func (nopRecorder) ContractFault() {}

// Result is the reply to a dispatched event.
type Result struct {
	Accepted bool        `json:"accepted"`
	View     domain.View `json:"view"`
}

// controllerCmd is the command interface for the Controller actor.
type controllerCmd interface{ isControllerCmd() }

type baseControllerCmd struct{}

func (baseControllerCmd) isControllerCmd() {}

type dispatchCmd struct {
	baseControllerCmd
	ctx     context.Context
	event   domain.Event
	replyCh chan Result
}

type timerCmd struct {
	baseControllerCmd
	kind       timerKind
	screen     domain.Screen
	generation uint64
}

type viewCmd struct {
	baseControllerCmd
	replyCh chan domain.View
}

type subscribeCmd struct {
	baseControllerCmd
	replyCh chan subscription
}

type unsubscribeCmd struct {
	baseControllerCmd
	id int
}

type stopCmd struct {
	baseControllerCmd
}

type subscription struct {
	id int
	ch chan domain.View
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecorder reports controller activity to r.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithStrictContract turns store/controller desynchronisation into a panic.
// Meant for debug builds; production degrades the fault to a no-op.
func WithStrictContract(strict bool) Option {
	return func(c *Controller) { c.strict = strict }
}

// Controller owns the current screen and the timers attached to it. The
// presentation layer reads through State/Subscribe and writes only through
// Dispatch.
type Controller struct {
	cmdCh    chan controllerCmd
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	clock    clockwork.Clock
	store    domain.SessionStore
	content  domain.Content
	recorder Recorder
	strict   bool

	// Owned by the run goroutine.
	screen      domain.Screen
	countdown   int
	timer       clockwork.Timer
	generation  uint64
	subscribers map[int]chan domain.View
	nextSubID   int
}

// NewController creates a controller on the idle screen and starts its goroutine.
func NewController(store domain.SessionStore, content domain.Content, clock clockwork.Clock, opts ...Option) *Controller {
	initial := Initial()
	c := &Controller{
		cmdCh:       make(chan controllerCmd, commandBufferSize),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
		clock:       clock,
		store:       store,
		content:     content,
		recorder:    nopRecorder{},
		screen:      initial.Screen,
		countdown:   initial.Countdown,
		subscribers: make(map[int]chan domain.View),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.run()
	return c
}

// Dispatch hands one inbound event to the controller and waits until it has
// been processed. Misuse is not an error: the result reports Accepted=false.
func (c *Controller) Dispatch(ctx context.Context, ev domain.Event) (Result, error) {
	ctx = correlation.Ensure(ctx)

	replyCh := make(chan Result, 1)
	if err := c.send(ctx, dispatchCmd{ctx: ctx, event: ev, replyCh: replyCh}); err != nil {
		return Result{}, err
	}

	select {
	case res := <-replyCh:
		return res, nil
	case <-c.done:
		return Result{}, domain.ErrControllerStopped
	case <-ctx.Done():
		return Result{}, fmt.Errorf("dispatch %s: %w", ev.Type, ctx.Err())
	}
}

// State returns the current observation surface.
func (c *Controller) State(ctx context.Context) (domain.View, error) {
	replyCh := make(chan domain.View, 1)
	if err := c.send(ctx, viewCmd{replyCh: replyCh}); err != nil {
		return domain.View{}, err
	}

	select {
	case v := <-replyCh:
		return v, nil
	case <-c.done:
		return domain.View{}, domain.ErrControllerStopped
	case <-ctx.Done():
		return domain.View{}, fmt.Errorf("read state: %w", ctx.Err())
	}
}

// Subscribe returns a channel that receives the view after every change,
// starting with the current one. A subscriber that is not keeping up loses
// its oldest queued views, never the latest. The channel is closed on
// unsubscribe or Stop.
func (c *Controller) Subscribe(ctx context.Context) (<-chan domain.View, func(), error) {
	replyCh := make(chan subscription, 1)
	if err := c.send(ctx, subscribeCmd{replyCh: replyCh}); err != nil {
		return nil, nil, err
	}

	var sub subscription
	select {
	case sub = <-replyCh:
	case <-c.done:
		return nil, nil, domain.ErrControllerStopped
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("subscribe: %w", ctx.Err())
	}

	unsubscribe := func() {
		select {
		case c.cmdCh <- unsubscribeCmd{id: sub.id}:
		case <-c.stopped:
		}
	}
	return sub.ch, unsubscribe, nil
}

// Ping reports whether the controller goroutine is still serving commands.
func (c *Controller) Ping(ctx context.Context) error {
	_, err := c.State(ctx)
	return err
}

// Stop cancels any outstanding timer, clears the session and shuts the
// controller down. Safe to call more than once.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		c.cmdCh <- stopCmd{}

		timeout := c.clock.NewTimer(stopTimeout)
		defer timeout.Stop()

		select {
		case <-c.done:
			slog.Info("Kiosk controller stopped")
		case <-timeout.Chan():
			slog.Warn("Kiosk controller stop timeout exceeded", "timeout", stopTimeout)
		}
	})
}

func (c *Controller) send(ctx context.Context, cmd controllerCmd) error {
	select {
	case c.cmdCh <- cmd:
		return nil
	case <-c.stopped:
		return domain.ErrControllerStopped
	case <-ctx.Done():
		return fmt.Errorf("send command: %w", ctx.Err())
	}
}

func (c *Controller) run() {
	defer close(c.done)

	for cmd := range c.cmdCh {
		if c.handle(cmd) {
			return
		}
	}
}

// handle processes a single command to completion. It reports true once the
// controller has shut down.
func (c *Controller) handle(cmd controllerCmd) (stop bool) {
	switch cm := cmd.(type) {
	case dispatchCmd:
		accepted := false
		c.safely(func() {
			if cm.event.Type.Inbound() {
				accepted = c.process(cm.ctx, cm.event)
			} else {
				c.ignore(cm.ctx, cm.event, "not_inbound")
			}
		})
		cm.replyCh <- Result{Accepted: accepted, View: c.view()}
	case timerCmd:
		c.safely(func() { c.handleTimer(cm) })
	case viewCmd:
		cm.replyCh <- c.view()
	case subscribeCmd:
		c.handleSubscribe(cm)
	case unsubscribeCmd:
		if ch, ok := c.subscribers[cm.id]; ok {
			delete(c.subscribers, cm.id)
			close(ch)
		}
	case stopCmd:
		c.handleStop()
		return true
	default:
		slog.Warn("Kiosk controller received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
	}
	return false
}

// safely runs fn and, outside strict mode, turns a panic into a return to idle
// so an unattended kiosk never halts.
func (c *Controller) safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if c.strict {
				panic(r)
			}
			slog.Error("Kiosk controller panic recovered, returning to idle", "panic", r)
			c.recorder.ContractFault()
			c.reset()
		}
	}()
	fn()
}

func (c *Controller) handleTimer(cm timerCmd) {
	if cm.generation != c.generation || cm.screen != c.screen {
		slog.Debug("Dropping stale timer", "timer", cm.kind.String(), "scheduled_for", cm.screen, "screen", c.screen)
		c.recorder.TimerStale(cm.kind.String())
		return
	}
	c.timer = nil

	ctx := correlation.WithSource(correlation.Ensure(context.Background()), correlation.SourceTimer)
	c.process(ctx, domain.Event{Type: cm.kind.event()})
}

// process evaluates the transition table, issues the store command and
// enters the next screen. It reports whether the event was accepted.
func (c *Controller) process(ctx context.Context, ev domain.Event) bool {
	state := State{
		Screen:         c.screen,
		Countdown:      c.countdown,
		SchoolSelected: c.store.Current().School != "",
	}

	step, err := Next(state, ev, c.content)
	if err != nil {
		c.ignore(ctx, ev, misuseReason(err))
		return false
	}

	if err := c.applyEffect(step.Effect, ev); err != nil {
		c.contractViolation(ctx, ev, err)
		return false
	}

	from := c.screen
	c.screen = step.To
	c.countdown = step.Countdown
	c.armTimer()

	c.recorder.EventAccepted(ev.Type)
	if from != step.To {
		c.recorder.ScreenChanged(from, step.To)
		slog.InfoContext(ctx, "Screen transition", "from", from, "to", step.To, "event", ev.Type)
	} else {
		slog.DebugContext(ctx, "Screen self-loop", "screen", from, "event", ev.Type, "countdown", c.countdown)
	}

	c.publish()
	return true
}

func (c *Controller) applyEffect(effect Effect, ev domain.Event) error {
	switch effect {
	case EffectBeginSession:
		c.store.Begin()
		c.recorder.VisitStarted()
	case EffectSetSchool:
		if err := c.store.SetSchool(ev.Value); err != nil {
			return err
		}
	case EffectRecordAnswer:
		if err := c.store.RecordAnswer(ev.Value); err != nil {
			return err
		}
	case EffectClearSession:
		c.store.Clear()
		c.recorder.VisitCompleted()
	}
	return nil
}

// armTimer cancels whatever timer belonged to the previous step and starts
// the one the current screen needs.
func (c *Controller) armTimer() {
	c.cancelTimer()

	switch c.screen {
	case domain.ScreenScan:
		c.schedule(timerScan, ScanDelay)
	case domain.ScreenEnd:
		c.schedule(timerCountdown, CountdownTick)
	}
}

func (c *Controller) schedule(kind timerKind, d time.Duration) {
	c.generation++
	cmd := timerCmd{kind: kind, screen: c.screen, generation: c.generation}

	c.timer = c.clock.AfterFunc(d, func() {
		c.recorder.TimerFired(kind.String())
		select {
		case c.cmdCh <- cmd:
		case <-c.stopped:
		}
	})
}

func (c *Controller) cancelTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) ignore(ctx context.Context, ev domain.Event, reason string) {
	slog.DebugContext(ctx, "Ignoring event", "event", ev.Type, "screen", c.screen, "reason", reason)
	c.recorder.EventIgnored(ev.Type, reason)
}

// contractViolation handles a store command the controller should never
// have issued. Strict mode turns it into a fatal assertion.
func (c *Controller) contractViolation(ctx context.Context, ev domain.Event, err error) {
	if c.strict {
		panic(fmt.Sprintf("kiosk contract violation on %s in %s: %v", ev.Type, c.screen, err))
	}
	slog.WarnContext(ctx, "Store rejected controller command, staying on screen", "event", ev.Type, "screen", c.screen, "error", err)
	c.recorder.ContractFault()
	c.recorder.EventIgnored(ev.Type, "contract_fault")
}

func (c *Controller) reset() {
	c.cancelTimer()
	c.store.Clear()
	if c.screen != domain.ScreenIdle {
		c.recorder.ScreenChanged(c.screen, domain.ScreenIdle)
	}
	initial := Initial()
	c.screen = initial.Screen
	c.countdown = initial.Countdown
	c.publish()
}

func (c *Controller) handleSubscribe(cm subscribeCmd) {
	c.nextSubID++
	ch := make(chan domain.View, subscriberBuffer)
	c.subscribers[c.nextSubID] = ch
	ch <- c.view()
	cm.replyCh <- subscription{id: c.nextSubID, ch: ch}
}

func (c *Controller) publish() {
	if len(c.subscribers) == 0 {
		return
	}
	v := c.view()
	for id, ch := range c.subscribers {
		select {
		case ch <- v:
			continue
		default:
		}

		// Full buffer: evict the oldest snapshot so the newest one always lands.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
			slog.Debug("Subscriber not keeping up, replaced oldest view", "subscriber", id)
		default:
		}
	}
}

func (c *Controller) handleStop() {
	close(c.stopped)
	c.cancelTimer()
	c.store.Clear()

	for id, ch := range c.subscribers {
		close(ch)
		delete(c.subscribers, id)
	}
	slog.Info("Kiosk controller shutting down", "screen", c.screen)
}

func (c *Controller) view() domain.View {
	sess := c.store.Current()
	v := domain.View{Screen: c.screen, Session: sess}

	switch c.screen {
	case domain.ScreenWelcome:
		v.CanContinue = sess.School != ""
	case domain.ScreenResult:
		v.CanContinue = true
		if sess.Answered() {
			v.Explanation = c.content.Quiz.Explanation(*sess.IsCorrect)
		}
	case domain.ScreenReward:
		v.CanContinue = true
	case domain.ScreenEnd:
		v.Countdown = c.countdown
	}
	return v
}
