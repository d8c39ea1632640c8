package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/memorytrail/internal/content"
	"github.com/pscheid92/memorytrail/internal/domain"
	"github.com/pscheid92/memorytrail/internal/kiosk"
	"github.com/pscheid92/memorytrail/internal/platform/config"
	"github.com/pscheid92/memorytrail/internal/session"
	"github.com/stretchr/testify/require"
)

const (
	waitFor   = 2 * time.Second
	pollEvery = 5 * time.Millisecond
)

type testServerOption func(*testServerSetup)

type testServerSetup struct {
	ctrl         kioskController
	healthChecks []HealthCheck
	rate         float64
	burst        int
}

func withController(ctrl kioskController) testServerOption {
	return func(s *testServerSetup) { s.ctrl = ctrl }
}

func withHealthChecks(checks ...HealthCheck) testServerOption {
	return func(s *testServerSetup) { s.healthChecks = checks }
}

func withEventRate(ratePerSecond float64, burst int) testServerOption {
	return func(s *testServerSetup) {
		s.rate = ratePerSecond
		s.burst = burst
	}
}

type testServer struct {
	*Server
	ctrl  *kiosk.Controller
	clock *clockwork.FakeClock
}

// newTestServer wires a live controller on a fake clock unless a stub is
// supplied.
func newTestServer(t *testing.T, opts ...testServerOption) *testServer {
	t.Helper()

	setup := &testServerSetup{rate: 1000, burst: 1000}
	for _, opt := range opts {
		opt(setup)
	}

	clock := clockwork.NewFakeClockAt(time.Now())
	c := content.Default()

	var live *kiosk.Controller
	if setup.ctrl == nil {
		live = kiosk.NewController(session.NewStore(c.Quiz), c, clock)
		t.Cleanup(live.Stop)
		setup.ctrl = live
	}

	cfg := &config.Config{
		AppEnv:             "test",
		ListenAddr:         "127.0.0.1:8080",
		EventRatePerSecond: setup.rate,
		EventRateBurst:     setup.burst,
	}

	srv := NewServer(cfg, setup.ctrl, c, clock, prometheus.NewRegistry(), setup.healthChecks)
	return &testServer{Server: srv, ctrl: live, clock: clock}
}

func (ts *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = testRemoteAddr
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

// advanceUntil moves the fake clock and waits for the controller to reach want.
func (ts *testServer) advanceUntil(t *testing.T, d time.Duration, want domain.Screen) {
	t.Helper()
	ts.clock.Advance(d)
	require.Eventually(t, func() bool {
		v, err := ts.ctrl.State(context.Background())
		return err == nil && v.Screen == want
	}, waitFor, pollEvery, "controller never reached %s", want)
}

type stubController struct {
	dispatchFn  func(ctx context.Context, ev domain.Event) (kiosk.Result, error)
	stateFn     func(ctx context.Context) (domain.View, error)
	subscribeFn func(ctx context.Context) (<-chan domain.View, func(), error)
}

func (s *stubController) Dispatch(ctx context.Context, ev domain.Event) (kiosk.Result, error) {
	if s.dispatchFn != nil {
		return s.dispatchFn(ctx, ev)
	}
	return kiosk.Result{}, domain.ErrControllerStopped
}

func (s *stubController) State(ctx context.Context) (domain.View, error) {
	if s.stateFn != nil {
		return s.stateFn(ctx)
	}
	return domain.View{}, domain.ErrControllerStopped
}

func (s *stubController) Subscribe(ctx context.Context) (<-chan domain.View, func(), error) {
	if s.subscribeFn != nil {
		return s.subscribeFn(ctx)
	}
	return nil, nil, domain.ErrControllerStopped
}
