package mux

import (
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/cachemir/cachemir/internal/op"
	"github.com/cachemir/cachemir/pkg/config"
)

const defaultBufferSize = 16 * 1024

// Pool is the exported multiplexer of spec §6: a single-threaded,
// non-blocking I/O loop over a fixed set of connections, fed by any
// number of producer goroutines through addOperation.
type Pool struct {
	nodes  []*Node
	sel    Selector
	loop   *loopState
	log    *zap.SugaredLogger

	shutdown atomic.Bool
	mu       sync.Mutex // serializes HandleIO against concurrent Shutdown
}

// NewPool opens a non-blocking socket to every address in cfg.Nodes and
// registers it with a fresh platform Selector (spec §6 construct).
// Construction never blocks longer than socket initiation; connect
// completion is observed later by handleIO. A nil cfg behaves like
// config.DefaultPoolConfig() with no nodes, which is only useful for
// tests that add nodes out of band; real callers should pass a
// validated *config.PoolConfig.
func NewPool(cfg *config.PoolConfig, factory QueueFactory, log *zap.SugaredLogger) (*Pool, error) {
	if log == nil {
		z, _ := zap.NewProduction()
		log = z.Sugar()
	}
	if factory == nil {
		factory = DefaultQueueFactory{}
	}
	if cfg == nil {
		cfg = config.DefaultPoolConfig()
	}

	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	sel, err := newSelector()
	if err != nil {
		return nil, fmt.Errorf("create selector: %w", err)
	}

	p := &Pool{
		sel:  sel,
		loop: newLoopState(cfg.ExcessiveEmpty, cfg.ExcessiveErrors, cfg.MaxReconnectDelay, log),
		log:  log,
	}
	p.loop.optimizeGets = cfg.OptimizeGets

	for i, a := range cfg.Nodes {
		resolved, err := net.ResolveTCPAddr("tcp", a)
		if err != nil {
			sel.Close()
			return nil, fmt.Errorf("resolve %s: %w", a, err)
		}
		n := newNode(i, resolved, bufferSize, factory, log)
		if err := connectNode(n, sel, log); err != nil {
			log.Warnw("initial connect failed, queuing reconnect", "node", i, "address", a, "error", err)
			n.reconnectAttempt++
			p.loop.reconnects.Schedule(n, time.Now())
		}
		p.nodes = append(p.nodes, n)
	}

	return p, nil
}

// SetGetOptimization toggles GET coalescing (spec §6 setGetOptimization).
func (p *Pool) SetGetOptimization(enabled bool) {
	p.loop.optimizeGets = enabled
}

// GetNumConnections reports the configured node count (spec §6).
func (p *Pool) GetNumConnections() int { return len(p.nodes) }

// GetAddressOf returns node idx's remote address (spec §6).
func (p *Pool) GetAddressOf(idx int) net.Addr {
	if idx < 0 || idx >= len(p.nodes) {
		return nil
	}
	return p.nodes[idx].address
}

// AddOperation implements spec §4.G: enqueue onto the preferred node if
// healthy, else search circularly for a healthy node, falling back to
// the preferred node if everything is down.
func (p *Pool) AddOperation(preferredIdx int, operation op.Operation) error {
	if len(p.nodes) == 0 {
		return fmt.Errorf("mux: pool has no nodes")
	}
	if preferredIdx < 0 || preferredIdx >= len(p.nodes) {
		return fmt.Errorf("mux: node index %d out of range", preferredIdx)
	}

	target := p.nodes[preferredIdx]
	loops := 0
	pos := preferredIdx
	for loops < 3 {
		n := p.nodes[pos]
		if n.Healthy() {
			target = n
			break
		}
		pos++
		if pos >= len(p.nodes) {
			pos = 0
			loops++
		}
		if loops > 1 {
			target = p.nodes[preferredIdx]
			break
		}
	}

	operation.Initialize()
	target.addOp(operation)
	p.loop.handoff.Offer(target)
	p.sel.Wakeup()
	return nil
}

// HandleIO runs one iteration of the multiplexer loop (spec §6
// handleIO). It returns ErrShutdown once Shutdown has been called.
func (p *Pool) HandleIO() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shutdown.Load() {
		return ErrShutdown
	}
	return handleIO(p.loop, p.sel, p.nodes, time.Now())
}

// Run drives HandleIO in a loop until shutdown, for callers that want to
// dedicate a goroutine to the I/O thread rather than pump it themselves.
func (p *Pool) Run() error {
	for {
		if err := p.HandleIO(); err != nil {
			if err == ErrShutdown {
				return nil
			}
			return err
		}
	}
}

// Shutdown implements spec §6 shutdown: closes every channel and the
// selector; subsequent HandleIO calls fail with ErrShutdown.
func (p *Pool) Shutdown() {
	if !p.shutdown.CompareAndSwap(false, true) {
		return
	}
	p.sel.Wakeup()
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, n := range p.nodes {
		closeNode(n, p.sel)
	}
	_ = p.sel.Close()
}

// checkSelectors is the debug-only consistency check supplemented from
// the original source's selectorsMakeSense(): every registered node's
// interest set must match the function of its state defined by spec
// §4.E.iv.
func (p *Pool) checkSelectors() bool {
	for _, n := range p.nodes {
		if !n.registered {
			continue
		}
		want := n.interestSet()
		if want == 0 {
			p.log.Errorw("selector inconsistency: registered node with empty interest set", "node", n.id)
			return false
		}
	}
	return true
}

// String lists every node's address, supplemented from the original
// source's toString(), used for debug logging and cmd/poolctl's status
// output.
func (p *Pool) String() string {
	var b strings.Builder
	b.WriteString("Pool{")
	for i, n := range p.nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d:%s", n.id, n.address.String())
		if !n.Healthy() {
			fmt.Fprintf(&b, "(reconnecting, attempt=%d)", n.reconnectAttempt)
		}
	}
	b.WriteString("}")
	return b.String()
}
