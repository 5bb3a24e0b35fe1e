// Package ports tracks allocation of the UDP port range reserved for
// per-cabin RTP transports. Ports are bookkeeping entries for the SFU
// handshake; actual traffic flows over the shared socket pair.
package ports

import (
	"context"
	"net"
	"sort"
	"strconv"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// Stats describes the allocator state, exposed on the admin endpoint.
type Stats struct {
	PortRange      string `json:"port_range"`
	TotalPorts     int    `json:"total_ports"`
	UsedCount      int    `json:"used_ports_count"`
	AvailableCount int    `json:"available_ports_count"`
	UsedPorts      []int  `json:"used_ports"`
}

// Allocator hands out ports from an inclusive range, probing real
// availability with a trial bind. All operations are serialized by a
// single mutex.
type Allocator struct {
	mu     sync.Mutex
	lo     int
	hi     int
	used   map[int]struct{}
	logger zerolog.Logger
}

// NewAllocator creates an allocator for the inclusive range [lo, hi].
func NewAllocator(lo, hi int, logger zerolog.Logger) *Allocator {
	a := &Allocator{
		lo:     lo,
		hi:     hi,
		used:   make(map[int]struct{}),
		logger: logger.With().Str("component", "port-allocator").Logger(),
	}
	a.logger.Info().
		Int("lo", lo).
		Int("hi", hi).
		Int("total", hi-lo+1).
		Msg("port allocator initialized")
	return a
}

// Allocate returns a usable port. Strategy, in order:
//  1. If requested is non-zero and not already in use, trial-bind it and
//     return it on success.
//  2. Scan the range for the first unmarked port whose trial bind succeeds.
//  3. Return 0, meaning the OS should assign one; such ports are not tracked.
func (a *Allocator) Allocate(requested int) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	if requested != 0 {
		if _, taken := a.used[requested]; !taken && bindable(requested) {
			a.used[requested] = struct{}{}
			a.logger.Debug().Int("port", requested).Msg("allocated requested port")
			return requested
		}
		a.logger.Warn().Int("port", requested).Msg("requested port unavailable, scanning range")
	}

	for port := a.lo; port <= a.hi; port++ {
		if _, taken := a.used[port]; taken {
			continue
		}
		if bindable(port) {
			a.used[port] = struct{}{}
			a.logger.Debug().Int("port", port).Int("used", len(a.used)).Msg("allocated port")
			return port
		}
	}

	a.logger.Error().
		Int("lo", a.lo).
		Int("hi", a.hi).
		Int("used", len(a.used)).
		Msg("port range exhausted, falling back to OS assignment")
	return 0
}

// Release returns a port to the pool. Releasing an untracked port is a no-op.
func (a *Allocator) Release(port int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.used[port]; ok {
		delete(a.used, port)
		a.logger.Debug().Int("port", port).Msg("released port")
	}
}

// UsedCount returns the number of tracked ports.
func (a *Allocator) UsedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.used)
}

// Range returns the managed inclusive range.
func (a *Allocator) Range() (int, int) {
	return a.lo, a.hi
}

// Stats returns a read-only snapshot of allocator usage.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	used := make([]int, 0, len(a.used))
	for p := range a.used {
		used = append(used, p)
	}
	sort.Ints(used)

	total := a.hi - a.lo + 1
	return Stats{
		PortRange:      strconv.Itoa(a.lo) + "-" + strconv.Itoa(a.hi),
		TotalPorts:     total,
		UsedCount:      len(used),
		AvailableCount: total - len(used),
		UsedPorts:      used,
	}
}

// CleanupAll clears the used set. Emergency use only; live cabins still
// holding released ports will collide with future allocations.
func (a *Allocator) CleanupAll() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	released := len(a.used)
	a.used = make(map[int]struct{})
	if released > 0 {
		a.logger.Warn().Int("released", released).Msg("emergency port cleanup")
	}
	return released
}

// bindable probes a port with a short-lived UDP bind using address reuse,
// matching how the SFU side opens its transports.
func bindable(port int) bool {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}

	conn, err := lc.ListenPacket(context.Background(), "udp4", "0.0.0.0:"+strconv.Itoa(port))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
