// Package sockethub owns the process-wide UDP socket pair shared by all
// translation cabins. Inbound datagrams from the SFU are demultiplexed to
// cabins by SSRC; outbound packets from every cabin leave through one send
// socket.
package sockethub

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/voxrelay/voxrelay/internal/observability"
	"github.com/voxrelay/voxrelay/internal/ports"
	"github.com/voxrelay/voxrelay/internal/rtp"
)

const (
	recvBufferSize = 1 << 20 // 1 MiB SO_RCVBUF on the receive socket
	maxDatagram    = 4096
	readTimeout    = time.Second
)

// Errors returned by Register.
var (
	ErrAlreadyRegistered = errors.New("sockethub: cabin already registered")
	ErrPortsExhausted    = errors.New("sockethub: port allocation failed")
	ErrNotRunning        = errors.New("sockethub: hub not running")
)

// Callback receives raw RTP datagrams for one cabin, invoked from the
// router goroutine in arrival order.
type Callback func(datagram []byte)

// PortPair is a cabin's virtual port reservation, reported back to the
// SFU and visible on the stats endpoint. Traffic does not actually flow
// over these ports.
type PortPair struct {
	RX int `json:"rx_port"`
	TX int `json:"tx_port"`
}

// Stats is a snapshot of hub state for the admin endpoint.
type Stats struct {
	Running          bool     `json:"running"`
	RegisteredCabins int      `json:"registered_cabins"`
	CabinKeys        []string `json:"cabin_list"`
}

// Hub is the shared socket manager. One per process.
type Hub struct {
	mu sync.Mutex

	rxConn *net.UDPConn
	txConn *net.UDPConn

	ssrcToCabin map[uint32]string
	cabinToSSRC map[string]uint32
	callbacks   map[string]Callback
	cabinPorts  map[string]PortPair

	allocator *ports.Allocator
	metrics   *observability.Metrics
	logger    zerolog.Logger

	running bool
	done    chan struct{}
}

// New creates a hub backed by the given port allocator.
func New(allocator *ports.Allocator, metrics *observability.Metrics, logger zerolog.Logger) *Hub {
	return &Hub{
		ssrcToCabin: make(map[uint32]string),
		cabinToSSRC: make(map[string]uint32),
		callbacks:   make(map[string]Callback),
		cabinPorts:  make(map[string]PortPair),
		allocator:   allocator,
		metrics:     metrics,
		logger:      logger.With().Str("component", "socket-hub").Logger(),
	}
}

// Start binds both sockets and launches the router goroutine. A bind
// failure on the receive socket is fatal to the caller.
func (h *Hub) Start(rxPort, txSourcePort int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return nil
	}

	rxAddr := &net.UDPAddr{IP: net.IPv4zero, Port: rxPort}
	rxConn, err := net.ListenUDP("udp4", rxAddr)
	if err != nil {
		return fmt.Errorf("sockethub: bind rx %d: %w", rxPort, err)
	}
	if err := rxConn.SetReadBuffer(recvBufferSize); err != nil {
		h.logger.Warn().Err(err).Msg("failed to set receive buffer size")
	}

	// Bind a source port on the send socket only when the SFU expects
	// symmetric flows (comedia disabled).
	var txConn *net.UDPConn
	if txSourcePort > 0 {
		txConn, err = net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: txSourcePort})
	} else {
		txConn, err = net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	}
	if err != nil {
		_ = rxConn.Close()
		return fmt.Errorf("sockethub: bind tx: %w", err)
	}

	h.rxConn = rxConn
	h.txConn = txConn
	h.running = true
	h.done = make(chan struct{})

	go h.route()

	h.logger.Info().
		Int("rx_port", rxPort).
		Int("tx_source_port", txSourcePort).
		Msg("shared sockets bound, router started")
	return nil
}

// Register adds a cabin to the routing tables and reserves its virtual
// port pair. Fails if either port allocation fails; nothing is leaked on
// failure.
func (h *Hub) Register(cabinKey string, ssrc uint32, cb Callback) (PortPair, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return PortPair{}, ErrNotRunning
	}
	if _, ok := h.cabinToSSRC[cabinKey]; ok {
		return PortPair{}, ErrAlreadyRegistered
	}

	rx := h.allocator.Allocate(0)
	tx := h.allocator.Allocate(0)
	if rx == 0 || tx == 0 {
		if rx != 0 {
			h.allocator.Release(rx)
		}
		if tx != 0 {
			h.allocator.Release(tx)
		}
		return PortPair{}, ErrPortsExhausted
	}

	pair := PortPair{RX: rx, TX: tx}
	h.ssrcToCabin[ssrc] = cabinKey
	h.cabinToSSRC[cabinKey] = ssrc
	h.callbacks[cabinKey] = cb
	h.cabinPorts[cabinKey] = pair

	h.logger.Info().
		Str("cabin", cabinKey).
		Uint32("ssrc", ssrc).
		Int("rx_port", rx).
		Int("tx_port", tx).
		Msg("cabin registered for routing")
	return pair, nil
}

// Unregister removes a cabin and releases its ports. Idempotent.
func (h *Hub) Unregister(cabinKey string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	ssrc, ok := h.cabinToSSRC[cabinKey]
	if ok {
		delete(h.ssrcToCabin, ssrc)
	}
	delete(h.cabinToSSRC, cabinKey)
	delete(h.callbacks, cabinKey)

	if pair, had := h.cabinPorts[cabinKey]; had {
		h.allocator.Release(pair.RX)
		h.allocator.Release(pair.TX)
		delete(h.cabinPorts, cabinKey)
	}

	if ok {
		h.logger.Info().Str("cabin", cabinKey).Uint32("ssrc", ssrc).Msg("cabin unregistered")
	}
	return ok
}

// Rekey atomically moves a cabin's routing entry to a new key, preserving
// SSRC, callback, and ports. Used when a language change renames a cabin.
func (h *Hub) Rekey(oldKey, newKey string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	ssrc, ok := h.cabinToSSRC[oldKey]
	if !ok {
		return false
	}

	h.cabinToSSRC[newKey] = ssrc
	h.ssrcToCabin[ssrc] = newKey
	h.callbacks[newKey] = h.callbacks[oldKey]
	h.cabinPorts[newKey] = h.cabinPorts[oldKey]

	delete(h.cabinToSSRC, oldKey)
	delete(h.callbacks, oldKey)
	delete(h.cabinPorts, oldKey)
	return true
}

// Send transmits one RTP packet to the SFU. Errors are counted and
// logged, never propagated: a lost outbound packet is not a cabin
// failure.
func (h *Hub) Send(packet []byte, host string, port int) bool {
	h.mu.Lock()
	conn := h.txConn
	h.mu.Unlock()

	if conn == nil {
		return false
	}

	addr := &net.UDPAddr{IP: net.ParseIP(host), Port: port}
	if addr.IP == nil {
		resolved, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", host, port))
		if err != nil {
			h.logger.Error().Err(err).Str("host", host).Msg("failed to resolve SFU address")
			if h.metrics != nil {
				h.metrics.SendErrors.Inc()
			}
			return false
		}
		addr = resolved
	}

	n, err := conn.WriteToUDP(packet, addr)
	if err != nil {
		h.logger.Error().Err(err).Str("host", host).Int("port", port).Msg("rtp send failed")
		if h.metrics != nil {
			h.metrics.SendErrors.Inc()
		}
		return false
	}
	if h.metrics != nil {
		h.metrics.PacketsSent.Inc()
	}
	return n > 0
}

// route is the single router goroutine. It owns all reads on the receive
// socket, which makes per-SSRC callback ordering match arrival order.
func (h *Hub) route() {
	defer close(h.done)
	buf := make([]byte, maxDatagram)

	for {
		h.mu.Lock()
		running := h.running
		conn := h.rxConn
		h.mu.Unlock()
		if !running || conn == nil {
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			h.mu.Lock()
			running = h.running
			h.mu.Unlock()
			if running {
				h.logger.Error().Err(err).Msg("router read error")
				time.Sleep(100 * time.Millisecond)
			}
			continue
		}

		if h.metrics != nil {
			h.metrics.PacketsReceived.Inc()
		}

		ssrc, ok := rtp.SSRC(buf[:n])
		if !ok {
			if h.metrics != nil {
				h.metrics.PacketsDropped.WithLabelValues("too_short").Inc()
			}
			continue
		}

		datagram := make([]byte, n)
		copy(datagram, buf[:n])
		h.dispatch(ssrc, datagram)
	}
}

// dispatch routes one datagram to its cabin. When the SSRC is unknown and
// exactly one cabin is registered, the hub adopts the observed SSRC for
// that cabin and delivers the packet immediately: mediasoup picks the
// producer SSRC, so the first packet teaches us the real value.
func (h *Hub) dispatch(ssrc uint32, datagram []byte) {
	h.mu.Lock()

	cabinKey, ok := h.ssrcToCabin[ssrc]
	if !ok && len(h.cabinToSSRC) == 1 {
		for key, oldSSRC := range h.cabinToSSRC {
			cabinKey = key
			delete(h.ssrcToCabin, oldSSRC)
			h.cabinToSSRC[key] = ssrc
			h.ssrcToCabin[ssrc] = key
			ok = true
			h.logger.Info().
				Str("cabin", key).
				Uint32("old_ssrc", oldSSRC).
				Uint32("new_ssrc", ssrc).
				Msg("auto-learned cabin SSRC")
		}
	}

	var cb Callback
	if ok {
		cb = h.callbacks[cabinKey]
	}
	h.mu.Unlock()

	if cb == nil {
		if h.metrics != nil {
			h.metrics.PacketsDropped.WithLabelValues("unknown_ssrc").Inc()
		}
		return
	}

	cb(datagram)
	if h.metrics != nil {
		h.metrics.PacketsRouted.Inc()
	}
}

// SSRCFor returns the currently registered SSRC for a cabin.
func (h *Hub) SSRCFor(cabinKey string) (uint32, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ssrc, ok := h.cabinToSSRC[cabinKey]
	return ssrc, ok
}

// Stats returns a snapshot for the admin endpoint.
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	keys := make([]string, 0, len(h.cabinToSSRC))
	for k := range h.cabinToSSRC {
		keys = append(keys, k)
	}
	return Stats{
		Running:          h.running,
		RegisteredCabins: len(h.cabinToSSRC),
		CabinKeys:        keys,
	}
}

// Stop shuts the router down, closes both sockets, and clears the routing
// tables.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	done := h.done
	h.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-time.After(2 * readTimeout):
			h.logger.Warn().Msg("router did not stop in time")
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rxConn != nil {
		_ = h.rxConn.Close()
		h.rxConn = nil
	}
	if h.txConn != nil {
		_ = h.txConn.Close()
		h.txConn = nil
	}

	for key, pair := range h.cabinPorts {
		h.allocator.Release(pair.RX)
		h.allocator.Release(pair.TX)
		delete(h.cabinPorts, key)
	}
	h.ssrcToCabin = make(map[uint32]string)
	h.cabinToSSRC = make(map[string]uint32)
	h.callbacks = make(map[string]Callback)

	h.logger.Info().Msg("socket hub stopped")
}
