package sockethub

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxrelay/voxrelay/internal/ports"
	"github.com/voxrelay/voxrelay/internal/rtp"
)

func newTestHub(t *testing.T) (*Hub, int) {
	t.Helper()

	alloc := ports.NewAllocator(36500, 36580, zerolog.Nop())
	h := New(alloc, nil, zerolog.Nop())

	// Let the OS pick the rx port to keep parallel tests from colliding.
	probe, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	require.NoError(t, err)
	rxPort := probe.LocalAddr().(*net.UDPAddr).Port
	require.NoError(t, probe.Close())

	require.NoError(t, h.Start(rxPort, 0))
	t.Cleanup(h.Stop)
	return h, rxPort
}

func sendDatagram(t *testing.T, port int, payload []byte) {
	t.Helper()
	conn, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port})
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write(payload)
	require.NoError(t, err)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestRegisterAllocatesPorts(t *testing.T) {
	h, _ := newTestHub(t)

	pair, err := h.Register("R1_U1_vi_en", 1234, func([]byte) {})
	require.NoError(t, err)
	assert.NotZero(t, pair.RX)
	assert.NotZero(t, pair.TX)
	assert.NotEqual(t, pair.RX, pair.TX)

	_, err = h.Register("R1_U1_vi_en", 1234, func([]byte) {})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestUnregisterReleasesPorts(t *testing.T) {
	alloc := ports.NewAllocator(36600, 36660, zerolog.Nop())
	h := New(alloc, nil, zerolog.Nop())
	require.NoError(t, h.Start(0, 0))
	defer h.Stop()

	before := alloc.UsedCount()
	_, err := h.Register("R1_U1_vi_en", 42, func([]byte) {})
	require.NoError(t, err)
	assert.Equal(t, before+2, alloc.UsedCount())

	assert.True(t, h.Unregister("R1_U1_vi_en"))
	assert.Equal(t, before, alloc.UsedCount())

	// Idempotent
	assert.False(t, h.Unregister("R1_U1_vi_en"))
	assert.Equal(t, before, alloc.UsedCount())
}

func TestRouterDeliversBySSRC(t *testing.T) {
	h, rxPort := newTestHub(t)

	var mu sync.Mutex
	var got [][]byte
	_, err := h.Register("R1_U1_vi_en", 0xAABBCCDD, func(d []byte) {
		mu.Lock()
		got = append(got, d)
		mu.Unlock()
	})
	require.NoError(t, err)

	pkt, err := rtp.Build([]byte{0x01, 0x02, 0x03, 0x04}, 100, 7, 960, 0xAABBCCDD)
	require.NoError(t, err)
	sendDatagram(t, rxPort, pkt)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	})

	mu.Lock()
	assert.Equal(t, pkt, got[0])
	mu.Unlock()
}

func TestRouterDropsShortDatagrams(t *testing.T) {
	h, rxPort := newTestHub(t)

	delivered := make(chan struct{}, 1)
	_, err := h.Register("R1_U1_vi_en", 99, func([]byte) {
		delivered <- struct{}{}
	})
	require.NoError(t, err)

	sendDatagram(t, rxPort, []byte{0x80, 0x64, 0x00}) // 3 bytes, not RTP

	select {
	case <-delivered:
		t.Fatal("short datagram must not reach the cabin")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestAutoLearnSingleCabin(t *testing.T) {
	h, rxPort := newTestHub(t)

	var mu sync.Mutex
	var delivered int
	_, err := h.Register("R1_U1_vi_en", 1111, func([]byte) {
		mu.Lock()
		delivered++
		mu.Unlock()
	})
	require.NoError(t, err)

	// Packet with a different SSRC than registered
	pkt, err := rtp.Build([]byte{0xFF}, 100, 1, 960, 2222)
	require.NoError(t, err)
	sendDatagram(t, rxPort, pkt)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return delivered == 1
	})

	ssrc, ok := h.SSRCFor("R1_U1_vi_en")
	assert.True(t, ok)
	assert.Equal(t, uint32(2222), ssrc)
}

func TestNoAutoLearnWithTwoCabins(t *testing.T) {
	h, rxPort := newTestHub(t)

	hit := make(chan string, 2)
	_, err := h.Register("R1_U1_vi_en", 1111, func([]byte) { hit <- "one" })
	require.NoError(t, err)
	_, err = h.Register("R1_U2_en_vi", 3333, func([]byte) { hit <- "two" })
	require.NoError(t, err)

	pkt, err := rtp.Build([]byte{0xFF}, 100, 1, 960, 5555)
	require.NoError(t, err)
	sendDatagram(t, rxPort, pkt)

	select {
	case c := <-hit:
		t.Fatalf("unknown SSRC delivered to cabin %s", c)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRekeyPreservesRouting(t *testing.T) {
	h, rxPort := newTestHub(t)

	var mu sync.Mutex
	var delivered int
	pair, err := h.Register("R1_U1_vi_en", 777, func([]byte) {
		mu.Lock()
		delivered++
		mu.Unlock()
	})
	require.NoError(t, err)

	require.True(t, h.Rekey("R1_U1_vi_en", "R1_U1_en_vi"))

	ssrc, ok := h.SSRCFor("R1_U1_en_vi")
	require.True(t, ok)
	assert.Equal(t, uint32(777), ssrc)
	_, ok = h.SSRCFor("R1_U1_vi_en")
	assert.False(t, ok)

	// Routing still works under the new key
	pkt, err := rtp.Build([]byte{0x01}, 100, 1, 960, 777)
	require.NoError(t, err)
	sendDatagram(t, rxPort, pkt)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return delivered == 1
	})

	// Unregister under the new key releases the original ports
	assert.True(t, h.Unregister("R1_U1_en_vi"))
	_ = pair
}

func TestSendToLoopback(t *testing.T) {
	h, _ := newTestHub(t)

	sink, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	defer sink.Close()
	sinkPort := sink.LocalAddr().(*net.UDPAddr).Port

	pkt, err := rtp.Build([]byte{0x01, 0x02}, 100, 1, 960, 7)
	require.NoError(t, err)
	assert.True(t, h.Send(pkt, "127.0.0.1", sinkPort))

	buf := make([]byte, 1500)
	require.NoError(t, sink.SetReadDeadline(time.Now().Add(time.Second)))
	n, _, err := sink.ReadFromUDP(buf)
	require.NoError(t, err)
	assert.Equal(t, pkt, buf[:n])
}
