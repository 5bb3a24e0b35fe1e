// Package rtp wraps RTP packet handling for the relay: parsing inbound
// datagrams from the SFU and building the outbound Opus stream.
package rtp

import (
	"encoding/binary"
	"errors"
	"math/rand"
	"sync"
	"time"

	pionrtp "github.com/pion/rtp"
)

const (
	// MinPacketSize is the fixed RTP header length; anything shorter is noise.
	MinPacketSize = 12

	// ClockRate is the RTP clock for Opus.
	ClockRate = 48000

	// TimestampStep is the timestamp increment per 20 ms frame at 48 kHz.
	TimestampStep = 960

	// OutboundPayloadType is the payload type stamped on packets sent to the SFU.
	OutboundPayloadType = 100
)

// Errors returned by Parse.
var (
	ErrPacketTooShort = errors.New("rtp: packet shorter than header")
	ErrBadVersion     = errors.New("rtp: unsupported version")
)

// Packet is a parsed inbound RTP packet.
type Packet struct {
	PayloadType uint8
	Sequence    uint16
	Timestamp   uint32
	SSRC        uint32
	Marker      bool
	Payload     []byte
}

// Parse validates and decodes an RTP datagram. CSRC entries, header
// extensions, and trailing padding are consumed so Payload holds only
// codec data.
func Parse(data []byte) (*Packet, error) {
	if len(data) < MinPacketSize {
		return nil, ErrPacketTooShort
	}
	if version := data[0] >> 6; version != 2 {
		return nil, ErrBadVersion
	}

	var pkt pionrtp.Packet
	if err := pkt.Unmarshal(data); err != nil {
		return nil, err
	}

	return &Packet{
		PayloadType: pkt.PayloadType,
		Sequence:    pkt.SequenceNumber,
		Timestamp:   pkt.Timestamp,
		SSRC:        pkt.SSRC,
		Marker:      pkt.Marker,
		Payload:     pkt.Payload,
	}, nil
}

// SSRC extracts the synchronization source from a raw datagram without a
// full parse. The router uses this on every received packet.
func SSRC(data []byte) (uint32, bool) {
	if len(data) < MinPacketSize {
		return 0, false
	}
	return binary.BigEndian.Uint32(data[8:12]), true
}

// Build assembles an RTP packet with a plain 12-byte header (no padding,
// no extension, no CSRCs, marker clear).
func Build(payload []byte, payloadType uint8, sequence uint16, timestamp, ssrc uint32) ([]byte, error) {
	pkt := pionrtp.Packet{
		Header: pionrtp.Header{
			Version:        2,
			PayloadType:    payloadType,
			SequenceNumber: sequence,
			Timestamp:      timestamp,
			SSRC:           ssrc,
		},
		Payload: payload,
	}
	return pkt.Marshal()
}

// OutboundState tracks sequence and timestamp for one cabin's outbound
// stream. The sequence starts at a random point and the timestamp is
// seeded from the wall clock so restarts do not replay old positions.
type OutboundState struct {
	mu        sync.Mutex
	ssrc      uint32
	seq       uint16
	timestamp uint32
	seeded    bool
}

// NewOutboundState creates outbound RTP state for the given SSRC.
func NewOutboundState(ssrc uint32) *OutboundState {
	return &OutboundState{ssrc: ssrc}
}

// Next advances the stream by one 20 ms frame and returns the sequence
// number and timestamp to stamp on the packet.
func (s *OutboundState) Next() (uint16, uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seeded {
		s.seq = uint16(rand.Intn(1 << 16))
		s.timestamp = uint32(time.Now().Unix() * ClockRate)
		s.seeded = true
	}

	s.seq++
	s.timestamp += TimestampStep
	return s.seq, s.timestamp
}

// SSRC returns the stream's synchronization source.
func (s *OutboundState) SSRC() uint32 {
	return s.ssrc
}
