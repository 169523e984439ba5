package ports

import (
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog/log"
)

var ErrNoFreePort = errors.New("ports: no free port available")

// Allocate reserves one OS-assigned loopback TCP port and releases it.
func Allocate() (uint16, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoFreePort, err)
	}
	defer ln.Close()

	addr, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("%w: unexpected listener address %q", ErrNoFreePort, ln.Addr())
	}
	return uint16(addr.Port), nil
}

// AllocateOrDefault returns an OS-assigned port, or fallback when allocation fails.
// Allocation failure is logged and never propagated.
func AllocateOrDefault(fallback uint16) uint16 {
	port, err := Allocate()
	if err != nil {
		log.Warn().Err(err).Uint16("fallback", fallback).Msg("port_allocation_failed")
		return fallback
	}
	return port
}
