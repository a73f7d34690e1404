// Copyright 2024 MaxJon233. All rights reserved.

package rhi

import (
	"strconv"

	"github.com/gobuffalo/envy"
)

// Config is used to configure the backend.
type Config struct {
	// The number of frames that may be in flight
	// simultaneously. Each in-flight frame owns one
	// slot of per-frame constant storage.
	//
	// Default is 3.
	InFlightFrames int

	// The byte size of one slot's per-frame constant
	// buffer. Must match the host's DrawFrameContext
	// blob size or exceed it.
	//
	// Default is 4096 bytes.
	PerFrameSize int64

	// The byte size of one slot's light-info buffer.
	//
	// Default is 16384 bytes.
	LightInfoSize int64

	// The color that render passes clear their target to.
	//
	// Default is (0.2, 0.3, 0.4, 1.0).
	ClearColor [4]float32
}

const (
	dflInFlightFrames = 3
	dflPerFrameSize   = 4096
	dflLightInfoSize  = 16384
)

// DefaultConfig returns the default configuration.
// The in-flight frame count and buffer sizes can be
// overridden through the RHI_IN_FLIGHT_FRAMES,
// RHI_PER_FRAME_SIZE and RHI_LIGHT_INFO_SIZE environment
// variables.
func DefaultConfig() Config {
	cfg := Config{
		InFlightFrames: envInt("RHI_IN_FLIGHT_FRAMES", dflInFlightFrames),
		PerFrameSize:   int64(envInt("RHI_PER_FRAME_SIZE", dflPerFrameSize)),
		LightInfoSize:  int64(envInt("RHI_LIGHT_INFO_SIZE", dflLightInfoSize)),
		ClearColor:     [4]float32{0.2, 0.3, 0.4, 1},
	}
	return cfg
}

// envInt reads an integer environment override.
// Values that do not parse, or that are not positive,
// fall back to the default.
func envInt(key string, dfl int) int {
	s := envy.Get(key, strconv.Itoa(dfl))
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		logger.Warnf("%s: invalid value %q, using %d", key, s, dfl)
		return dfl
	}
	return n
}
