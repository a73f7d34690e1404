// Copyright 2024 MaxJon233. All rights reserved.

package driver

import (
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
)

type testDriver struct {
	name   string
	opened bool
}

func (d *testDriver) Open() (GPU, error) {
	d.opened = true
	return nil, ErrNoDevice
}

func (d *testDriver) Name() string { return d.name }
func (d *testDriver) Close()       { d.opened = false }

func TestRegister(t *testing.T) {
	log.SetOutput(io.Discard)
	mu.Lock()
	saved := drivers
	drivers = nil
	mu.Unlock()
	defer func() {
		mu.Lock()
		drivers = saved
		mu.Unlock()
	}()

	a := &testDriver{name: "a"}
	b := &testDriver{name: "b"}
	Register(a)
	Register(b)
	drv := Drivers()
	if len(drv) != 2 {
		t.Fatalf("Drivers:\nhave %d\nwant 2", len(drv))
	}
	if drv[0].Name() != "a" || drv[1].Name() != "b" {
		t.Fatalf("Drivers order:\nhave %s, %s\nwant a, b", drv[0].Name(), drv[1].Name())
	}
	// Same name replaces.
	a2 := &testDriver{name: "a"}
	Register(a2)
	drv = Drivers()
	if len(drv) != 2 {
		t.Fatalf("Drivers after replace:\nhave %d\nwant 2", len(drv))
	}
	if drv[0] != Driver(a2) {
		t.Fatal("replacement driver not installed")
	}
	// Drivers returns a copy.
	drv[0] = b
	if Drivers()[0] != Driver(a2) {
		t.Fatal("Drivers exposed internal state")
	}
}
