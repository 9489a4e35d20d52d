// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package comm implements the communication instruction contract
// (spec.md 6.3, optional dialect layer): addressed send/receive ladder
// instructions with an IDLE -> PENDING -> TERMINAL status lifecycle
// over a pluggable Transport. Grounded on gopool/pipechan.go's
// goroutine-pair request/response channel, adapted from an OS pipe
// into an abstract, context-cancelable async call.
package comm

import (
	"context"

	"github.com/aclements/go-ladder/value"
)

// FunctionCode enumerates the Modbus-style function codes spec.md 6.3
// names (spec.md: "function code from the enumerated set
// {1,2,3,4,5,6,15,16}").
type FunctionCode int

const (
	FCReadCoils              FunctionCode = 1
	FCReadDiscreteInputs     FunctionCode = 2
	FCReadHoldingRegisters   FunctionCode = 3
	FCReadInputRegisters     FunctionCode = 4
	FCWriteSingleCoil        FunctionCode = 5
	FCWriteSingleRegister    FunctionCode = 6
	FCWriteMultipleCoils     FunctionCode = 15
	FCWriteMultipleRegisters FunctionCode = 16
)

// IsCoil reports whether fc's payload is coil-valued (converts to
// BOOL) rather than register-valued (converts to an unsigned 16-bit
// WORD), per spec.md 6.3's value conversion rule.
func (fc FunctionCode) IsCoil() bool {
	switch fc {
	case FCReadCoils, FCReadDiscreteInputs, FCWriteSingleCoil, FCWriteMultipleCoils:
		return true
	default:
		return false
	}
}

// Endpoint is the target device address (spec.md 6.3: "target
// endpoint (host, port, device id)").
type Endpoint struct {
	Host     string
	Port     int
	DeviceID byte
}

// Request is one outbound communication transaction.
type Request struct {
	Endpoint Endpoint
	Function FunctionCode
	Address  int
	Count    int
	// Values carries the write-direction payload for a write function
	// code; empty for a read.
	Values []value.Value
}

// Response is a completed transaction's result.
type Response struct {
	Values []value.Value
	// ExceptionCode is 0 for a clean response, or the protocol
	// exception code the remote device returned (spec.md 6.3: "a
	// protocol exception sets it to the received code").
	ExceptionCode int
}

// Result is delivered on a Transport's returned channel exactly once.
type Result struct {
	Response Response
	// Err is non-nil for a transport or timeout failure (spec.md 6.3:
	// "Transport/timeout failure sets exception_response=0").
	Err error
}

// Transport issues one Request asynchronously. The returned channel
// receives exactly one Result; ctx cancellation is the caller's way
// to abandon a transaction that is no longer wanted (spec.md 5: rung
// power dropping false while PENDING cancels the in-flight request).
// Send itself returning an error means req could not be submitted at
// all (no channel is produced in that case).
type Transport interface {
	Send(ctx context.Context, req Request) (<-chan Result, error)
}

// LoopbackTransport is an in-process Transport for simulation and
// testing: Handler computes the Response synchronously, but the
// result is still delivered asynchronously over a channel so callers
// exercise the same PENDING-then-poll path a real network transport
// requires (spec.md 5: "long-running I/O ... communicates back
// through tag/memory state").
type LoopbackTransport struct {
	Handler func(Request) (Response, error)
}

func (t LoopbackTransport) Send(ctx context.Context, req Request) (<-chan Result, error) {
	result := make(chan Result, 1)
	resp, err := t.Handler(req)
	result <- Result{Response: resp, Err: err}
	return result, nil
}
