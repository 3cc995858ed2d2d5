// Package sevenseg drives banks of 7-segment displays through a chain of
// serial-in shift registers such as the 74HC595 or 74HC164.
//
// Every display sits behind its own 8-bit register and the registers are
// daisy chained. The controller talks to the first register of the chain
// with three GPIO lines: serial data, shift clock and output enable (or
// latch). Each bank of displays shows one unsigned integer read from a
// Source bound by the caller.
//
// # Hardware Connection
//
//	Register Pin     → System Pin
//	SER/DS (data)    → GPIO (default GPIO2)
//	SRCLK/CP (clock) → GPIO (default GPIO4)
//	RCLK or OE       → GPIO (default GPIO3)
//	QH' / Q7'        → SER of the next register in the chain
//
// # Chain Order
//
// Bits shifted in last stay in the register closest to the controller. Banks
// are registered in logical order (for example left to right) and the last
// registered bank is wired closest to the controller, so UpdateAll shifts
// the banks out from the last one to the first:
//
//	controller → [bank C] → [bank B] → [bank A]
//	shift order:   third      second     first
//
// The latch line is held at its active level for the whole pass and
// released once every bank has been shifted out, so the chain changes in one
// step.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/devices/v3/sevenseg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		dev, _ := sevenseg.New(&sevenseg.Opts{
//			Data:  gpioreg.ByName("GPIO17"),
//			Clock: gpioreg.ByName("GPIO27"),
//			Latch: gpioreg.ByName("GPIO22"),
//		})
//		defer dev.Halt()
//
//		var speed, temp uint16
//		dev.AddBank(1, 3, sevenseg.Watch(&speed), nil)
//		dev.AddBank(2, 2, sevenseg.Watch(&temp), nil)
//
//		for {
//			speed, temp = readSpeed(), readTemp()
//			dev.UpdateAll()
//		}
//	}
//
// # Digits and Overflow
//
// Position 0 of a bank is its least significant digit. Unused high order
// positions show a 0, not a blank. A value with more digits than the bank
// has positions is shown truncated to its low order digits and the bank
// reports ErrOverflow: 1000 on a 3 digit bank shows 000.
//
// # Errors
//
// UpdateAll returns a single index: the position, in update order, of the
// last bank that failed, or 0. Refresh returns the outcome of every bank
// instead.
//
// A disabled bank shifts out blank patterns and never fails for lack of a
// source or overflow.
package sevenseg
