// Package segment encodes decimal digits as 7-segment patterns and shifts
// them out over a two-wire (data/clock) serial link.
//
// A Pattern is one byte where every bit lights one segment. For the default
// common-cathode wiring the bits map to the segments as follows:
//
//	bit:     6 5 4 3 2 1 0
//	weight: 64 32 16 8 4 2 1
//
//	Digit 0 = 1+4+8+16+32+64 = 0x7D
//	Digit 1 = 16+64          = 0x50
//
// Any 10-entry Table is accepted, no attempt is made to check that the
// patterns look like digits.
//
// Each byte goes out as 8 bits. For every bit the clock is pulled low, the
// data line is set to the bit value and the clock is released high; the
// rising edge is where a 74HC595 or 74HC164 samples the data line.
//
// Example usage:
//
//	bus := &segment.Bus{Data: dataPin, Clock: clockPin}
//	enc := segment.NewEncoder(segment.CommonCathode)
//
//	// Shift out the pattern for 7
//	enc.Update(bus, 7)
//
//	// Shift out a blank digit
//	enc.TurnOff(bus)
package segment
