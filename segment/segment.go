package segment

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// DigitCount is the number of patterns in a Table.
const DigitCount = 10

var (
	// ErrTableSize is returned when a Table does not hold exactly DigitCount
	// patterns.
	ErrTableSize = errors.New("segment: digit table must have 10 entries")
	// ErrDigitRange is returned when a digit has no pattern in the table.
	ErrDigitRange = errors.New("segment: digit out of range")
	// ErrNoBus is returned when an Encoder is asked to write without pins.
	ErrNoBus = errors.New("segment: data and clock pins are required")
)

// Pattern is the segment mask of a single digit. Each set bit lights one
// segment.
type Pattern byte

// Off is the pattern with every segment dark.
const Off Pattern = 0

// Table maps the digits 0-9 to their segment patterns.
type Table []Pattern

// CommonCathode is the default table for small common cathode displays.
var CommonCathode = Table{
	0x7D, // 0
	0x50, // 1
	0x3B, // 2
	0x7A, // 3
	0x56, // 4
	0x6E, // 5
	0x6F, // 6
	0x58, // 7
	0x7F, // 8
	0x7E, // 9
}

// Validate checks that the table holds exactly DigitCount patterns.
func (t Table) Validate() error {
	if len(t) != DigitCount {
		return fmt.Errorf("%w, got %d", ErrTableSize, len(t))
	}
	return nil
}

// BitOrder selects which end of a pattern is shifted out first.
type BitOrder byte

const (
	// MSBFirst shifts bit 7 first.
	MSBFirst BitOrder = iota
	// LSBFirst shifts bit 0 first.
	LSBFirst
)

// Valid reports whether o is one of the two known orders.
func (o BitOrder) Valid() bool {
	return o == MSBFirst || o == LSBFirst
}

func (o BitOrder) String() string {
	switch o {
	case MSBFirst:
		return "MSBFirst"
	case LSBFirst:
		return "LSBFirst"
	default:
		return fmt.Sprintf("BitOrder(%d)", byte(o))
	}
}

// Bus is the two-wire serial link to the first shift register of a chain.
type Bus struct {
	Data  gpio.PinOut // Serial data input of the register
	Clock gpio.PinOut // Shift clock, sampled on the rising edge
}

// ShiftOut writes the 8 bits of b in the given order.
//
// Every bit costs three pin writes: clock low, data, clock high.
func (b *Bus) ShiftOut(v byte, order BitOrder) error {
	if b == nil || b.Data == nil || b.Clock == nil {
		return ErrNoBus
	}
	for i := 0; i < 8; i++ {
		var mask byte
		if order == LSBFirst {
			mask = 1 << i
		} else {
			mask = 0x80 >> i
		}
		if err := b.Clock.Out(gpio.Low); err != nil {
			return fmt.Errorf("segment: failed to pull clock low: %w", err)
		}
		if err := b.Data.Out(gpio.Level(v&mask != 0)); err != nil {
			return fmt.Errorf("segment: failed to set data: %w", err)
		}
		if err := b.Clock.Out(gpio.High); err != nil {
			return fmt.Errorf("segment: failed to pull clock high: %w", err)
		}
	}
	return nil
}

// Encoder drives a single 7-segment display sitting behind one 8-bit shift
// register.
type Encoder struct {
	table Table
	order BitOrder
}

// NewEncoder returns an Encoder using table. A nil table selects
// CommonCathode.
//
// The table is not copied; it must not be modified while in use.
func NewEncoder(table Table) Encoder {
	if table == nil {
		table = CommonCathode
	}
	return Encoder{table: table, order: MSBFirst}
}

// Pattern returns the segment pattern for digit.
func (e *Encoder) Pattern(digit int) (Pattern, error) {
	if digit < 0 || digit >= len(e.table) {
		return Off, fmt.Errorf("%w: %d", ErrDigitRange, digit)
	}
	return e.table[digit], nil
}

// Update shifts out the pattern of digit.
func (e *Encoder) Update(b *Bus, digit int) error {
	p, err := e.Pattern(digit)
	if err != nil {
		return err
	}
	return b.ShiftOut(byte(p), e.order)
}

// TurnOff shifts out a blank pattern, whatever the table says.
func (e *Encoder) TurnOff(b *Bus) error {
	return b.ShiftOut(byte(Off), e.order)
}

// BitOrder returns the order used when shifting out patterns.
func (e *Encoder) BitOrder() BitOrder {
	return e.order
}

// SetBitOrder changes the order used when shifting out patterns.
func (e *Encoder) SetBitOrder(o BitOrder) {
	e.order = o
}
