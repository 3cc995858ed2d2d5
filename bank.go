package sevenseg

import (
	"errors"
	"fmt"

	"periph.io/x/devices/v3/sevenseg/segment"
)

var (
	// ErrNoPositions is returned when updating a bank without displays.
	ErrNoPositions = errors.New("sevenseg: bank has no positions")
	// ErrNoSource is returned when an enabled bank has no value bound.
	ErrNoSource = errors.New("sevenseg: bank has no value source")
	// ErrOverflow is returned when a value has more decimal digits than the
	// bank has positions. The low order digits are still displayed.
	ErrOverflow = errors.New("sevenseg: value does not fit in bank")
)

// ID identifies a bank within a Dev. Uniqueness is up to the caller.
type ID int

// Source provides the value a bank displays. It is read once per update.
type Source interface {
	Value() uint64
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() uint64

// Value returns f().
func (f SourceFunc) Value() uint64 {
	return f()
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Watch returns a Source observing the variable at p.
//
// The bank does not own the variable; p must stay valid for as long as the
// bank is bound to it. Reads are not synchronized: if p is written while an
// update is in progress the chain may show a torn value.
func Watch[T unsigned](p *T) Source {
	if p == nil {
		return nil
	}
	return SourceFunc(func() uint64 { return uint64(*p) })
}

// BankError reports the failure of a single bank.
type BankError struct {
	ID  ID
	Err error
}

func (e *BankError) Error() string {
	return fmt.Sprintf("sevenseg: bank %d: %v", e.ID, e.Err)
}

func (e *BankError) Unwrap() error {
	return e.Err
}

// Bank is a group of 7-segment displays showing one decimal number.
//
// Position 0 is the least significant digit. It is shifted out first, so it
// ends up in the register farthest along the chain within the bank.
type Bank struct {
	id       ID
	displays []segment.Encoder
	src      Source
	order    segment.BitOrder
	enabled  bool
}

// NewBank returns an enabled bank of positions displays showing src. A nil
// table selects segment.CommonCathode.
func NewBank(id ID, positions int, src Source, table segment.Table) (*Bank, error) {
	if table == nil {
		table = segment.CommonCathode
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if positions < 0 {
		positions = 0
	}
	b := &Bank{
		id:       id,
		displays: make([]segment.Encoder, positions),
		src:      src,
		order:    segment.MSBFirst,
		enabled:  true,
	}
	for i := range b.displays {
		b.displays[i] = segment.NewEncoder(table)
	}
	return b, nil
}

// ID returns the id the bank was created with.
func (b *Bank) ID() ID {
	return b.id
}

// Positions returns the number of displays in the bank.
func (b *Bank) Positions() int {
	return len(b.displays)
}

// Enabled reports whether the bank shows its value or stays dark.
func (b *Bank) Enabled() bool {
	return b.enabled
}

// SetEnabled turns the bank on or off. A disabled bank shifts out blank
// patterns on every update and ignores its source.
func (b *Bank) SetEnabled(enabled bool) {
	b.enabled = enabled
}

// BitOrder returns the bit order shared by the bank's displays.
func (b *Bank) BitOrder() segment.BitOrder {
	return b.order
}

// SetBitOrder sets the bit order of every display in the bank.
func (b *Bank) SetBitOrder(o segment.BitOrder) {
	b.order = o
	for i := range b.displays {
		b.displays[i].SetBitOrder(o)
	}
}

// Bind sets the source of the displayed value.
func (b *Bank) Bind(src Source) {
	b.src = src
}

// Unbind detaches the bank from its source. An enabled unbound bank fails
// to update with ErrNoSource.
func (b *Bank) Unbind() {
	b.src = nil
}

// Bound reports whether the bank has a source.
func (b *Bank) Bound() bool {
	return b.src != nil
}

// Digits reads the source and returns the digit of every position, least
// significant first, as Update would display them.
//
// It returns ErrOverflow along with the truncated digits when the value
// does not fit.
func (b *Bank) Digits() ([]int, error) {
	if len(b.displays) == 0 {
		return nil, ErrNoPositions
	}
	if b.src == nil {
		return nil, ErrNoSource
	}
	digits, ok := decompose(b.src.Value(), len(b.displays))
	if !ok {
		return digits, ErrOverflow
	}
	return digits, nil
}

// Update shifts out the current value of the bank, one pattern per
// position starting at position 0.
//
// Values too large for the bank are still shifted out, truncated to the low
// order digits, before ErrOverflow is returned.
func (b *Bank) Update(bus *segment.Bus) error {
	if len(b.displays) == 0 {
		return b.fail(ErrNoPositions)
	}

	if !b.enabled {
		for i := range b.displays {
			if err := b.displays[i].TurnOff(bus); err != nil {
				return b.fail(err)
			}
		}
		return nil
	}

	if b.src == nil {
		return b.fail(ErrNoSource)
	}

	digits, ok := decompose(b.src.Value(), len(b.displays))
	for i, d := range digits {
		if err := b.displays[i].Update(bus, d); err != nil {
			return b.fail(err)
		}
	}
	if !ok {
		return b.fail(ErrOverflow)
	}
	return nil
}

func (b *Bank) fail(err error) error {
	return &BankError{ID: b.id, Err: err}
}

// decompose splits v into n decimal digits, least significant first.
// Positions past the last significant digit are zero. It reports false when
// v needs more than n digits; the returned digits are then the n low order
// ones.
func decompose(v uint64, n int) ([]int, bool) {
	digits := make([]int, n)
	for i := range digits {
		digits[i] = int(v % 10)
		v /= 10
	}
	return digits, v == 0
}
