package sevenseg

import (
	"errors"
	"fmt"
	"strings"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/sevenseg/segment"
)

// Default pin names, looked up in gpioreg when Opts leaves a pin nil.
const (
	DefaultDataPin  = "GPIO2"
	DefaultClockPin = "GPIO4"
	DefaultLatchPin = "GPIO3"
)

// ErrHalted is returned by operations on a halted device.
var ErrHalted = errors.New("sevenseg: halted")

// Opts is the configuration for a chain of shift registers.
type Opts struct {
	// Serial link pins (nil selects the Default*Pin name from gpioreg)
	Data  gpio.PinOut // Serial data
	Clock gpio.PinOut // Shift clock
	Latch gpio.PinOut // Output enable or latch

	// LatchActiveLow holds the latch pin Low during a chain update and High
	// otherwise. The default is active High.
	LatchActiveLow bool
}

// Dev is the handle for a chain of shift registers driving banks of
// 7-segment displays.
//
// Banks are kept in the order they are added. The last bank is wired
// closest to the controller, so a chain update shifts banks out in reverse
// order.
//
// Dev is not safe for concurrent use.
type Dev struct {
	// Communication
	bus         segment.Bus
	latch       gpio.PinOut
	latchActive gpio.Level

	banks []*Bank

	// State
	halted bool
}

// New returns a Dev for the chain wired to the pins in opts.
//
// opts can be nil to use the default pins. The latch is driven to its
// inactive level before New returns.
func New(opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}

	data, err := pinOrDefault(opts.Data, DefaultDataPin)
	if err != nil {
		return nil, err
	}
	clock, err := pinOrDefault(opts.Clock, DefaultClockPin)
	if err != nil {
		return nil, err
	}
	latch, err := pinOrDefault(opts.Latch, DefaultLatchPin)
	if err != nil {
		return nil, err
	}

	d := &Dev{
		bus:         segment.Bus{Data: data, Clock: clock},
		latch:       latch,
		latchActive: gpio.Level(!opts.LatchActiveLow),
	}
	if err := d.latch.Out(!d.latchActive); err != nil {
		return nil, fmt.Errorf("sevenseg: failed to release latch: %w", err)
	}
	return d, nil
}

func pinOrDefault(p gpio.PinOut, name string) (gpio.PinOut, error) {
	if p != nil {
		return p, nil
	}
	if p := gpioreg.ByName(name); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("sevenseg: pin %s not found", name)
}

// AddBank appends a bank of positions displays showing src. A nil table
// selects segment.CommonCathode.
//
// If a bank with the same id already exists the call does nothing.
func (d *Dev) AddBank(id ID, positions int, src Source, table segment.Table) error {
	if d.find(id) >= 0 {
		return nil
	}
	b, err := NewBank(id, positions, src, table)
	if err != nil {
		return err
	}
	d.banks = append(d.banks, b)
	return nil
}

// InsertBank is like AddBank but places the bank at index.
//
// It panics if index is not within [0, d.Len()].
func (d *Dev) InsertBank(id ID, positions, index int, src Source, table segment.Table) error {
	if index < 0 || index > len(d.banks) {
		panic(fmt.Sprintf("sevenseg: insert index %d out of range [0, %d]", index, len(d.banks)))
	}
	if d.find(id) >= 0 {
		return nil
	}
	b, err := NewBank(id, positions, src, table)
	if err != nil {
		return err
	}
	d.banks = append(d.banks, nil)
	copy(d.banks[index+1:], d.banks[index:])
	d.banks[index] = b
	return nil
}

// ReplaceBank swaps the first bank matching id for a new one, keeping its
// place in the chain. It does nothing if no bank matches.
func (d *Dev) ReplaceBank(id ID, positions int, src Source, table segment.Table) error {
	b, err := NewBank(id, positions, src, table)
	if err != nil {
		return err
	}
	if i := d.find(id); i >= 0 {
		d.banks[i] = b
	}
	return nil
}

// RemoveBank removes the first bank matching id, if any.
func (d *Dev) RemoveBank(id ID) {
	if i := d.find(id); i >= 0 {
		d.banks = append(d.banks[:i], d.banks[i+1:]...)
	}
}

// Clear removes every bank.
func (d *Dev) Clear() {
	d.banks = nil
}

// SetBitOrder sets the bit order of the first bank matching id. Unknown
// orders are ignored.
func (d *Dev) SetBitOrder(id ID, o segment.BitOrder) {
	if !o.Valid() {
		return
	}
	if b := d.Bank(id); b != nil {
		b.SetBitOrder(o)
	}
}

// EnableBank enables or blanks the first bank matching id.
func (d *Dev) EnableBank(id ID, enabled bool) {
	if b := d.Bank(id); b != nil {
		b.SetEnabled(enabled)
	}
}

// Bank returns the first bank matching id, or nil.
func (d *Dev) Bank(id ID) *Bank {
	if i := d.find(id); i >= 0 {
		return d.banks[i]
	}
	return nil
}

// Len returns the number of banks.
func (d *Dev) Len() int {
	return len(d.banks)
}

func (d *Dev) find(id ID) int {
	for i, b := range d.banks {
		if b.id == id {
			return i
		}
	}
	return -1
}

// BankResult is the outcome of updating one bank during Refresh.
type BankResult struct {
	Index int   // Position in update order, 0 is the last bank added
	ID    ID    // Id of the bank
	Err   error // nil on success
}

// Report lists the outcome of every bank in update order.
type Report []BankResult

// Err joins the errors of every failed bank, or returns nil.
func (r Report) Err() error {
	var errs []error
	for _, res := range r {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

// LastFailure returns the update order index of the last bank that failed,
// or 0 when none did.
func (r Report) LastFailure() int {
	last := 0
	for _, res := range r {
		if res.Err != nil {
			last = res.Index
		}
	}
	return last
}

// Refresh shifts out every bank in one pass and latches the result.
//
// Banks are updated from the last added to the first. A failing bank does
// not stop the pass. The returned error only reports latch failures and
// halting; per bank errors are in the Report.
func (d *Dev) Refresh() (Report, error) {
	if d.halted {
		return nil, ErrHalted
	}
	return d.pass(func(b *Bank) error { return b.Update(&d.bus) })
}

// UpdateAll shifts out every bank and returns the update order index of the
// last bank that failed.
//
// A return of 0 means either that no bank failed or that the last bank
// added is the only one that failed. Earlier failures are not reported; use
// Refresh to see every error.
func (d *Dev) UpdateAll() int {
	r, _ := d.Refresh()
	return r.LastFailure()
}

// pass runs update on every bank in reverse order between the latch edges.
func (d *Dev) pass(update func(b *Bank) error) (Report, error) {
	if err := d.latch.Out(d.latchActive); err != nil {
		return nil, fmt.Errorf("sevenseg: failed to assert latch: %w", err)
	}

	r := make(Report, 0, len(d.banks))
	for idx, i := 0, len(d.banks)-1; i >= 0; idx, i = idx+1, i-1 {
		b := d.banks[i]
		r = append(r, BankResult{Index: idx, ID: b.id, Err: update(b)})
	}

	if err := d.latch.Out(!d.latchActive); err != nil {
		return r, fmt.Errorf("sevenseg: failed to release latch: %w", err)
	}
	return r, nil
}

// PrintAll returns one line per bank, in registry order.
func (d *Dev) PrintAll() string {
	var sb strings.Builder
	for i, b := range d.banks {
		fmt.Fprintf(&sb, "Group idx = %d, id = %d, # display = %d\n", i, b.id, b.Positions())
	}
	return sb.String()
}

// Halt blanks every display in the chain and stops further updates.
//
// Banks stay registered but Refresh fails and UpdateAll does nothing until a
// new Dev is created.
func (d *Dev) Halt() error {
	if d.halted {
		return nil
	}
	r, err := d.pass(func(b *Bank) error {
		for i := range b.displays {
			if err := b.displays[i].TurnOff(&d.bus); err != nil {
				return err
			}
		}
		return nil
	})
	d.halted = true
	if err != nil {
		return err
	}
	return r.Err()
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("sevenseg.Dev{banks=%d}", len(d.banks))
}
