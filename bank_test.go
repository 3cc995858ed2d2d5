package sevenseg

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/devices/v3/sevenseg/segment"
)

func TestDecompose(t *testing.T) {
	tests := []struct {
		name   string
		value  uint64
		n      int
		want   []int
		wantOK bool
	}{
		{"zero", 0, 3, []int{0, 0, 0}, true},
		{"single digit", 7, 3, []int{7, 0, 0}, true},
		{"two digits", 42, 3, []int{2, 4, 0}, true},
		{"full", 999, 3, []int{9, 9, 9}, true},
		{"round ten", 10, 2, []int{0, 1}, true},
		{"overflow by one", 1000, 3, []int{0, 0, 0}, false},
		{"overflow truncates", 12345, 3, []int{5, 4, 3}, false},
		{"single position overflow", 15, 1, []int{5}, false},
		{"max uint64", 18446744073709551615, 20, []int{5, 1, 6, 1, 5, 5, 9, 0, 7, 3, 7, 0, 4, 4, 7, 6, 4, 4, 8, 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decompose(tt.value, tt.n)
			if ok != tt.wantOK {
				t.Errorf("decompose(%d, %d) ok = %v, want %v", tt.value, tt.n, ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("decompose(%d, %d) mismatch (-want +got):\n%s", tt.value, tt.n, diff)
			}
		})
	}
}

func TestDecomposeExhaustive(t *testing.T) {
	const n = 3
	for v := uint64(0); v < 1100; v++ {
		digits, ok := decompose(v, n)
		if ok != (v < 1000) {
			t.Fatalf("decompose(%d) ok = %v", v, ok)
		}
		pow := uint64(1)
		for i := 0; i < n; i++ {
			if want := int(v / pow % 10); digits[i] != want {
				t.Fatalf("decompose(%d)[%d] = %d, want %d", v, i, digits[i], want)
			}
			pow *= 10
		}
	}
}

func TestNewBank(t *testing.T) {
	b, err := NewBank(4, 3, nil, nil)
	if err != nil {
		t.Fatalf("NewBank() = %v", err)
	}
	if b.ID() != 4 {
		t.Errorf("ID() = %d, want 4", b.ID())
	}
	if b.Positions() != 3 {
		t.Errorf("Positions() = %d, want 3", b.Positions())
	}
	if !b.Enabled() {
		t.Error("new bank should be enabled")
	}
	if b.Bound() {
		t.Error("bank created with nil source should be unbound")
	}
	if b.BitOrder() != segment.MSBFirst {
		t.Errorf("BitOrder() = %v, want MSBFirst", b.BitOrder())
	}

	if _, err := NewBank(1, 3, nil, segment.Table{1, 2, 3}); !errors.Is(err, segment.ErrTableSize) {
		t.Errorf("NewBank() with short table = %v, want ErrTableSize", err)
	}
}

func TestBankUpdateDigits(t *testing.T) {
	tests := []struct {
		name    string
		value   uint16
		want    []int
		wantErr error
	}{
		{"pads single digit", 7, []int{7, 0, 0}, nil},
		{"pads two digits", 42, []int{2, 4, 0}, nil},
		{"fills every position", 999, []int{9, 9, 9}, nil},
		{"overflow shows low digits", 1000, []int{0, 0, 0}, ErrOverflow},
		{"overflow truncates", 4321, []int{1, 2, 3}, ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.value
			b, err := NewBank(1, 3, Watch(&v), nil)
			if err != nil {
				t.Fatalf("NewBank() = %v", err)
			}
			bus, w := newWire()
			err = b.Update(bus)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Update() = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(patterns(tt.want...), w.bytes()); diff != "" {
				t.Errorf("shifted patterns mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBankFollowsSource(t *testing.T) {
	var v uint32 = 5
	b, _ := NewBank(1, 2, Watch(&v), nil)

	bus, w := newWire()
	if err := b.Update(bus); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	v = 61
	if err := b.Update(bus); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if diff := cmp.Diff(patterns(5, 0, 1, 6), w.bytes()); diff != "" {
		t.Errorf("shifted patterns mismatch (-want +got):\n%s", diff)
	}
}

func TestBankNoPositions(t *testing.T) {
	v := uint8(3)
	b, _ := NewBank(9, 0, Watch(&v), nil)

	bus, w := newWire()
	err := b.Update(bus)
	if !errors.Is(err, ErrNoPositions) {
		t.Fatalf("Update() = %v, want ErrNoPositions", err)
	}
	var be *BankError
	if !errors.As(err, &be) || be.ID != 9 {
		t.Errorf("Update() = %v, want BankError for id 9", err)
	}
	if len(w.writes) != 0 {
		t.Errorf("Update() touched the pins: %v", w.writes)
	}

	// Disabling does not help a bank without displays.
	b.SetEnabled(false)
	if err := b.Update(bus); !errors.Is(err, ErrNoPositions) {
		t.Errorf("disabled Update() = %v, want ErrNoPositions", err)
	}
}

func TestBankNoSource(t *testing.T) {
	b, _ := NewBank(1, 2, nil, nil)

	bus, w := newWire()
	if err := b.Update(bus); !errors.Is(err, ErrNoSource) {
		t.Fatalf("Update() = %v, want ErrNoSource", err)
	}
	if len(w.writes) != 0 {
		t.Errorf("Update() touched the pins: %v", w.writes)
	}
	if _, err := b.Digits(); !errors.Is(err, ErrNoSource) {
		t.Errorf("Digits() = %v, want ErrNoSource", err)
	}
}

func TestBankBindUnbind(t *testing.T) {
	b, _ := NewBank(1, 2, nil, nil)
	b.Bind(SourceFunc(func() uint64 { return 12 }))
	if !b.Bound() {
		t.Fatal("Bound() = false after Bind")
	}
	got, err := b.Digits()
	if err != nil {
		t.Fatalf("Digits() = %v", err)
	}
	if diff := cmp.Diff([]int{2, 1}, got); diff != "" {
		t.Errorf("Digits() mismatch (-want +got):\n%s", diff)
	}

	b.Unbind()
	if b.Bound() {
		t.Fatal("Bound() = true after Unbind")
	}
	bus, _ := newWire()
	if err := b.Update(bus); !errors.Is(err, ErrNoSource) {
		t.Errorf("Update() = %v, want ErrNoSource", err)
	}

	var p *uint16
	if Watch(p) != nil {
		t.Error("Watch(nil) should return a nil Source")
	}
}

func TestBankDisabled(t *testing.T) {
	tests := []struct {
		name string
		src  Source
	}{
		{"unbound", nil},
		{"in range", SourceFunc(func() uint64 { return 12 })},
		{"overflow", SourceFunc(func() uint64 { return 123456 })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := NewBank(1, 3, tt.src, nil)
			b.SetEnabled(false)

			bus, w := newWire()
			if err := b.Update(bus); err != nil {
				t.Fatalf("Update() = %v", err)
			}
			if diff := cmp.Diff([]byte{0, 0, 0}, w.bytes()); diff != "" {
				t.Errorf("shifted patterns mismatch (-want +got):\n%s", diff)
			}

			b.SetEnabled(true)
			if !b.Enabled() {
				t.Error("Enabled() = false after SetEnabled(true)")
			}
		})
	}
}

func TestBankSetBitOrder(t *testing.T) {
	b, _ := NewBank(1, 2, SourceFunc(func() uint64 { return 0 }), nil)
	b.SetBitOrder(segment.LSBFirst)
	if b.BitOrder() != segment.LSBFirst {
		t.Fatalf("BitOrder() = %v, want LSBFirst", b.BitOrder())
	}
	for i := range b.displays {
		if got := b.displays[i].BitOrder(); got != segment.LSBFirst {
			t.Errorf("display %d BitOrder() = %v, want LSBFirst", i, got)
		}
	}

	bus, w := newWire()
	if err := b.Update(bus); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	// 0x7D reversed is 0xBE.
	if diff := cmp.Diff([]byte{0xBE, 0xBE}, w.bytes()); diff != "" {
		t.Errorf("shifted patterns mismatch (-want +got):\n%s", diff)
	}
}

func TestBankCustomTable(t *testing.T) {
	table := segment.Table{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	b, err := NewBank(1, 2, SourceFunc(func() uint64 { return 38 }), table)
	if err != nil {
		t.Fatalf("NewBank() = %v", err)
	}
	bus, w := newWire()
	if err := b.Update(bus); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if diff := cmp.Diff([]byte{18, 13}, w.bytes()); diff != "" {
		t.Errorf("shifted patterns mismatch (-want +got):\n%s", diff)
	}
}

func TestBankPinFailure(t *testing.T) {
	b, _ := NewBank(3, 2, SourceFunc(func() uint64 { return 1 }), nil)
	bus, _ := newWire()
	bus.Clock = brokenPin("C")

	err := b.Update(bus)
	if err == nil {
		t.Fatal("Update() should fail when the clock pin fails")
	}
	var be *BankError
	if !errors.As(err, &be) || be.ID != 3 {
		t.Errorf("Update() = %v, want BankError for id 3", err)
	}
}
