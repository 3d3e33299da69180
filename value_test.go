package regmachine

import "testing"

func TestConsCarCdr(t *testing.T) {
	h := NewHeap()
	a, b := Int(1), Int(2)
	p := h.Cons(a, b)

	car, err := h.Car(p)
	if err != nil || !Eq(car, a) {
		t.Fatalf("car = %v, %v; want %v, nil", car, err, a)
	}
	cdr, err := h.Cdr(p)
	if err != nil || !Eq(cdr, b) {
		t.Fatalf("cdr = %v, %v; want %v, nil", cdr, err, b)
	}
}

func TestCarOfNonPair(t *testing.T) {
	h := NewHeap()
	if _, err := h.Car(Int(5)); err == nil {
		t.Fatal("expected error taking car of a non-pair")
	}
}

func TestEqIdentityVsEqual(t *testing.T) {
	h := NewHeap()
	p1 := h.Cons(Int(1), Empty)
	p2 := h.Cons(Int(1), Empty)

	if Eq(p1, p2) {
		t.Fatal("two distinct cons cells should not be eq?")
	}
	if !Equal(h, p1, p2) {
		t.Fatal("two structurally identical lists should be equal?")
	}
}

func TestNumEqPromotion(t *testing.T) {
	eq, err := NumEq(Int(2), Flt(2.0))
	if err != nil || !eq {
		t.Fatalf("NumEq(2, 2.0) = %v, %v; want true, nil", eq, err)
	}
	if Eq(Int(2), Flt(2.0)) {
		t.Fatal("eq? must not promote across Integer/Float")
	}
}

func TestPrintList(t *testing.T) {
	h := NewHeap()
	list := h.SliceToList([]Value{Int(1), Int(2), Int(3)})
	if got, want := Print(h, list), "(1 2 3)"; got != want {
		t.Fatalf("Print = %q, want %q", got, want)
	}
	if got, want := Print(h, Empty), "()"; got != want {
		t.Fatalf("Print(Empty) = %q, want %q", got, want)
	}
}

func TestPrintCyclicPairDoesNotHang(t *testing.T) {
	h := NewHeap()
	p := h.Cons(Int(1), Empty)
	if err := h.SetCdr(p, p); err != nil {
		t.Fatal(err)
	}
	// Must terminate; exact text isn't load-bearing, just termination and a
	// "..." marker for the cycle.
	out := Print(h, p)
	if out == "" {
		t.Fatal("expected non-empty output for a cyclic pair")
	}
}

func TestDivisionByZero(t *testing.T) {
	if _, err := Div(Int(1), Int(0)); err == nil {
		t.Fatal("expected ArithmeticError for integer division by zero")
	}
	if _, err := Div(Flt(1), Flt(0)); err == nil {
		t.Fatal("expected ArithmeticError for float division by zero")
	}
}

func TestListToSliceRoundTrip(t *testing.T) {
	h := NewHeap()
	in := []Value{Int(1), Int(2), Int(3)}
	list := h.SliceToList(in)
	out := h.ListToSlice(list)
	if len(out) != len(in) {
		t.Fatalf("round trip length = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if !Eq(in[i], out[i]) {
			t.Fatalf("element %d = %v, want %v", i, out[i], in[i])
		}
	}
}
