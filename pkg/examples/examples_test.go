package examples

import (
	"math"
	"testing"
)

// TestGCD is spec.md 8 scenario 1.
func TestGCD(t *testing.T) {
	got, _, err := RunGCD(206, 40)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Fatalf("gcd(206, 40) = %d, want 2", got)
	}
}

// TestIterativeFactorial is spec.md 8 scenario 2.
func TestIterativeFactorial(t *testing.T) {
	got, _, err := RunIterativeFactorial(5)
	if err != nil {
		t.Fatal(err)
	}
	if got != 120 {
		t.Fatalf("5! (iterative) = %d, want 120", got)
	}
}

func TestRecursiveFactorialAgreesWithIterative(t *testing.T) {
	got, stats, err := RunRecursiveFactorial(5)
	if err != nil {
		t.Fatal(err)
	}
	if got != 120 {
		t.Fatalf("5! (recursive) = %d, want 120", got)
	}
	if stats.LifetimePushes == 0 {
		t.Fatal("recursive factorial should use the stack")
	}
}

// TestFibonacci is spec.md 8 scenario 3: val = 55 for n=10, and its stack
// depth strictly exceeds the n=5 iterative factorial's (which never
// touches the stack at all).
func TestFibonacci(t *testing.T) {
	got, fibStats, err := RunFibonacci(10)
	if err != nil {
		t.Fatal(err)
	}
	if got != 55 {
		t.Fatalf("fib(10) = %d, want 55", got)
	}

	_, factStats, err := RunIterativeFactorial(5)
	if err != nil {
		t.Fatal(err)
	}
	if fibStats.LifetimeMaxDepth <= factStats.LifetimeMaxDepth {
		t.Fatalf("fib max depth %d should exceed iterative factorial's %d",
			fibStats.LifetimeMaxDepth, factStats.LifetimeMaxDepth)
	}
}

// TestNewtonSqrt is spec.md 8 scenario 4.
func TestNewtonSqrt(t *testing.T) {
	got, _, err := RunNewtonSqrt(2.0, SqrtTolerance)
	if err != nil {
		t.Fatal(err)
	}
	if diff := math.Abs(got*got - 2.0); diff >= SqrtTolerance {
		t.Fatalf("sqrt(2) = %v, guess^2 off by %v >= tolerance %v", got, diff, SqrtTolerance)
	}
}
