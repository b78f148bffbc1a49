package fv1

import (
	"math"
	"strconv"
)

// Value is an assembler number. Integers stay exact, everything else is a real.
type Value struct {
	i    int64
	f    float64
	real bool
}

func Int(i int64) Value {
	return Value{i: i}
}

func Real(f float64) Value {
	return Value{f: f, real: true}
}

func (v Value) IsReal() bool {
	return v.real
}

func (v Value) Float() float64 {
	if v.real {
		return v.f
	}
	return float64(v.i)
}

// Int truncates reals toward zero.
func (v Value) Int() int64 {
	if v.real {
		return int64(v.f)
	}
	return v.i
}

// Integral reports whether the value has no fractional part.
func (v Value) Integral() bool {
	return !v.real || v.f == math.Trunc(v.f)
}

func (v Value) String() string {
	if !v.real {
		return strconv.FormatInt(v.i, 10)
	}
	if v.f == math.Trunc(v.f) && math.Abs(v.f) < 1e16 {
		return strconv.FormatFloat(v.f, 'f', 1, 64)
	}
	return strconv.FormatFloat(v.f, 'g', -1, 64)
}
