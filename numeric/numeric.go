// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package numeric implements the arbitrary-precision numeric bridge:
// literals are parsed into an unbounded representation, range-checked
// against a target native width, then converted to a fixed width for the
// binary codec. Keeping the math unbounded until the final check means no
// intermediate step can overflow or underflow before the range error is
// reported.
package numeric

import (
	"fmt"
	"math"
	"math/big"

	"github.com/kingofpayne/bakery/data"
)

// IntKind identifies a native integer width/signedness pair.
type IntKind int

const (
	Int8 IntKind = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
)

func (k IntKind) bits() (bits int, signed bool) {
	switch k {
	case Int8:
		return 8, true
	case Uint8:
		return 8, false
	case Int16:
		return 16, true
	case Uint16:
		return 16, false
	case Int32:
		return 32, true
	case Uint32:
		return 32, false
	}
	return 0, true
}

// ParseInt parses a signed decimal integer literal. The caller has
// already matched the lexical shape; this only needs to build the bignum.
func ParseInt(literal string) (*big.Int, error) {
	z, ok := new(big.Int).SetString(literal, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer literal %q", literal)
	}
	return z, nil
}

// FitInt range-checks v against kind's width/signedness. unsigned rejects negatives even when the kind itself is
// signed at the bit level but qualified unsigned by the recipe.
func FitInt(v *big.Int, kind IntKind, unsigned bool) error {
	bits, signed := kind.bits()
	if unsigned && v.Sign() < 0 {
		return fmt.Errorf("negative value %s not allowed for unsigned", v.String())
	}
	var lo, hi *big.Int
	if unsigned || !signed {
		lo = big.NewInt(0)
		hi = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
	} else {
		hi = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)), big.NewInt(1))
		lo = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)))
	}
	if v.Cmp(lo) < 0 || v.Cmp(hi) > 0 {
		return fmt.Errorf("value %s out of range for %d-bit %s", v.String(), bits, signWord(unsigned || !signed))
	}
	return nil
}

func signWord(unsigned bool) string {
	if unsigned {
		return "unsigned"
	}
	return "signed"
}

// ToInt64 converts an already range-checked bignum to its int64
// representation, ready for fixed-width truncation by the emitter.
func ToInt64(v *big.Int) int64 { return v.Int64() }

// FloatKind identifies the target float width.
type FloatKind int

const (
	Float32 FloatKind = iota
	Float64
)

// ParseFloat assembles the arbitrary-precision value
// sign * (integer_part + decimal_part * 10^-len(decimal_part)) *
// 10^exponent, using big.Float/big.Int internally so no intermediate step
// overflows or underflows before the final range check.
func ParseFloat(f data.Floating, prec uint) (*big.Float, error) {
	if !f.HasInteger() && !f.HasDecimal() {
		return nil, fmt.Errorf("floating literal has neither integer nor decimal part")
	}

	mantissa := new(big.Float).SetPrec(prec)
	if f.HasInteger() {
		ip, ok := new(big.Int).SetString(f.Integer, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer part %q", f.Integer)
		}
		mantissa.SetInt(ip)
	}

	if f.HasDecimal() {
		dp, ok := new(big.Int).SetString(f.Decimal, 10)
		if !ok {
			return nil, fmt.Errorf("invalid decimal part %q", f.Decimal)
		}
		dv := new(big.Float).SetPrec(prec).SetInt(dp)
		scale := new(big.Float).SetPrec(prec).SetInt(pow10(len(f.Decimal)))
		dv.Quo(dv, scale)
		mantissa.Add(mantissa, dv)
	}

	if f.HasExponent() {
		exp, err := ParseInt(f.Exponent)
		if err != nil {
			return nil, fmt.Errorf("invalid exponent %q: %w", f.Exponent, err)
		}
		e := exp.Int64()
		scale := new(big.Float).SetPrec(prec)
		ten := big.NewInt(10)
		if e >= 0 {
			scale.SetInt(new(big.Int).Exp(ten, big.NewInt(e), nil))
			mantissa.Mul(mantissa, scale)
		} else {
			scale.SetInt(new(big.Int).Exp(ten, big.NewInt(-e), nil))
			mantissa.Quo(mantissa, scale)
		}
	}

	if f.Negative {
		mantissa.Neg(mantissa)
	}
	return mantissa, nil
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// FitFloat range-checks v's magnitude against the finite range of kind
//, and converts it to the fixed-width Go float type. Both
// overflow to infinity and underflow of a non-zero value to zero are out
// of range.
func FitFloat(v *big.Float, kind FloatKind) (float64, error) {
	switch kind {
	case Float32:
		f32, _ := v.Float32()
		if math.IsInf(float64(f32), 0) || (f32 == 0 && v.Sign() != 0) {
			return 0, fmt.Errorf("value %s out of range for float", v.Text('g', 10))
		}
		return float64(f32), nil
	default:
		f64, _ := v.Float64()
		if math.IsInf(f64, 0) || (f64 == 0 && v.Sign() != 0) {
			return 0, fmt.Errorf("value %s out of range for double", v.Text('g', 10))
		}
		return f64, nil
	}
}
