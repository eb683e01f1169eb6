// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package sigfig renders numbers with a fixed count of significant digits.
package sigfig

import (
	"fmt"
	"math"
)

// Format renders value in fixed-point notation with digits significant
// digits.
//
// Values below 1 in magnitude get one extra fractional digit per leading
// zero after the decimal point. Otherwise the integer part takes
// int(log10|v|)+1 digits and the rest of the budget goes to fractional
// digits; once the integer part alone fills the budget no fraction is
// printed. Rounding is Go's correctly rounded decimal conversion, so exact
// binary ties round half to even.
//
// Infinities and NaN are printed as %f prints them.
func Format(value float64, digits int) string {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return fmt.Sprintf("%f", value)
	}
	l10 := 0.0
	if value != 0 {
		l10 = math.Log10(math.Abs(value))
	}

	if l10 < 0 {
		l := int(math.Abs(math.Floor(l10)))
		return fmt.Sprintf("%*.*f", digits+l+1, digits+l-1, value)
	}

	l := int(l10) + 1
	if digits <= l {
		return fmt.Sprintf("%.0f", value)
	}
	return fmt.Sprintf("%*.*f", digits+1, digits-l, value)
}
