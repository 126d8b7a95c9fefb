// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package state

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tochemey/historian/errors"
)

// Unit is the measurement unit symbol attached to a Quantity.
type Unit string

const (
	// Celsius is the degree Celsius temperature unit.
	Celsius Unit = "°C"
	// Fahrenheit is the degree Fahrenheit temperature unit.
	Fahrenheit Unit = "°F"
	// Kelvin is the kelvin temperature unit.
	Kelvin Unit = "K"
	// Watt is the watt power unit.
	Watt Unit = "W"
	// Kilowatt is the kilowatt power unit.
	Kilowatt Unit = "kW"
	// WattHour is the watt-hour energy unit.
	WattHour Unit = "Wh"
	// KilowattHour is the kilowatt-hour energy unit.
	KilowattHour Unit = "kWh"
	// Meter is the meter length unit.
	Meter Unit = "m"
	// Kilometer is the kilometer length unit.
	Kilometer Unit = "km"
	// Percent is the dimensionless percentage unit.
	Percent Unit = "%"
)

var (
	five      = decimal.NewFromInt(5)
	nine      = decimal.NewFromInt(9)
	thirtyTwo = decimal.NewFromInt(32)
	thousand  = decimal.NewFromInt(1000)
	// 273.15 with exponent -2
	kelvinOffset = decimal.New(27315, -2)
)

// conversions maps source unit to target unit to the function applying the
// conversion. Only directly related units are listed; anything absent cannot
// be converted.
var conversions = map[Unit]map[Unit]func(decimal.Decimal) decimal.Decimal{
	Celsius: {
		Fahrenheit: func(v decimal.Decimal) decimal.Decimal { return v.Mul(nine).Div(five).Add(thirtyTwo) },
		Kelvin:     func(v decimal.Decimal) decimal.Decimal { return v.Add(kelvinOffset) },
	},
	Fahrenheit: {
		Celsius: func(v decimal.Decimal) decimal.Decimal { return v.Sub(thirtyTwo).Mul(five).Div(nine) },
	},
	Kelvin: {
		Celsius: func(v decimal.Decimal) decimal.Decimal { return v.Sub(kelvinOffset) },
	},
	Kilowatt: {
		Watt: func(v decimal.Decimal) decimal.Decimal { return v.Mul(thousand) },
	},
	Watt: {
		Kilowatt: func(v decimal.Decimal) decimal.Decimal { return v.Div(thousand) },
	},
	KilowattHour: {
		WattHour: func(v decimal.Decimal) decimal.Decimal { return v.Mul(thousand) },
	},
	WattHour: {
		KilowattHour: func(v decimal.Decimal) decimal.Decimal { return v.Div(thousand) },
	},
	Kilometer: {
		Meter: func(v decimal.Decimal) decimal.Decimal { return v.Mul(thousand) },
	},
	Meter: {
		Kilometer: func(v decimal.Decimal) decimal.Decimal { return v.Div(thousand) },
	},
}

// Quantity is a numeric state carrying a measurement unit.
type Quantity struct {
	value decimal.Decimal
	unit  Unit
}

var _ State = Quantity{}

// NewQuantity creates a Quantity state.
func NewQuantity(value decimal.Decimal, unit Unit) Quantity {
	return Quantity{value: value, unit: unit}
}

// NewQuantityFromFloat creates a Quantity state from a float64.
func NewQuantityFromFloat(value float64, unit Unit) Quantity {
	return Quantity{value: decimal.NewFromFloat(value), unit: unit}
}

// Value returns the numeric value in the quantity's own unit.
func (x Quantity) Value() decimal.Decimal {
	return x.value
}

// Unit returns the measurement unit.
func (x Quantity) Unit() Unit {
	return x.unit
}

func (x Quantity) String() string {
	return fmt.Sprintf("%s %s", x.value.String(), x.unit)
}

// Equal reports whether other is a Quantity representing the same physical
// value. Units need not be identical: 0 °C equals 273.15 K. Incompatible
// units are never equal.
func (x Quantity) Equal(other State) bool {
	o, ok := other.(Quantity)
	if !ok {
		return false
	}
	converted, err := o.ToUnit(x.unit)
	if err != nil {
		return false
	}
	return x.value.Equal(converted.value)
}

// ToUnit converts the quantity to the target unit. It returns
// errors.ErrNoConversion when the units are unrelated.
func (x Quantity) ToUnit(target Unit) (Quantity, error) {
	if x.unit == target {
		return x, nil
	}
	if targets, ok := conversions[x.unit]; ok {
		if convert, ok := targets[target]; ok {
			return Quantity{value: convert(x.value), unit: target}, nil
		}
	}
	return Quantity{}, fmt.Errorf("%w: %s to %s", errors.ErrNoConversion, x.unit, target)
}
