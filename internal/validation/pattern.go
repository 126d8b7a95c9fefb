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

package validation

import (
	"errors"
	"regexp"
)

// patternValidator checks an input string against a regular expression.
// A pattern that does not compile counts as a mismatch.
type patternValidator struct {
	pattern   string
	input     string
	customErr error
}

// enforce compilation error
var _ Validator = (*patternValidator)(nil)

// NewPatternValidator creates a validator matching input against the
// given regular expression. On mismatch it fails with customErr when one
// is set, with a generic error otherwise.
func NewPatternValidator(pattern, input string, customErr error) Validator {
	return &patternValidator{
		pattern:   pattern,
		input:     input,
		customErr: customErr,
	}
}

func (v *patternValidator) Validate() error {
	expression, err := regexp.Compile(v.pattern)
	if err == nil && expression.MatchString(v.input) {
		return nil
	}
	if v.customErr != nil {
		return v.customErr
	}
	return errors.New("invalid expression")
}
