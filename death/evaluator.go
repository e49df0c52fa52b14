// Copyright 2017 CoreOS, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package death evaluates whether a child's abnormal termination
// matches the death expectation attached to its descriptor (spec.md
// §4.6/§4.7).
package death

import (
	"fmt"
	"strings"

	"github.com/ppgllrd/rtest/registry"
	"github.com/ppgllrd/rtest/result"
	"github.com/ppgllrd/rtest/similarity"
	"github.com/ppgllrd/rtest/supervisor"
)

const onFileMarker = " on file "

// ExtractMessage looks for the canonical assertion pattern
//
//	Assertion failed: <expr> && "<message>" on file <path> line <N>
//
// grounded on _UT_assert_print in original_source/src/test/unit/
// UnitTest.h, and returns the custom message if the expression was of
// the "cond && \"message\"" shape. It scans backward from the last
// " on file " occurrence to the quote pair immediately preceding it,
// then checks that what precedes the opening quote is "&&", per
// spec.md §4.7's "deliberately forgiving about whitespace around &&".
func ExtractMessage(output []byte) (msg string, ok bool) {
	s := string(output)
	anchor := strings.LastIndex(s, onFileMarker)
	if anchor < 0 {
		return "", false
	}
	head := s[:anchor]
	head = strings.TrimRight(head, " \t")
	if len(head) == 0 || head[len(head)-1] != '"' {
		return "", false
	}
	closeQuote := len(head) - 1

	openQuote := strings.LastIndex(head[:closeQuote], `"`)
	if openQuote < 0 {
		return "", false
	}
	// Reject an escaped opening quote (\") immediately before it.
	if openQuote > 0 && head[openQuote-1] == '\\' {
		return "", false
	}

	before := strings.TrimRight(head[:openQuote], " \t")
	if !strings.HasSuffix(before, "&&") {
		return "", false
	}

	return head[openQuote+1 : closeQuote], true
}

// Evaluate checks exp against the supervisor's classification of how
// the child terminated. Returns nil on a pass; otherwise a single
// Failure describing every channel that mismatched (signal, exit
// code, and/or message), per spec.md §4.6's "constructed failure
// record explains each mismatch".
func Evaluate(exp *registry.DeathExpectation, c supervisor.Classification) *result.Failure {
	var mismatches []string

	switch {
	case exp.Signal != 0:
		if !c.Signaled {
			mismatches = append(mismatches, fmt.Sprintf("expected signal %v, child exited with code %d instead", exp.Signal, c.ExitCode))
		} else if !strings.EqualFold(c.Signal, exp.Signal.String()) {
			mismatches = append(mismatches, fmt.Sprintf("expected signal %v, got %s", exp.Signal, c.Signal))
		}
	case exp.ExitCode >= 0:
		if c.Signaled {
			mismatches = append(mismatches, fmt.Sprintf("expected exit code %d, child was signaled (%s) instead", exp.ExitCode, c.Signal))
		} else if c.ExitCode != exp.ExitCode {
			mismatches = append(mismatches, fmt.Sprintf("expected exit code %d, got %d", exp.ExitCode, c.ExitCode))
		}
	default:
		if !c.Signaled && c.ExitCode == 0 {
			mismatches = append(mismatches, "expected abnormal termination, child exited 0")
		}
	}

	if exp.Message != "" {
		actual, found := ExtractMessage(c.Output)
		switch {
		case !found:
			mismatches = append(mismatches, fmt.Sprintf("expected custom message %q, none recoverable from output", exp.Message))
		case exp.ExactMessage:
			if actual != exp.Message {
				mismatches = append(mismatches, fmt.Sprintf("expected exact message %q, got %q", exp.Message, actual))
			}
		default:
			threshold := exp.MinSimilarity
			if threshold == 0 {
				threshold = registry.DefaultMinSimilarity
			}
			if ratio := similarity.Ratio(exp.Message, actual); ratio < threshold {
				mismatches = append(mismatches, fmt.Sprintf(
					"expected message %q (similarity >= %.2f), got %q (similarity %.2f)",
					exp.Message, threshold, actual, ratio))
			}
		}
	}

	if len(mismatches) == 0 {
		return nil
	}
	return &result.Failure{
		Condition: "death expectation mismatch",
		Expected:  exp.Message,
		Actual:    strings.Join(mismatches, "; "),
	}
}
