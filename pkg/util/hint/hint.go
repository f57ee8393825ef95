// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package hint holds the optimizer hints the planner understands and the
// bookkeeping shared by all of them: a one-way status latch plus a
// diagnostic message surfaced in explain output.
package hint

import (
	"github.com/GoGoWen/incubator-doris/pkg/planner/core/base"
)

// Status is the lifecycle state of one hint.
// Pending is the initial state; the other three are terminal.
type Status int

const (
	// StatusPending means the hint has not been resolved yet.
	StatusPending Status = iota
	// StatusSuccess means the hint was fully applied.
	StatusSuccess
	// StatusSyntaxError means the hint itself is malformed and is reported
	// back to the user as erroneous.
	StatusSyntaxError
	// StatusUnused means the hint is well formed but cannot be honored
	// given the discovered join graph; the optimizer silently falls back.
	StatusUnused
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSyntaxError:
		return "syntax error"
	case StatusUnused:
		return "unused"
	}
	return "pending"
}

// Hint is the common part of every optimizer hint.
type Hint struct {
	name   string
	status Status
	errMsg string
}

// NewHint creates a hint base with the given name in pending state.
func NewHint(name string) Hint {
	return Hint{name: name}
}

// Name returns the hint name, e.g. "leading".
func (h *Hint) Name() string {
	return h.name
}

// Status returns the current status.
func (h *Hint) Status() Status {
	return h.status
}

// SetStatus transitions the latch. Any terminal state is final: the first
// transition out of pending wins and the status never reverts.
func (h *Hint) SetStatus(status Status) {
	if h.status != StatusPending {
		return
	}
	h.status = status
}

// SetErrorMessage records the diagnostic for a failed hint. The first
// message is kept so it matches the first failure.
func (h *Hint) SetErrorMessage(msg string) {
	if h.errMsg == "" {
		h.errMsg = msg
	}
}

// ErrorMessage returns the diagnostic recorded on failure.
func (h *Hint) ErrorMessage() string {
	return h.errMsg
}

// IsSuccess reports whether the hint has not failed. A pending hint counts
// as successful so that resolution can keep going until it either fails or
// completes.
func (h *Hint) IsSuccess() bool {
	return h.status == StatusPending || h.status == StatusSuccess
}

// DistributeHint requests a physical data movement strategy for one join.
type DistributeHint struct {
	Hint
	DistributeType base.DistributeType

	// successInLeading marks that a leading hint consumed this directive,
	// so later plan-shape enforcement can verify it took effect.
	successInLeading bool
}

// NewDistributeHint creates a distribute hint of the given type.
func NewDistributeHint(tp base.DistributeType) *DistributeHint {
	return &DistributeHint{
		Hint:           NewHint(tp.String()),
		DistributeType: tp,
	}
}

// SetSuccessInLeading marks whether the directive was applied by a leading
// hint.
func (h *DistributeHint) SetSuccessInLeading(success bool) {
	h.successInLeading = success
}

// IsSuccessInLeading reports whether the directive was applied.
func (h *DistributeHint) IsSuccessInLeading() bool {
	return h.successInLeading
}
