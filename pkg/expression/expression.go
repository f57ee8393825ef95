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

// Package expression carries the predicate types the hint engine moves
// around. Predicates are opaque to hint resolution: the engine never
// evaluates them, it only reattaches them by relation coverage.
package expression

import (
	"fmt"
	"strings"
)

// Expression is one scalar predicate or operand.
type Expression interface {
	fmt.Stringer
}

// Column references one output column of a relation.
type Column struct {
	TblName string
	ColName string
}

func (c *Column) String() string {
	if c.TblName == "" {
		return c.ColName
	}
	return c.TblName + "." + c.ColName
}

// ScalarFunction is a function call over argument expressions, e.g. the
// equality condition of a hash join.
type ScalarFunction struct {
	FuncName string
	Args     []Expression
}

// NewFunction builds a scalar function expression.
func NewFunction(name string, args ...Expression) *ScalarFunction {
	return &ScalarFunction{FuncName: name, Args: args}
}

func (sf *ScalarFunction) String() string {
	args := make([]string, 0, len(sf.Args))
	for _, arg := range sf.Args {
		args = append(args, arg.String())
	}
	return sf.FuncName + "(" + strings.Join(args, ", ") + ")"
}
