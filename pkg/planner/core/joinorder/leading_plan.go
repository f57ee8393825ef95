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

package joinorder

import (
	"github.com/cockroachdb/errors"
	"github.com/pingcap/failpoint"
	"go.uber.org/zap"

	"github.com/GoGoWen/incubator-doris/config"
	"github.com/GoGoWen/incubator-doris/pkg/planner/core/base"
	"github.com/GoGoWen/incubator-doris/pkg/planner/core/operator/logicalop"
	"github.com/GoGoWen/incubator-doris/pkg/sessionctx/stmtctx"
	"github.com/GoGoWen/incubator-doris/pkg/util/hint"
	"github.com/GoGoWen/incubator-doris/pkg/util/logutil"
	"github.com/GoGoWen/incubator-doris/pkg/util/longbitmap"
)

// leadingFrame is one entry of the assembly stack: a partial subtree, the
// nesting level it was produced at, and the join index its distribute
// directive is recorded under.
type leadingFrame struct {
	level     int
	plan      base.LogicalPlan
	distIndex int
}

// planBitmap computes the relation bitmap of a subtree. Joins cache their
// bitmap; scans and subquery aliases contribute their own relation id;
// selections and projections are transparent.
func planBitmap(p base.LogicalPlan) (uint64, error) {
	switch v := p.(type) {
	case *logicalop.LogicalJoin:
		return v.Bitmap(), nil
	case *logicalop.DataSource:
		return longbitmap.Set(0, v.RelationID.AsInt()), nil
	case *logicalop.LogicalSubQueryAlias:
		return longbitmap.Set(0, v.RelationID.AsInt()), nil
	case *logicalop.LogicalSelection:
		return planBitmap(v.Children()[0])
	case *logicalop.LogicalProjection:
		return planBitmap(v.Children()[0])
	default:
		return 0, errors.Errorf("unexpected operator %s in leading hint plan", p.ExplainID())
	}
}

// makeFilterPlanIfExist wraps plan with the pending filters its bitmap now
// covers. The plan is returned unchanged when nothing applies.
func makeFilterPlanIfExist(h *hint.LeadingHint, plan base.LogicalPlan) (base.LogicalPlan, error) {
	bitmap, err := planBitmap(plan)
	if err != nil {
		return nil, err
	}
	conjuncts := h.ExtractCoveredFilters(bitmap)
	if len(conjuncts) == 0 {
		return plan, nil
	}
	return logicalop.NewLogicalSelection(conjuncts, plan), nil
}

// GenerateLeadingJoinPlan replays the hinted (table, level) sequence into a
// join tree. Leaves are bound through the hint's relation registry and
// wrapped with locally covered filters; adjacent same-level subtrees are
// reduced into joins whose type comes from the discovered constraints. A
// nil plan with a nil error means the hint failed and its status carries
// the reason; a non-nil error is an internal invariant violation.
func GenerateLeadingJoinPlan(h *hint.LeadingHint, constraints []*JoinConstraint) (base.LogicalPlan, error) {
	failpoint.Inject("invalidateLeadingPlan", func() {
		h.SetStatus(hint.StatusUnused)
		h.SetErrorMessage("failpoint invalidateLeadingPlan")
	})
	if !h.IsSuccess() {
		return nil, nil
	}

	tables := h.TableList()
	levels := h.LevelList()
	if len(tables) == 0 {
		h.SetStatus(hint.StatusSyntaxError)
		h.SetErrorMessage("leading hint has no tables")
		return nil, nil
	}

	index := 0
	plan := h.LogicalPlanByName(tables[index])
	if plan == nil {
		return nil, nil
	}
	plan, err := makeFilterPlanIfExist(h, plan)
	if err != nil {
		return nil, err
	}
	stack := []leadingFrame{{level: levels[index], plan: plan, distIndex: index}}
	stackTopLevel := levels[index]
	index++

	for index < len(tables) {
		currentLevel := levels[index]
		if currentLevel == stackTopLevel {
			plan = h.LogicalPlanByName(tables[index])
			index++
			distributeIndex := index - 1
			if plan == nil {
				return nil, nil
			}
			if plan, err = makeFilterPlanIfExist(h, plan); err != nil {
				return nil, err
			}
			// Reduce as long as the stack top stays at the current level.
			for len(stack) > 0 && stack[len(stack)-1].level == stackTopLevel {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				leftBitmap, err := planBitmap(top.plan)
				if err != nil {
					return nil, err
				}
				rightBitmap, err := planBitmap(plan)
				if err != nil {
					return nil, err
				}
				joinBitmap := longbitmap.Or(leftBitmap, rightBitmap)
				conditions := h.ExtractCoveredFilters(joinBitmap)
				hashConds, otherConds := splitJoinConditions(h, leftBitmap, rightBitmap, conditions)

				joinType := computeJoinType(h, constraints, leftBitmap, rightBitmap, conditions)
				if h.IsSuccess() && !h.IsConditionJoinTypeMatched(conditions, joinType) {
					h.SetStatus(hint.StatusUnused)
					h.SetErrorMessage("join conditions do not match join type " + joinType.String())
				}
				if !h.IsSuccess() {
					return nil, nil
				}
				if joinType.IsInnerJoin() || joinType.IsCrossJoin() {
					h.SetInnerJoinBitmap(longbitmap.Or(h.InnerJoinBitmap(), joinBitmap))
				}

				join := logicalop.NewLogicalJoin(joinType, hashConds, otherConds,
					h.DistributeHintAt(distributeIndex), top.plan, plan)
				join.SetBitmap(joinBitmap)
				distributeIndex = top.distIndex

				// Closing one nesting level implicitly: when the next
				// relation sits below the current level, the reduced
				// subtree belongs one level up.
				if stackTopLevel > 0 {
					if index < len(tables) {
						if stackTopLevel > levels[index] {
							stackTopLevel--
						}
					} else {
						stackTopLevel--
					}
				}
				plan = join
			}
			stack = append(stack, leadingFrame{level: stackTopLevel, plan: plan, distIndex: distributeIndex})
		} else {
			// Descend into a new nested group.
			plan = h.LogicalPlanByName(tables[index])
			index++
			if plan == nil {
				return nil, nil
			}
			if plan, err = makeFilterPlanIfExist(h, plan); err != nil {
				return nil, err
			}
			stack = append(stack, leadingFrame{level: currentLevel, plan: plan, distIndex: index})
			stackTopLevel = currentLevel
		}
	}

	final := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	if len(stack) != 0 || h.PendingFilterCount() != 0 {
		h.SetStatus(hint.StatusSyntaxError)
		h.SetErrorMessage("leading hint left unconsumed relations or filters")
		return nil, nil
	}
	h.SetStatus(hint.StatusSuccess)
	return final.plan, nil
}

// PickLeadingHint selects the single usable leading hint of a join group,
// warning when several different ones were given.
func PickLeadingHint(sc *stmtctx.StatementContext, hints []*hint.LeadingHint) *hint.LeadingHint {
	leadingHint, hasDifferent := hint.CheckAndGenerateLeadingHint(hints)
	if hasDifferent {
		sc.SetHintWarning("We can only use one leading hint at most, " +
			"when multiple leading hints are used, all leading hints will be invalid")
	}
	return leadingHint
}

// Resolve converts a leading hint plus the discovered join constraints into
// a join tree. It returns the tree and true on success; on failure the hint
// status records whether the hint was malformed or merely unusable, a
// warning is attached to the statement context, and the optimizer falls
// back to its own join ordering.
func Resolve(sc *stmtctx.StatementContext, h *hint.LeadingHint, constraints []*JoinConstraint) (base.LogicalPlan, bool, error) {
	if h == nil {
		return nil, false, nil
	}

	maxRelations := config.GetGlobalConfig().Performance.MaxLeadingRelations
	if maxRelations <= 0 || maxRelations > longbitmap.MaxRelations {
		maxRelations = longbitmap.MaxRelations
	}
	if len(h.TableList()) > maxRelations {
		h.SetStatus(hint.StatusUnused)
		h.SetErrorMessage("leading hint exceeds the relation limit")
	}
	if h.IsSuccess() {
		h.SetTotalBitmap()
	}

	var plan base.LogicalPlan
	if h.IsSuccess() {
		var err error
		if plan, err = GenerateLeadingJoinPlan(h, constraints); err != nil {
			return nil, false, err
		}
	}
	if plan == nil || h.Status() != hint.StatusSuccess {
		sc.SetHintWarning("leading hint is inapplicable: " + h.ErrorMessage())
		logutil.BgLogger().Warn("leading hint is inapplicable",
			zap.String("hint", h.Explain()),
			zap.Stringer("status", h.Status()),
			zap.String("reason", h.ErrorMessage()))
		return nil, false, nil
	}
	return plan, true, nil
}
