// Copyright 2025 Arcade Team
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

package optimize

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-arcade/planboard/internal/engine/model"
)

const (
	matchWeight    = 0.5
	workloadWeight = 0.3
	coverageWeight = 0.2

	// workloadScore 超过该值时在理由里注明负载均衡
	balancedThreshold = 0.7
)

// Candidate 单个候选人的打分明细
type Candidate struct {
	model.Match
	Workload      float64 `json:"workload"`
	WorkloadScore float64 `json:"workloadScore"`
	Combined      float64 `json:"combined"`
}

// Rank 按综合分降序排列候选人，分数相同保持传入顺序
func Rank(matches []model.Match, allTasks []model.Task, candidateIds []string) []Candidate {
	workload := ComputeWorkload(allTasks, candidateIds)
	low, span := loadRange(workload)

	ranked := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		load := workload[m.CandidateId]
		ws := workloadScore(load, low, span)
		ranked = append(ranked, Candidate{
			Match:         m,
			Workload:      load,
			WorkloadScore: ws,
			Combined:      m.MatchScore*matchWeight + ws*workloadWeight + m.SkillCoverage*coverageWeight,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Combined > ranked[j].Combined
	})
	return ranked
}

// Recommend 为单个任务挑选负责人，没有匹配结果时返回 nil。
// 依赖未就绪只在理由里提示，不阻止推荐。
func Recommend(task *model.Task, matches []model.Match, allTasks []model.Task, candidateIds []string) *model.Recommendation {
	if len(matches) == 0 {
		return nil
	}
	best := Rank(matches, allTasks, candidateIds)[0]

	reason := fmt.Sprintf("Best match based on skills (%d%% match)", int(math.Round(best.MatchScore*100)))
	if best.WorkloadScore > balancedThreshold {
		reason += " and balanced workload"
	}
	if !IsReady(task, allTasks) {
		reason += ". Warning: Dependencies not yet satisfied"
	}

	return &model.Recommendation{
		TaskId:              task.Id,
		SuggestedAssigneeId: best.CandidateId,
		Confidence:          best.Combined,
		Reason:              reason,
	}
}

// BatchOrder 按前置任务数量升序排列，数量相同保持原顺序。
// 这是启发式排序而不是拓扑排序，被间接依赖阻塞的任务仍可能先得到推荐。
func BatchOrder(tasks []model.Task) []model.Task {
	ordered := make([]model.Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].DependsOn) < len(ordered[j].DependsOn)
	})
	return ordered
}

// RecommendBatch 批量推荐，所有任务共用同一份负载快照；没有匹配的任务不出现在结果里
func RecommendBatch(tasks []model.Task, matchesByTask map[string][]model.Match, candidateIds []string) map[string]*model.Recommendation {
	results := make(map[string]*model.Recommendation, len(tasks))
	for _, task := range BatchOrder(tasks) {
		if rec := Recommend(&task, matchesByTask[task.Id], tasks, candidateIds); rec != nil {
			results[task.Id] = rec
		}
	}
	return results
}
