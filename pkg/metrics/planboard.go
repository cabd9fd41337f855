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

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "planboard"

// 推荐结果
const (
	OutcomeRecommended = "recommended"
	OutcomeNoMatches   = "no_matches"
	OutcomeNotReady    = "dependencies_pending"
)

var (
	// RecommendationsTotal counts optimizer runs by outcome
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Total number of assignee recommendations by outcome",
		},
		[]string{"outcome"},
	)

	// RecommendationConfidence observes the combined score of the winning candidate
	RecommendationConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_confidence",
			Help:      "Confidence of produced recommendations",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)

	// AIRequestsTotal counts calls to the AI matching service
	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_requests_total",
			Help:      "Total number of AI matching service requests",
		},
		[]string{"endpoint", "result"},
	)

	// PolicyDenialsTotal counts authorization rule rejections
	PolicyDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_denials_total",
			Help:      "Total number of denied membership or role mutations",
		},
		[]string{"rule", "reason"},
	)

	registerOnce sync.Map // *prometheus.Registry -> struct{}
)

// SetupPlanboardMetrics registers planboard collectors on the registry, once per registry
func SetupPlanboardMetrics(registry *prometheus.Registry) {
	if _, loaded := registerOnce.LoadOrStore(registry, struct{}{}); loaded {
		return
	}
	registry.MustRegister(
		RecommendationsTotal,
		RecommendationConfidence,
		AIRequestsTotal,
		PolicyDenialsTotal,
	)
}

// RecordRecommendation 记录一次推荐结果
func RecordRecommendation(outcome string, confidence float64) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeNoMatches {
		RecommendationConfidence.Observe(confidence)
	}
}

// RecordAIRequest 记录 AI 服务调用结果
func RecordAIRequest(endpoint string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	AIRequestsTotal.WithLabelValues(endpoint, result).Inc()
}

// RecordPolicyDenial 记录授权拒绝
func RecordPolicyDenial(rule, reason string) {
	PolicyDenialsTotal.WithLabelValues(rule, reason).Inc()
}
