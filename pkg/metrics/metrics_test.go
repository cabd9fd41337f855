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
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(OutcomeRecommended))
	RecordRecommendation(OutcomeRecommended, 0.8)
	assert.Equal(t, before+1, testutil.ToFloat64(RecommendationsTotal.WithLabelValues(OutcomeRecommended)))

	noMatch := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(OutcomeNoMatches))
	RecordRecommendation(OutcomeNoMatches, 0)
	assert.Equal(t, noMatch+1, testutil.ToFloat64(RecommendationsTotal.WithLabelValues(OutcomeNoMatches)))
}

func TestRecordAIRequestAndPolicyDenial(t *testing.T) {
	RecordAIRequest("match-users-for-tasks", false)
	assert.GreaterOrEqual(t, testutil.ToFloat64(AIRequestsTotal.WithLabelValues("match-users-for-tasks", "failure")), 1.0)

	RecordPolicyDenial("remove_member", "sole_member")
	assert.GreaterOrEqual(t, testutil.ToFloat64(PolicyDenialsTotal.WithLabelValues("remove_member", "sole_member")), 1.0)
}

func TestSetupPlanboardMetrics_Idempotent(t *testing.T) {
	registry := prometheus.NewRegistry()
	assert.NotPanics(t, func() {
		SetupPlanboardMetrics(registry)
		SetupPlanboardMetrics(registry)
	})
}

func TestServer_Handler(t *testing.T) {
	server := ProvideMetricsServer(MetricsConfig{})
	RecordPolicyDenial("change_role", "not_admin")

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "planboard_policy_denials_total")

	// 未启用时 Start 直接返回
	assert.NoError(t, server.Start())
	assert.NoError(t, server.Stop(t.Context()))
}
