package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"StrideCoach/internal/model"
	"StrideCoach/internal/tracing"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBudgetSeverityFor(t *testing.T) {
	tests := []struct {
		margin float64
		want   model.BudgetSeverity
	}{
		{-0.01, model.BudgetCritical},
		{-300, model.BudgetCritical},
		{0, model.BudgetWarning},
		{49.99, model.BudgetWarning},
		{50, model.BudgetTight},
		{199, model.BudgetTight},
		{200, model.BudgetComfortable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BudgetSeverityFor(tt.margin), "margin %v", tt.margin)
	}
}

func TestAnalyzeBudget_PrefersLowEffortUnderPressure(t *testing.T) {
	res, err := BudgetAnalyzer{}.AnalyzeBudget(context.Background(), -120)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, model.BudgetCritical, res.Severity)
	require.Len(t, res.Optimizations, 3)
	for _, o := range res.Optimizations {
		assert.Equal(t, model.EffortLow, o.Effort)
	}
	// Among low-effort items, biggest savings first.
	assert.Equal(t, "second-hand", res.Optimizations[0].ID)
	assert.InDelta(t, 35+30+25, res.PotentialSavings, 1e-9)
}

func TestAnalyzeBudget_BiggestSavingsWhenComfortable(t *testing.T) {
	res, err := BudgetAnalyzer{}.AnalyzeBudget(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, model.BudgetComfortable, res.Severity)
	ids := []string{res.Optimizations[0].ID, res.Optimizations[1].ID, res.Optimizations[2].ID}
	assert.Equal(t, []string{"flatshare", "meal-prep", "bike-commute"}, ids)
}

func TestMatchOpportunities(t *testing.T) {
	ctx := context.Background()

	t.Run("empty skills yields no data", func(t *testing.T) {
		res, err := JobMatcher{}.MatchOpportunities(ctx, []string{" ", ""}, 80)
		require.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("fuzzy skill match", func(t *testing.T) {
		res, err := JobMatcher{}.MatchOpportunities(ctx, []string{"Javascrpt"}, 80)
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.False(t, res.Fallback)
		assert.Equal(t, "web-freelance", res.Matches[0].ID)
		assert.Equal(t, []string{"javascrpt"}, res.Matches[0].MatchedSkills)
	})

	t.Run("low energy drops high effort", func(t *testing.T) {
		res, err := JobMatcher{}.MatchOpportunities(ctx, []string{"javascript", "english"}, 20)
		require.NoError(t, err)
		require.NotNil(t, res)
		for _, m := range res.Matches {
			assert.NotEqual(t, model.EffortHigh, m.Effort, m.ID)
		}
	})

	t.Run("at most five ranked matches", func(t *testing.T) {
		res, err := JobMatcher{}.MatchOpportunities(ctx, []string{"english", "french", "writing", "communication", "design", "excel"}, 90)
		require.NoError(t, err)
		require.Len(t, res.Matches, 5)
		for i := 1; i < len(res.Matches); i++ {
			assert.GreaterOrEqual(t, res.Matches[i-1].Score, res.Matches[i].Score)
		}
	})

	t.Run("no overlap falls back to generic top three", func(t *testing.T) {
		res, err := JobMatcher{}.MatchOpportunities(ctx, []string{"underwater basket weaving"}, 90)
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.True(t, res.Fallback)
		require.Len(t, res.Matches, 3)
		assert.Equal(t, "web-freelance", res.Matches[0].ID)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := JobMatcher{}.MatchOpportunities(cctx, []string{"maths"}, 90)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRegionalHints(t *testing.T) {
	assert.Nil(t, RegionalHints(nil))
	fr := RegionalHints(&model.Location{Region: "FR", City: "Lyon"})
	assert.Len(t, fr, 4)
	assert.Contains(t, fr[3], "Lyon")
	assert.Len(t, RegionalHints(&model.Location{Region: "mars"}), 2)

	assert.Equal(t, "£", CurrencySymbol(&model.Location{Region: "uk"}))
	assert.Equal(t, "$", CurrencySymbol(&model.Location{Currency: "usd"}))
	assert.Equal(t, "€", CurrencySymbol(nil))
}

type slowBudget struct{ delay time.Duration }

func (s slowBudget) AnalyzeBudget(ctx context.Context, margin float64) (*model.BudgetAnalysis, error) {
	time.Sleep(s.delay)
	return BudgetAnalyzer{}.AnalyzeBudget(ctx, margin)
}

type slowJobs struct{ delay time.Duration }

func (s slowJobs) MatchOpportunities(ctx context.Context, skills []string, energy float64) (*model.MatchResult, error) {
	time.Sleep(s.delay)
	return JobMatcher{}.MatchOpportunities(ctx, skills, energy)
}

type failingBudget struct{}

func (failingBudget) AnalyzeBudget(context.Context, float64) (*model.BudgetAnalysis, error) {
	return nil, errors.New("ledger offline")
}

type panickingJobs struct{}

func (panickingJobs) MatchOpportunities(context.Context, []string, float64) (*model.MatchResult, error) {
	panic("index out of range")
}

func poolInput() *model.OrchestratorInput {
	return &model.OrchestratorInput{
		ProfileID:     "p1",
		CurrentEnergy: 70,
		Skills:        []string{"maths"},
		MonthlyMargin: model.Float(-40),
	}
}

func TestPool_RunsConcurrently(t *testing.T) {
	mem := &tracing.Memory{}
	pool := NewPool(slowBudget{150 * time.Millisecond}, slowJobs{150 * time.Millisecond}, nil)

	start := time.Now()
	res := pool.Run(context.Background(), poolInput(), tracing.NewTracer(mem))
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 290*time.Millisecond)
	assert.True(t, res.Budget.OK())
	assert.True(t, res.Jobs.OK())
	assert.Equal(t, []string{NameBudget, NameJobs}, res.AgentsRun)
	assert.ElementsMatch(t, []string{"agent.budget", "agent.jobs"}, mem.Names())
}

func TestPool_FailuresAreOmittedNotPropagated(t *testing.T) {
	mem := &tracing.Memory{}
	pool := NewPool(failingBudget{}, panickingJobs{}, nil)

	res := pool.Run(context.Background(), poolInput(), tracing.NewTracer(mem))

	assert.False(t, res.Budget.OK())
	assert.Contains(t, res.Budget.Reason(), "ledger offline")
	assert.False(t, res.Jobs.OK())
	assert.Contains(t, res.Jobs.Reason(), "panicked")

	spans := mem.Spans()
	require.Len(t, spans, 2)
	for _, s := range spans {
		assert.NotEmpty(t, s.Error, s.Name)
	}
}

func TestPool_OneFailureKeepsSibling(t *testing.T) {
	pool := NewPool(failingBudget{}, nil, nil)
	res := pool.Run(context.Background(), poolInput(), tracing.NewTracer(nil))
	assert.False(t, res.Budget.OK())
	jobs, ok := res.Jobs.Get()
	require.True(t, ok)
	assert.Equal(t, "tutoring", jobs.Matches[0].ID)
}

func TestPool_SkipsAgentsWithoutInput(t *testing.T) {
	mem := &tracing.Memory{}
	res := NewPool(nil, nil, nil).Run(context.Background(), &model.OrchestratorInput{CurrentEnergy: 50}, tracing.NewTracer(mem))
	assert.Empty(t, res.AgentsRun)
	assert.Empty(t, mem.Spans())
	assert.Equal(t, "no monthly margin", res.Budget.Reason())
	assert.Equal(t, "no skills", res.Jobs.Reason())
}
