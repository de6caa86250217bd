package generator

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"StrideCoach/internal/llm"
	"StrideCoach/internal/model"
	"StrideCoach/internal/tracing"
)

func TestMain(m *testing.M) {
	// genai links opencensus, whose init starts a view worker that never exits.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

func sampleContext(p model.Priority) PromptContext {
	return PromptContext{
		Input: &model.OrchestratorInput{
			ProfileID:     "p1",
			CurrentEnergy: 78,
			GoalProgress:  10,
			GoalAmount:    model.Float(1200),
			CurrentAmount: model.Float(200),
			Commitments:   []model.Commitment{{ID: "c1", Title: "Library shifts", Category: "job", WeeklyHours: 6, WeeklyEarnings: 72}},
		},
		Priority:   p,
		EnergyDebt: model.EnergyDebtResult{Detected: true, Severity: model.SeverityHigh, ConsecutiveLow: 4, TargetReduction: 0.5},
		Comeback:   &model.ComebackResult{Detected: true, Confidence: 0.8, Deficit: 1000},
		Currency:   "€",
	}
}

func TestTemplateTip_EveryPriority(t *testing.T) {
	priorities := []model.Priority{
		model.PriorityEnergyDebtCritical,
		model.PriorityComebackOpportunity,
		model.PriorityEnergyCritical,
		model.PriorityGoalAtRisk,
		model.PriorityCelebration,
		model.PriorityGeneral,
		"unheard_of",
	}
	for _, p := range priorities {
		t.Run(string(p), func(t *testing.T) {
			tip := TemplateTip(sampleContext(p))
			assert.NotEmpty(t, tip.Title)
			assert.NotEmpty(t, tip.Message)
			assert.Equal(t, CategoryFor(p), tip.Category)
			require.NotNil(t, tip.Action)
			assert.True(t, IsAllowedRoute(tip.Action.Href))
			assert.Equal(t, tip, Sanitize(tip))
		})
	}
}

func TestTemplateTip_Interpolates(t *testing.T) {
	debt := TemplateTip(sampleContext(model.PriorityEnergyDebtCritical))
	assert.Contains(t, debt.Message, "4 weeks")
	assert.Contains(t, debt.Message, "50%")

	comeback := TemplateTip(sampleContext(model.PriorityComebackOpportunity))
	assert.Contains(t, comeback.Message, "€1,000")
	assert.Contains(t, comeback.Message, "€250 per week")

	risk := TemplateTip(sampleContext(model.PriorityGoalAtRisk))
	assert.Contains(t, risk.Message, "10% of your goal with €1,000 to go")

	celebration := TemplateTip(PromptContext{Priority: model.PriorityCelebration, Input: &model.OrchestratorInput{GoalProgress: 85}})
	assert.Equal(t, model.CategoryCelebration, celebration.Category)
	assert.Contains(t, celebration.Message, "85%")

	empty := TemplateTip(PromptContext{})
	assert.Equal(t, model.CategoryProgress, empty.Category)
}

func TestStaticTip_Seeded(t *testing.T) {
	a := rand.New(rand.NewPCG(7, 11))
	b := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 10; i++ {
		ta, tb := StaticTip(a.IntN), StaticTip(b.IntN)
		assert.Equal(t, ta, tb)
		assert.True(t, IsStatic(ta))
	}

	tip := StaticTip(func(int) int { return 99 })
	assert.Equal(t, staticTips[0].Title, tip.Title)

	tip.Action.Href = "/mutated"
	assert.Equal(t, "/plan", staticTips[0].Action.Href)
	assert.True(t, IsStatic(StaticTip(nil)))

	for i, s := range staticTips {
		assert.Equal(t, s, Sanitize(s), "static tip %d changes under Sanitize", i)
	}
}

func TestBuildPrompt(t *testing.T) {
	pc := sampleContext(model.PriorityGoalAtRisk)
	pc.Similar = &model.SimilarContext{Exemplars: "- 12 students in deficit cut subscriptions first"}
	pc.RegionalHints = []string{"Exam invigilation pays well in May and June"}
	system, user := BuildPrompt(pc)

	assert.Contains(t, system, "/plan/goals")
	assert.Contains(t, system, "ONLY a JSON object")
	assert.Contains(t, user, "Top priority: goal_at_risk")
	assert.Contains(t, user, "Still missing: €1,000")
	assert.Contains(t, user, "Library shifts")
	assert.Contains(t, user, "Energy debt: high severity")
	assert.Contains(t, user, "Similar situations:\n- 12 students")
	assert.Contains(t, user, "Exam invigilation")
}

func TestGenerate_UsesCompletion(t *testing.T) {
	var req llm.Request
	completer := llm.Func(func(_ context.Context, r llm.Request) (string, error) {
		req = r
		return "```json\n{\"title\":\"Tutor on Superprof\",\"message\":\"Sign up on Superprof now to tutor maths.\",\"category\":\"opportunity\",\"action\":{\"label\":\"See jobs\",\"href\":\"https://superprof.fr\"}}\n```", nil
	})
	mem := &tracing.Memory{}
	g := New(completer, Options{}, nil)

	tip, source := g.Generate(context.Background(), sampleContext(model.PriorityGeneral), tracing.NewTracer(mem))

	assert.Equal(t, model.SourceLLM, source)
	assert.Equal(t, float32(0.5), req.Temperature)
	assert.Equal(t, int32(256), req.MaxTokens)
	assert.Equal(t, "Tutor on a platform", tip.Title)
	assert.Equal(t, "Explore opportunities to tutor maths.", tip.Message)
	assert.Equal(t, DefaultAction, *tip.Action)
	assert.Equal(t, []string{"generator"}, mem.Names())
	assert.Equal(t, "llm", mem.Spans()[0].Attributes["source"])
}

func TestGenerate_FallsBackToTemplate(t *testing.T) {
	cases := map[string]llm.Completer{
		"error":   llm.Func(func(context.Context, llm.Request) (string, error) { return "", errors.New("503") }),
		"garbage": llm.Func(func(context.Context, llm.Request) (string, error) { return "no json here", nil }),
		"panic":   llm.Func(func(context.Context, llm.Request) (string, error) { panic("boom") }),
		"hang": llm.Func(func(ctx context.Context, _ llm.Request) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}),
		"nil": nil,
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			g := New(c, Options{Timeout: 50 * time.Millisecond}, nil)
			start := time.Now()
			tip, source := g.Generate(context.Background(), sampleContext(model.PriorityEnergyDebtCritical), tracing.NewTracer(nil))
			assert.Less(t, time.Since(start), time.Second)
			assert.Equal(t, model.SourceTemplate, source)
			assert.Equal(t, "Time to recharge", tip.Title)
			assert.False(t, strings.Contains(tip.Message, "{"))
		})
	}
}
