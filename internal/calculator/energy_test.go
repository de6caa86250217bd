package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StrideCoach/internal/model"
)

func TestDetectEnergyDebt(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name      string
		history   []float64
		detected  bool
		severity  model.Severity
		run       int
		reduction float64
	}{
		{"empty history", nil, false, model.SeverityNone, 0, 0},
		{"healthy", []float64{70, 65, 80}, false, model.SeverityNone, 0, 0},
		{"two low weeks", []float64{70, 30, 35}, false, model.SeverityNone, 2, 0},
		{"three shallow low weeks", []float64{70, 35, 38, 36}, true, model.SeverityLow, 3, 0.15},
		{"four deep low weeks", []float64{20, 18, 22, 19}, true, model.SeverityHigh, 4, 0.50},
		{"four shallow low weeks", []float64{35, 38, 36, 39}, true, model.SeverityMedium, 4, 0.30},
		{"run broken by recovery", []float64{20, 18, 22, 60, 30}, false, model.SeverityNone, 1, 0},
		{"long run", []float64{39, 38, 37, 36, 35, 34}, true, model.SeverityHigh, 6, 0.50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectEnergyDebt(tt.history, th)
			assert.Equal(t, tt.detected, got.Detected)
			assert.Equal(t, tt.severity, got.Severity)
			assert.Equal(t, tt.run, got.ConsecutiveLow)
			assert.InDelta(t, tt.reduction, got.TargetReduction, 1e-9)
		})
	}
}

func TestDetectEnergyDebt_MonotonicInRunLength(t *testing.T) {
	th := DefaultThresholds()
	bases := [][]float64{
		{},
		{80, 75},
		{80, 10},
		{80, 39, 39},
		{5, 5, 5},
		{24, 24, 24, 24},
	}
	appends := []float64{0, 10, 24, 25, 39}
	for _, base := range bases {
		for _, v := range appends {
			history := append([]float64(nil), base...)
			prev := DetectEnergyDebt(history, th).Severity
			for i := 0; i < 6; i++ {
				history = append(history, v)
				cur := DetectEnergyDebt(history, th).Severity
				require.GreaterOrEqual(t, int(cur), int(prev), "base=%v appended=%v x%d", base, v, i+1)
				prev = cur
			}
		}
	}
}

func TestDetectEnergyDebt_Deterministic(t *testing.T) {
	h := []float64{50, 30, 20, 10}
	assert.Equal(t, DetectEnergyDebt(h, DefaultThresholds()), DetectEnergyDebt(h, DefaultThresholds()))
}

func TestDetectComeback(t *testing.T) {
	th := DefaultThresholds()

	assert.Nil(t, DetectComeback(nil, 100, th))
	assert.Nil(t, DetectComeback([]float64{20, 80}, 100, th))

	noDeficit := DetectComeback([]float64{20, 60, 85}, 0, th)
	require.NotNil(t, noDeficit)
	assert.False(t, noDeficit.Detected)

	neverLow := DetectComeback([]float64{60, 55, 85}, 200, th)
	require.NotNil(t, neverLow)
	assert.False(t, neverLow.Detected)

	notHighYet := DetectComeback([]float64{20, 40, 60}, 200, th)
	require.NotNil(t, notHighYet)
	assert.False(t, notHighYet.Detected)

	spike := DetectComeback([]float64{10, 5, 70}, 200, th)
	require.NotNil(t, spike)
	assert.False(t, spike.Detected)

	got := DetectComeback([]float64{30, 20, 55, 85}, 200, th)
	require.NotNil(t, got)
	assert.True(t, got.Detected)
	assert.Greater(t, got.Confidence, 0.5)
	assert.LessOrEqual(t, got.Confidence, 1.0)
	assert.Equal(t, 200.0, got.Deficit)
}

func TestResolvePriority(t *testing.T) {
	th := DefaultThresholds()
	high := model.EnergyDebtResult{Detected: true, Severity: model.SeverityHigh}
	medium := model.EnergyDebtResult{Detected: true, Severity: model.SeverityMedium}
	comeback := &model.ComebackResult{Detected: true, Confidence: 0.8}

	tests := []struct {
		name     string
		debt     model.EnergyDebtResult
		comeback *model.ComebackResult
		in       model.OrchestratorInput
		want     model.Priority
	}{
		{"high debt wins over everything", high, comeback, model.OrchestratorInput{CurrentEnergy: 10, GoalProgress: 90}, model.PriorityEnergyDebtCritical},
		{"medium debt does not trigger", medium, nil, model.OrchestratorInput{CurrentEnergy: 50}, model.PriorityGeneral},
		{"comeback", medium, comeback, model.OrchestratorInput{CurrentEnergy: 10}, model.PriorityComebackOpportunity},
		{"low energy", model.EnergyDebtResult{}, nil, model.OrchestratorInput{CurrentEnergy: 24}, model.PriorityEnergyCritical},
		{"goal at risk", model.EnergyDebtResult{}, nil, model.OrchestratorInput{CurrentEnergy: 60, GoalProgress: 10, GoalAmount: model.Float(500)}, model.PriorityGoalAtRisk},
		{"low progress without goal", model.EnergyDebtResult{}, nil, model.OrchestratorInput{CurrentEnergy: 60, GoalProgress: 10}, model.PriorityGeneral},
		{"celebration", model.EnergyDebtResult{}, nil, model.OrchestratorInput{CurrentEnergy: 60, GoalProgress: 85}, model.PriorityCelebration},
		{"undetected comeback ignored", model.EnergyDebtResult{}, &model.ComebackResult{}, model.OrchestratorInput{CurrentEnergy: 60, GoalProgress: 50}, model.PriorityGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePriority(tt.debt, tt.comeback, &tt.in, th))
		})
	}
}

func TestResolvePriority_TunableThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.HighProgress = 95
	in := model.OrchestratorInput{CurrentEnergy: 60, GoalProgress: 85}
	assert.Equal(t, model.PriorityGeneral, ResolvePriority(model.EnergyDebtResult{}, nil, &in, th))
}
