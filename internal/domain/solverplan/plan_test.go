package solverplan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oiltrace/tanksim/internal/domain/solverplan"
)

func alwaysEligible(int) bool { return true }

func TestAssignment_Remaining(t *testing.T) {
	a := &solverplan.Assignment{Volume: 100000, FilledSoFar: 40000}

	assert.Equal(t, 60000.0, a.Remaining())
}

func TestPlan_NextTarget_SkipsExhaustedAssignments(t *testing.T) {
	p := solverplan.New()
	p.AddCargo(solverplan.CargoSpec{CargoID: "C1", Volume: 150000})
	p.AddAssignment("C1", &solverplan.Assignment{TankID: 1, Volume: 50000, FilledSoFar: 50000})
	p.AddAssignment("C1", &solverplan.Assignment{TankID: 2, Volume: 50000})

	target := p.NextTarget("C1", alwaysEligible)

	assert.NotNil(t, target)
	assert.Equal(t, 2, target.TankID)
}

func TestPlan_NextTarget_SkipsIneligibleTank(t *testing.T) {
	p := solverplan.New()
	p.AddAssignment("C1", &solverplan.Assignment{TankID: 1, Volume: 50000})
	p.AddAssignment("C1", &solverplan.Assignment{TankID: 2, Volume: 50000})

	onlyTankTwo := func(tankID int) bool { return tankID == 2 }
	target := p.NextTarget("C1", onlyTankTwo)

	assert.Equal(t, 2, target.TankID)
}

func TestPlan_NextTarget_NilWhenNothingActionable(t *testing.T) {
	p := solverplan.New()
	p.AddAssignment("C1", &solverplan.Assignment{TankID: 1, Volume: 50000, FilledSoFar: 49999})

	target := p.NextTarget("C1", alwaysEligible)

	assert.Nil(t, target)
}

func TestNewAssignmentUnusable_WrapsCargoID(t *testing.T) {
	err := solverplan.NewAssignmentUnusable("C1")

	assert.Contains(t, err.Error(), "C1")
}
