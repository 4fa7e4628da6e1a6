package librarystore_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
)

func Test_Abort_IsRecognizedAsBusinessRuleViolation(t *testing.T) {
	err := librarystore.Abort("copy is already on loan")

	assert.True(t, librarystore.IsAborted(err))
	assert.ErrorIs(t, err, librarystore.ErrTransactionAborted)
	assert.NotErrorIs(t, err, librarystore.ErrDataAccess)
	assert.Contains(t, err.Error(), "copy is already on loan")
	assert.False(t, librarystore.IsAborted(errors.Join(librarystore.ErrDataAccess, errors.New("boom"))))
}

func Test_WritePlan_StepKinds(t *testing.T) {
	// arrange
	stmt := librarystore.Statement{SQL: "DELETE FROM loan WHERE id = ?", Args: []any{int64(1)}}
	check := func(librarystore.Row, librarystore.Captured) error { return nil }

	// act
	plan := librarystore.BuildWritePlan(
		"delete loan",
		librarystore.ReadStep("look up loan", librarystore.Fixed(stmt, nil), check),
		librarystore.RequiredExecStep("delete loan", librarystore.Fixed(stmt, nil)),
		librarystore.ExecStep("cleanup", librarystore.Fixed(stmt, nil)),
	)

	// assert
	assert.Equal(t, "delete loan", plan.Name)
	assert.Len(t, plan.Steps, 3)
	assert.True(t, plan.Steps[0].IsRead())
	assert.False(t, plan.Steps[1].IsRead())
	assert.True(t, plan.Steps[1].MustAffectRows)
	assert.False(t, plan.Steps[2].MustAffectRows)

	built, err := plan.Steps[1].Build(librarystore.Captured{})
	assert.NoError(t, err)
	assert.Equal(t, stmt, built)
}

func Test_Step_ShouldSkip_UsesCapturedValues(t *testing.T) {
	// arrange
	step := librarystore.RequiredExecStep("release copy", librarystore.Fixed(librarystore.Statement{}, nil))
	step.Skip = func(captured librarystore.Captured) bool { return !captured.Bool("loan_open") }

	// act + assert
	assert.True(t, step.ShouldSkip(librarystore.Captured{}))
	assert.False(t, step.ShouldSkip(librarystore.Captured{"loan_open": true}))
	assert.False(t, librarystore.Step{}.ShouldSkip(nil))
}

func Test_Captured_Int(t *testing.T) {
	captured := librarystore.Captured{"copy_id": int64(7), "name": "x"}

	v, ok := captured.Int("copy_id")
	assert.True(t, ok)
	assert.Equal(t, int64(7), v)

	_, ok = captured.Int("name")
	assert.False(t, ok)
}
