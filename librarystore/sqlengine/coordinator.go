package sqlengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
	"github.com/AntonStoeckl/relational-library-store-go/librarystore/sqlengine/internal/adapters"
)

// RunTransaction executes the plan's steps in order inside one transaction on the pinned connection.
//
// It returns (true, nil) when every step ran and the transaction committed. A failed precondition or a
// required step that affected no rows rolls back and returns (false, nil). Any statement error rolls back
// and returns (false, err) with err wrapping librarystore.ErrDataAccess. The connection is back in
// auto-commit mode when RunTransaction returns, whatever the outcome.
func (s *Store) RunTransaction(ctx context.Context, plan librarystore.WritePlan) (bool, error) {
	if len(plan.Steps) == 0 {
		return false, librarystore.ErrEmptyWritePlan
	}

	conn, err := s.connection()
	if err != nil {
		return false, err
	}

	if !s.conn.autoCommit {
		return false, librarystore.ErrTransactionInProgress
	}

	s.conn.autoCommit = false
	defer func() { s.conn.autoCommit = true }()

	planID := uuid.NewString()
	ctx, span := s.startTraceSpan(ctx, spanNameWritePlan, map[string]string{spanAttrOperation: plan.Name, spanAttrPlanID: planID})
	start := time.Now()

	tx, err := conn.Begin(ctx)
	if err != nil {
		s.logError(ctx, logMsgBeginFailed, err, logAttrPlan, plan.Name, logAttrPlanID, planID)
		s.recordErrorMetrics(ctx, plan.Name, errorTypeBegin)
		s.recordPlanOutcome(ctx, plan.Name, statusFailed, time.Since(start))
		s.finishTraceSpan(span, statusFailed, map[string]string{spanAttrErrorType: errorTypeBegin})

		return false, errors.Join(librarystore.ErrDataAccess, err)
	}

	if err = s.runSteps(ctx, tx, plan, planID); err != nil {
		s.rollback(ctx, tx, plan.Name, planID)

		if librarystore.IsAborted(err) {
			s.logOperation(ctx, logMsgPlanAborted,
				logAttrPlan, plan.Name, logAttrPlanID, planID, logAttrReason, err.Error(),
				logAttrDurationMS, toMilliseconds(time.Since(start)))
			s.recordPlanOutcome(ctx, plan.Name, statusAborted, time.Since(start))
			s.finishTraceSpan(span, statusAborted, nil)

			return false, nil
		}

		s.logError(ctx, logMsgPlanFailed, err, logAttrPlan, plan.Name, logAttrPlanID, planID)
		s.recordErrorMetrics(ctx, plan.Name, errorTypeStep)
		s.recordPlanOutcome(ctx, plan.Name, statusFailed, time.Since(start))
		s.finishTraceSpan(span, statusFailed, map[string]string{spanAttrErrorType: errorTypeStep})

		if !errors.Is(err, librarystore.ErrDataAccess) {
			err = errors.Join(librarystore.ErrDataAccess, err)
		}

		return false, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logError(ctx, logMsgCommitFailed, err, logAttrPlan, plan.Name, logAttrPlanID, planID)
		s.recordErrorMetrics(ctx, plan.Name, errorTypeCommit)
		s.recordPlanOutcome(ctx, plan.Name, statusFailed, time.Since(start))
		s.finishTraceSpan(span, statusFailed, map[string]string{spanAttrErrorType: errorTypeCommit})

		return false, errors.Join(librarystore.ErrDataAccess, err)
	}

	duration := time.Since(start)
	s.logOperation(ctx, logMsgPlanCommitted,
		logAttrPlan, plan.Name, logAttrPlanID, planID, logAttrDurationMS, toMilliseconds(duration))
	s.recordPlanOutcome(ctx, plan.Name, statusCommitted, duration)
	s.finishTraceSpan(span, statusCommitted, nil)

	return true, nil
}

func (s *Store) runSteps(ctx context.Context, tx adapters.DBTx, plan librarystore.WritePlan, planID string) error {
	captured := librarystore.Captured{}

	for _, step := range plan.Steps {
		if step.ShouldSkip(captured) {
			s.logOperation(ctx, logMsgStepSkipped, logAttrPlan, plan.Name, logAttrPlanID, planID, logAttrStep, step.Name)
			continue
		}

		if step.Build == nil {
			return fmt.Errorf("step %q: %w", step.Name, librarystore.ErrBuildingStatementFailed)
		}

		stmt, err := step.Build(captured)
		if err != nil {
			return fmt.Errorf("step %q: %w", step.Name, err)
		}

		start := time.Now()

		if step.IsRead() {
			err = s.runReadStep(ctx, tx, step, stmt, captured)
		} else {
			err = s.runExecStep(ctx, tx, step, stmt)
		}

		s.logQueryWithDuration(ctx, stmt.SQL, plan.Name+"/"+step.Name, time.Since(start))

		if err != nil {
			return err
		}
	}

	return nil
}

// runReadStep hands the first result row to the step's precondition; no row aborts the plan.
func (s *Store) runReadStep(
	ctx context.Context,
	tx adapters.DBTx,
	step librarystore.Step,
	stmt librarystore.Statement,
	captured librarystore.Captured,
) error {
	rows, err := tx.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return errors.Join(librarystore.ErrDataAccess, fmt.Errorf("step %q: %w", step.Name, err))
	}

	row, found, err := firstRow(rows)
	s.closeRows(ctx, rows)

	if err != nil {
		return fmt.Errorf("step %q: %w", step.Name, err)
	}

	if !found {
		return librarystore.Abort(step.Name + ": no matching row")
	}

	return step.Check(row, captured)
}

// runExecStep executes a statement; a required step that affects no rows aborts the plan.
func (s *Store) runExecStep(
	ctx context.Context,
	tx adapters.DBTx,
	step librarystore.Step,
	stmt librarystore.Statement,
) error {
	result, err := tx.Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return errors.Join(librarystore.ErrDataAccess, fmt.Errorf("step %q: %w", step.Name, err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.Join(librarystore.ErrDataAccess, fmt.Errorf("step %q: %w", step.Name, err))
	}

	if step.MustAffectRows && rowsAffected == 0 {
		return librarystore.Abort(step.Name + ": no rows affected")
	}

	return nil
}

// rollback discards the transaction; it also runs when the caller's context is already cancelled.
func (s *Store) rollback(ctx context.Context, tx adapters.DBTx, plan string, planID string) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil {
		s.logWarn(ctx, logMsgRollbackFailed, logAttrError, err.Error(), logAttrPlan, plan, logAttrPlanID, planID)
	}
}
