// Package retry retries connection establishment on transient failures.
//
// Only connecting is retried. Statements that write rows are never passed
// through an Executor: a failed insert ends the run.
//
//	executor := retry.NewExecutor(
//	    retry.NewPostgreSQLErrorClassifier(),
//	    retry.NewExponentialBackoff(pgetl.DefaultRetryMaxAttempts),
//	).WithOnRetry(func(attempt int, err error, delay time.Duration) {
//	    logger.Verbose("connect attempt %d failed, retrying in %v: %v", attempt+1, delay, err)
//	})
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
package retry
