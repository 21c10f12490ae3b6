package steps

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"
)

var ErrWantRetry = errors.New("want retry")

// RetryingAction returns a wrapper Step which will rerun the action if it
// returns an error matched by `retryable` (typically a transient provisioning
// or propagation failure). The step is retried until `retryTimeout` is hit.
// Any other error is returned directly.
func RetryingAction(retryable func(error) bool, action actionFunction) Step {
	return &retryingActionStep{
		retryable: retryable,
		f:         action,
	}
}

type retryingActionStep struct {
	f            actionFunction
	retryable    func(error) bool
	retryTimeout time.Duration
	pollInterval time.Duration
}

func (s *retryingActionStep) run(ctx context.Context, log *logrus.Entry) error {
	retryTimeout := s.retryTimeout
	if retryTimeout == time.Duration(0) {
		retryTimeout = 5 * time.Minute
	}

	pollInterval := s.pollInterval
	if pollInterval == time.Duration(0) {
		pollInterval = 15 * time.Second
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, retryTimeout)
	defer cancel()

	// Run the step immediately. If a retryable error is returned and we have
	// not hit the retry timeout, the step is called again after pollInterval.
	// If we have timed out or any other error is returned, the error from the
	// step is returned directly.
	var lastErr error

	err := wait.PollUntilContextTimeout(timeoutCtx, pollInterval, retryTimeout, true, func(_ context.Context) (bool, error) {
		// We use the outer context, not the timeout context, as we do not want
		// to time out the action function itself, only stop retrying once
		// timeoutCtx's timeout has fired.
		err := s.f(ctx)
		lastErr = err

		if err != nil && (s.retryable == nil && err == ErrWantRetry || s.retryable != nil && s.retryable(err)) {
			log.Printf("transient error, retrying: %v", err)
			return false, nil
		}
		return true, err
	})

	if wait.Interrupted(err) && lastErr != nil {
		return lastErr
	}

	return err
}

func (s *retryingActionStep) String() string {
	return fmt.Sprintf("[RetryingAction %s]", FriendlyName(s.f))
}

func (s *retryingActionStep) metricsName() string {
	return fmt.Sprintf("retryingaction.%s", shortName(FriendlyName(s.f)))
}
