package steps

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"
)

// conditionFunction is a function that takes a context and returns whether the
// condition has been met and an error.
//
// Suitable for polling external sources for readiness.
type conditionFunction func(context.Context) (bool, error)

// Condition returns a Step suitable for checking whether subsequent Steps can
// be executed.
//
// The Condition will execute f repeatedly (every poll interval), timing out
// with a failure when more time than the provided timeout has elapsed without
// f returning (true, nil). Errors from `f` are returned directly unless the
// error is ErrWantRetry, which merely triggers another poll.
//
// A timeout is always a failure, never treated as success: the caller must
// retry explicitly rather than have the runner guess.
func Condition(f conditionFunction, timeout time.Duration, fail bool) Step {
	return conditionStep{
		f:            f,
		fail:         fail,
		pollInterval: 10 * time.Second,
		timeout:      timeout,
	}
}

type conditionStep struct {
	f            conditionFunction
	fail         bool
	pollInterval time.Duration
	timeout      time.Duration
}

func (c conditionStep) run(ctx context.Context, log *logrus.Entry) error {
	var lastErr error

	err := wait.PollUntilContextTimeout(ctx, c.pollInterval, c.timeout, true, func(ctx context.Context) (bool, error) {
		done, err := c.f(ctx)
		if err == ErrWantRetry {
			lastErr = err
			return false, nil
		}
		lastErr = err
		return done, err
	})

	if wait.Interrupted(err) {
		if lastErr != nil {
			err = fmt.Errorf("timed out waiting for the condition %s: %w", FriendlyName(c.f), lastErr)
		} else {
			err = fmt.Errorf("timed out waiting for the condition %s", FriendlyName(c.f))
		}

		if !c.fail {
			log.Warnf("step %s failed but has configured 'fail=%t'. Continuing. Error: %s", c, c.fail, err.Error())
			return nil
		}
	}

	return err
}

func (c conditionStep) String() string {
	return fmt.Sprintf("[Condition %s, timeout %s]", FriendlyName(c.f), c.timeout)
}

func (c conditionStep) metricsName() string {
	return fmt.Sprintf("condition.%s", shortName(FriendlyName(c.f)))
}
