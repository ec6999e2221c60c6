package dynamo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable_ThroughputExceeded(t *testing.T) {
	err := fmt.Errorf("put failed: %w", &types.ProvisionedThroughputExceededException{
		Message: aws.String("throughput exceeded"),
	})
	assert.True(t, IsRetryable(err))
}

func TestIsRetryable_InternalServerError(t *testing.T) {
	err := fmt.Errorf("put failed: %w", &types.InternalServerError{
		Message: aws.String("internal error"),
	})
	assert.True(t, IsRetryable(err))
}

func TestIsRetryable_RequestLimitExceeded(t *testing.T) {
	err := fmt.Errorf("put failed: %w", &types.RequestLimitExceeded{
		Message: aws.String("request limit"),
	})
	assert.True(t, IsRetryable(err))
}

func TestIsRetryable_GenericThrottlingCode(t *testing.T) {
	err := &smithy.GenericAPIError{
		Code:    "ThrottlingException",
		Message: "slow down",
	}
	assert.True(t, IsRetryable(fmt.Errorf("put failed: %w", err)))
}

func TestIsRetryable_NonRetryableCode(t *testing.T) {
	err := &smithy.GenericAPIError{
		Code:    "ValidationException",
		Message: "bad item",
	}
	assert.False(t, IsRetryable(fmt.Errorf("put failed: %w", err)))
}

func TestIsRetryable_PlainError(t *testing.T) {
	assert.False(t, IsRetryable(errors.New("something else")))
}
