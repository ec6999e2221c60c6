package dynamo

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// retryableCodes are transient service conditions worth replaying through the
// reprocessing queue.
var retryableCodes = map[string]struct{}{
	"ThrottlingException":                    {},
	"ProvisionedThroughputExceededException": {},
	"RequestLimitExceeded":                   {},
	"InternalServerError":                    {},
	"ServiceUnavailable":                     {},
}

// IsRetryable classifies a store write failure. Retryable failures are
// re-enqueued for asynchronous reprocessing; everything else is dropped after
// being reported.
func IsRetryable(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	if errors.As(err, &throughput) {
		return true
	}

	var internal *types.InternalServerError
	if errors.As(err, &internal) {
		return true
	}

	var limit *types.RequestLimitExceeded
	if errors.As(err, &limit) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		_, ok := retryableCodes[apiErr.ErrorCode()]
		return ok
	}

	return false
}
