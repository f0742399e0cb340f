package s3x

import (
	"errors"

	"github.com/aws/smithy-go"
)

func hasCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, c := range codes {
		if apiErr.ErrorCode() == c {
			return true
		}
	}
	return false
}

// IsNotFound reports a missing key or bucket. GetObject answers NoSuchKey,
// HEAD requests have no body and answer NotFound.
func IsNotFound(err error) bool {
	return hasCode(err, "NoSuchKey", "NotFound", "NoSuchBucket")
}

// IsPreconditionFailed reports a failed If-Match / If-None-Match write.
func IsPreconditionFailed(err error) bool {
	return hasCode(err, "PreconditionFailed", "ConditionalRequestConflict")
}
