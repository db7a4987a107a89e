// internal/domain/upload/provider_test.go
package upload

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMissingBucket(t *testing.T) {
	assert.True(t, IsMissingBucket(fmt.Errorf("Bucket not found: product-images")))
	assert.True(t, IsMissingBucket(fmt.Errorf("storage error: Bucket not found")))
	assert.False(t, IsMissingBucket(errors.New("permission denied")))
	assert.False(t, IsMissingBucket(nil))
}

func TestEncodeDataURL(t *testing.T) {
	url := EncodeDataURL("image/png", []byte("hello"))

	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", url)
}
