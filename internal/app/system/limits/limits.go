// internal/app/system/limits/limits.go
package limits

// Request body size limits. These prevent memory exhaustion from
// oversized requests before JSON decoding starts.
const (
	// MaxJSONBodySize caps every JSON request body. The largest
	// legitimate payload is a profile form with a long bio, well under
	// this.
	MaxJSONBodySize = 64 << 10 // 64 KB
)
