// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize bounds the size of documents accepted for parsing.
const DefaultMaxFileSize int64 = 4 << 20

type (
	// Option configures Unify and DecodeMap.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

func defaultOptions() options {
	return options{filename: "<input>", maxFileSize: DefaultMaxFileSize}
}

// WithFilename sets the name used in error messages.
func WithFilename(name string) Option {
	return func(o *options) {
		if name != "" {
			o.filename = name
		}
	}
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *options) { o.maxFileSize = size }
}

// WithConcrete requires every field of the unified value to be concrete.
// Configuration files leave most fields optional and do not set it.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}
