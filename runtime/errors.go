package cbor

import (
	"strconv"
	"strings"
)

const resumableDefault = false

// Kind names the reason a decode failed.
type Kind uint8

// Decode error kinds
const (
	KindInvalidType    Kind = iota + 1 // header outside the supported format
	KindUnexpectedEOF                  // buffer ended inside an item
	KindUnexpectedType                 // well-formed item of the wrong type
	KindIntOverflow                    // integer above the method's ceiling
	KindTooLong                        // length above the configured limit
	KindTooNested                      // nesting above Config.MaxNesting
)

// String implements fmt.Stringer
func (k Kind) String() string {
	switch k {
	case KindInvalidType:
		return "Invalid type"
	case KindUnexpectedEOF:
		return "Unexpected end-of-buffer"
	case KindUnexpectedType:
		return "Unexpected type"
	case KindIntOverflow:
		return "Integer overflow"
	case KindTooLong:
		return "Field too long"
	case KindTooNested:
		return "Object nested too deep"
	default:
		return "Unknown decode error"
	}
}

var (
	// ErrInvalidType matches decode errors for headers outside the supported format:
	// reserved additional info, indefinite integers, unknown simple values, bad UTF-8.
	ErrInvalidType error = &DecodeError{Kind: KindInvalidType}

	// ErrUnexpectedEOF matches decode errors where the buffer is too short
	// to contain the item being read.
	ErrUnexpectedEOF error = &DecodeError{Kind: KindUnexpectedEOF}

	// ErrUnexpectedType matches decode errors where the next item is well formed
	// but not of a type the read method accepts.
	ErrUnexpectedType error = &DecodeError{Kind: KindUnexpectedType}

	// ErrIntOverflow matches decode errors where an integer exceeds the width
	// of the method used to read it.
	ErrIntOverflow error = &DecodeError{Kind: KindIntOverflow}

	// ErrTooLong matches decode errors where a length exceeds the Config limit.
	ErrTooLong error = &DecodeError{Kind: KindTooLong}

	// ErrTooNested matches decode errors where an item is nested deeper than
	// Config.MaxNesting. This should only realistically be seen on adversarial data.
	ErrTooNested error = &DecodeError{Kind: KindTooNested}
)

// Error is the interface satisfied
// by all of the errors that originate
// from this package.
type Error interface {
	error

	// Resumable returns whether
	// or not the error means that
	// the stream of data is malformed
	// and the information is unrecoverable.
	Resumable() bool
}

// contextError allows Error instances to be enhanced with additional
// context about their origin.
type contextError interface {
	Error

	// withContext must not modify the error instance - it must clone and
	// return a new error with the context added.
	withContext(ctx string) error
}

// Cause returns the underlying cause of an error that has been wrapped
// with additional context.
func Cause(e error) error {
	out := e
	if e, ok := e.(errWrapped); ok && e.cause != nil {
		out = e.cause
	}
	return out
}

// Resumable returns whether or not the error means that the stream of data is
// malformed and the information is unrecoverable.
func Resumable(e error) bool {
	if e, ok := e.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// WrapError wraps an error with additional context that allows the part of the
// serialized type that caused the problem to be identified. Underlying errors
// can be retrieved using Cause()
//
// The input error is not modified - a new error should be returned.
func WrapError(err error, ctx ...any) error {
	switch e := err.(type) {
	case contextError:
		return e.withContext(ctxString(ctx))
	default:
		return errWrapped{cause: err, ctx: ctxString(ctx)}
	}
}

func ctxString(ctx []any) string {
	parts := make([]string, 0, len(ctx))
	for _, c := range ctx {
		switch v := c.(type) {
		case string:
			parts = append(parts, v)
		case int:
			parts = append(parts, strconv.Itoa(v))
		default:
			parts = append(parts, "<?>")
		}
	}
	return strings.Join(parts, "/")
}

func addCtx(ctx, add string) string {
	if ctx != "" {
		return add + "/" + ctx
	} else {
		return add
	}
}

// errWrapped allows arbitrary errors passed to WrapError to be enhanced with
// context and unwrapped with Cause()
type errWrapped struct {
	cause error
	ctx   string
}

func (e errWrapped) Error() string {
	if e.ctx != "" {
		return e.cause.Error() + " at " + e.ctx
	} else {
		return e.cause.Error()
	}
}

func (e errWrapped) Resumable() bool {
	if e, ok := e.cause.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// Unwrap returns the cause.
func (e errWrapped) Unwrap() error { return e.cause }

// DecodeError is returned by every Decoder method that fails.
// Extra carries a payload specific to Kind:
//
//	KindInvalidType     byte (the header) or string (reason)
//	KindUnexpectedEOF   Short
//	KindUnexpectedType  TypeMismatch
//	KindIntOverflow     Overflow
//	KindTooLong         Overflow
//	KindTooNested       int (the configured limit)
type DecodeError struct {
	Kind   Kind
	Offset int // offset of the item header in the decoder's buffer
	Extra  any

	ctx string
}

// TypeMismatch describes a KindUnexpectedType failure.
type TypeMismatch struct {
	Got    Type
	Header byte
	Want   []Type
}

// Overflow describes KindIntOverflow and KindTooLong failures.
type Overflow struct {
	Value uint64
	Limit uint64
}

// Short describes a KindUnexpectedEOF failure.
type Short struct {
	Need int
	Have int
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	out := "cbor: " + e.Kind.String() + " at offset " + strconv.Itoa(e.Offset)
	switch x := e.Extra.(type) {
	case TypeMismatch:
		wants := make([]string, len(x.Want))
		for i, w := range x.Want {
			wants[i] = w.String()
		}
		out += ": got " + quoteStr(x.Got.String()) + ", want one of [" + strings.Join(wants, " ") + "]"
	case Overflow:
		out += ": " + strconv.FormatUint(x.Value, 10) + " exceeds " + strconv.FormatUint(x.Limit, 10)
	case Short:
		out += ": need " + strconv.Itoa(x.Need) + " bytes, have " + strconv.Itoa(x.Have)
	case byte:
		out += ": header 0x" + strconv.FormatUint(uint64(x), 16)
	case string:
		out += ": " + x
	case int:
		out += ": limit " + strconv.Itoa(x)
	}
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

// Is reports whether target is a *DecodeError of the same Kind, which makes the
// package sentinels usable with errors.Is.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	return ok && t.Kind == e.Kind
}

// Resumable is 'true' when the input is well formed and the decoder did not move,
// so another read method may be tried on the same item.
func (e *DecodeError) Resumable() bool {
	switch e.Kind {
	case KindUnexpectedType, KindIntOverflow, KindTooLong:
		return true
	default:
		return false
	}
}

func (e *DecodeError) withContext(ctx string) error {
	o := *e
	o.ctx = addCtx(o.ctx, ctx)
	return &o
}

// RangeError is returned by the Encoder when a value or length cannot be
// represented by the method it was passed to.
type RangeError struct {
	Method   string // encoder method, e.g. "u8" or "array"
	Value    uint64 // magnitude of the rejected value
	Negative bool   // the rejected value was negative
	Limit    uint64 // largest magnitude the method accepts
	ctx      string
}

// Error implements the error interface
func (r *RangeError) Error() string {
	v := strconv.FormatUint(r.Value, 10)
	if r.Negative {
		v = "-" + v
	}
	out := "cbor: invalid " + r.Method + ": " + v + " not representable (limit " + strconv.FormatUint(r.Limit, 10) + ")"
	if r.ctx != "" {
		out += " at " + r.ctx
	}
	return out
}

// Resumable is always 'false' for RangeErrors; the Encoder is unusable afterwards.
func (r *RangeError) Resumable() bool { return false }

func (r *RangeError) withContext(ctx string) error {
	o := *r
	o.ctx = addCtx(o.ctx, ctx)
	return &o
}

func quoteStr(s string) string {
	return strconv.Quote(s)
}

// TrailingBytesError is returned by Decoder.Finish when input remains after
// the last expected item.
type TrailingBytesError struct {
	Offset int // position of the first unread byte
	Count  int // number of unread bytes
}

// Error implements the error interface
func (e *TrailingBytesError) Error() string {
	return "cbor: " + strconv.Itoa(e.Count) + " trailing bytes at offset " + strconv.Itoa(e.Offset)
}

// Resumable is always 'false' for TrailingBytesErrors.
func (e *TrailingBytesError) Resumable() bool { return false }
