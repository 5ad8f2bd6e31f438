package elf

import (
	"errors"
	"fmt"
)

// ErrorKind identifies a specific decode failure
type ErrorKind int

const (
	KindTruncatedInput ErrorKind = iota + 1
	KindInvalidMagic
	KindInvalidClass
	KindInvalidEncoding
	KindUnsupportedVersion
	KindVersionMismatch
	KindInvalidHeaderSize
	KindInvalidProgramHeaderEntrySize
	KindInvalidSectionHeaderEntrySize
	KindInconsistentProgramHeader
	KindPrematureNullEntry
)

var kindNames = map[ErrorKind]string{
	KindTruncatedInput:                "TruncatedInput",
	KindInvalidMagic:                  "InvalidMagic",
	KindInvalidClass:                  "InvalidClass",
	KindInvalidEncoding:               "InvalidEncoding",
	KindUnsupportedVersion:            "UnsupportedVersion",
	KindVersionMismatch:               "VersionMismatch",
	KindInvalidHeaderSize:             "InvalidHeaderSize",
	KindInvalidProgramHeaderEntrySize: "InvalidProgramHeaderEntrySize",
	KindInvalidSectionHeaderEntrySize: "InvalidSectionHeaderEntrySize",
	KindInconsistentProgramHeader:     "InconsistentProgramHeader",
	KindPrematureNullEntry:            "PrematureNullEntry",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Fatal reports whether a failure of this kind aborts the decode.
// Reported kinds are surfaced to the caller but decoding continues.
func (k ErrorKind) Fatal() bool {
	switch k {
	case KindInconsistentProgramHeader, KindPrematureNullEntry:
		return false
	}
	return true
}

// Sentinel errors, one per kind, for use with errors.Is
var (
	ErrTruncatedInput                = errors.New("truncated input")
	ErrInvalidMagic                  = errors.New("invalid magic number")
	ErrInvalidClass                  = errors.New("invalid class")
	ErrInvalidEncoding               = errors.New("invalid data encoding")
	ErrUnsupportedVersion            = errors.New("unsupported identification version")
	ErrVersionMismatch               = errors.New("header version mismatch")
	ErrInvalidHeaderSize             = errors.New("invalid header size")
	ErrInvalidProgramHeaderEntrySize = errors.New("invalid program header entry size")
	ErrInvalidSectionHeaderEntrySize = errors.New("invalid section header entry size")
	ErrInconsistentProgramHeader     = errors.New("inconsistent program header offset and entry size")
	ErrPrematureNullEntry            = errors.New("null program header entry before declared count")
)

var kindSentinels = map[ErrorKind]error{
	KindTruncatedInput:                ErrTruncatedInput,
	KindInvalidMagic:                  ErrInvalidMagic,
	KindInvalidClass:                  ErrInvalidClass,
	KindInvalidEncoding:               ErrInvalidEncoding,
	KindUnsupportedVersion:            ErrUnsupportedVersion,
	KindVersionMismatch:               ErrVersionMismatch,
	KindInvalidHeaderSize:             ErrInvalidHeaderSize,
	KindInvalidProgramHeaderEntrySize: ErrInvalidProgramHeaderEntrySize,
	KindInvalidSectionHeaderEntrySize: ErrInvalidSectionHeaderEntrySize,
	KindInconsistentProgramHeader:     ErrInconsistentProgramHeader,
	KindPrematureNullEntry:            ErrPrematureNullEntry,
}

// DecodeError describes a failed structural check. Offset is the position
// of the field that failed; Expected and Actual are filled in for every
// mismatch check.
type DecodeError struct {
	Kind     ErrorKind `json:"kind"`
	Offset   int       `json:"offset"`
	Expected uint64    `json:"expected"`
	Actual   uint64    `json:"actual"`
	Detail   string    `json:"detail,omitempty"`
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("%s at offset 0x%x", kindSentinels[e.Kind], e.Offset)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the sentinel error for the kind
func (e *DecodeError) Unwrap() error {
	return kindSentinels[e.Kind]
}

// Fatal reports whether the error aborts decoding
func (e *DecodeError) Fatal() bool {
	return e.Kind.Fatal()
}

func mismatch(kind ErrorKind, offset int, expected, actual uint64) *DecodeError {
	return &DecodeError{
		Kind:     kind,
		Offset:   offset,
		Expected: expected,
		Actual:   actual,
		Detail:   fmt.Sprintf("expected 0x%x, got 0x%x", expected, actual),
	}
}

func truncated(offset, want, have int) *DecodeError {
	return &DecodeError{
		Kind:     KindTruncatedInput,
		Offset:   offset,
		Expected: uint64(want),
		Actual:   uint64(have),
		Detail:   fmt.Sprintf("need %d bytes, %d remaining", want, have),
	}
}
