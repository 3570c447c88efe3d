// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type AllocError GenericError
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type OperationError GenericError
type SerialisationError GenericError
type StateError GenericError
type TodoError GenericError
type ValidationError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised     = StateError("already initialised")
	ErrAlreadyPruned          = ExistsError("leaf is already pruned")
	ErrChunkTruncated         = SerialisationError("sync chunk is truncated")
	ErrContextReleased        = StateError("curve context has been released")
	ErrDecryptionFailed       = ValidationError("decryption failed")
	ErrDuplicate              = ExistsError("duplicate key")
	ErrDuplicateKernel        = ExistsError("duplicate kernel")
	ErrInvalidBackend         = InvalidError("invalid database backend")
	ErrInvalidBlindingFactor  = InvalidError("invalid blinding factor")
	ErrInvalidChunk           = ValidationError("sync chunk does not match its peak")
	ErrInvalidCommitment      = InvalidError("invalid commitment")
	ErrInvalidDirectory       = InvalidError("invalid directory")
	ErrInvalidKernelLength    = SerialisationError("invalid kernel length")
	ErrInvalidNumber          = InvalidError("invalid number")
	ErrInvalidLoggerChannel   = InvalidError("invalid logger channel")
	ErrInvalidProof           = ValidationError("inclusion proof does not match root")
	ErrInvalidPublicKey       = InvalidError("invalid public key")
	ErrInvalidSecretKey       = InvalidError("invalid secret key")
	ErrInvalidSeed            = InvalidError("invalid seed")
	ErrInvalidSignature       = ValidationError("invalid signature")
	ErrInvalidStructPointer   = InvalidError("invalid struct pointer")
	ErrLeafNotFound           = NotFoundError("leaf not found")
	ErrNotInitialised         = StateError("not initialised")
	ErrNotFound               = NotFoundError("not found")
	ErrNotConfigurationTable  = InvalidError("configuration did not return a table")
	ErrNotPlainFileName       = InvalidError("file name must not contain a path")
	ErrNotPruned              = StateError("leaf is not pruned")
	ErrOperationFailed        = OperationError("curve operation failed")
	ErrPositionNotFound       = NotFoundError("position not found")
	ErrReadOnlyTransaction    = StateError("write through a read only transaction")
	ErrRewindBeyondSize       = StateError("rewind target is beyond current size")
	ErrRewindMidTransaction   = StateError("rewind target is inside an accepted transaction")
	ErrSerialisationFailed    = SerialisationError("serialisation failed")
	ErrStoreCorrupt           = SerialisationError("store record is corrupt")
	ErrStoreExhausted         = AllocError("store resources exhausted")
	ErrSyncIndexNotFound      = NotFoundError("sync peak index not found")
	ErrTransactionClosed      = StateError("transaction is already closed")
	ErrTransactionInUse       = StateError("transaction already in use")
	ErrTransactionUnbalanced  = ValidationError("transaction does not balance")
	ErrUnimplemented          = TodoError("not implemented")
	ErrValidationFailed       = ValidationError("validation failed")
	ErrWriterAlreadyOpen      = StateError("a writable view is already open")
	ErrZeroValueCommitment    = SerialisationError("commitment is the point at infinity")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e AllocError) Error() string         { return string(e) }
func (e ExistsError) Error() string        { return string(e) }
func (e InvalidError) Error() string       { return string(e) }
func (e NotFoundError) Error() string      { return string(e) }
func (e OperationError) Error() string     { return string(e) }
func (e SerialisationError) Error() string { return string(e) }
func (e StateError) Error() string         { return string(e) }
func (e TodoError) Error() string          { return string(e) }
func (e ValidationError) Error() string    { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrAlloc(e error) bool {
	var t AllocError
	return errors.As(e, &t)
}

func IsErrExists(e error) bool {
	var t ExistsError
	return errors.As(e, &t)
}

func IsErrInvalid(e error) bool {
	var t InvalidError
	return errors.As(e, &t)
}

func IsErrNotFound(e error) bool {
	var t NotFoundError
	return errors.As(e, &t)
}

func IsErrOperation(e error) bool {
	var t OperationError
	return errors.As(e, &t)
}

func IsErrSerialisation(e error) bool {
	var t SerialisationError
	return errors.As(e, &t)
}

func IsErrState(e error) bool {
	var t StateError
	return errors.As(e, &t)
}

func IsErrTodo(e error) bool {
	var t TodoError
	return errors.As(e, &t)
}

func IsErrValidation(e error) bool {
	var t ValidationError
	return errors.As(e, &t)
}
