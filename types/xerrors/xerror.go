package xerrors

import (
	"errors"
	"fmt"

	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	ErrCodeSuccess uint32 = abcitypes.CodeTypeOK + iota
	ErrCodeGeneric
	ErrCodeCommit
	ErrCodeNotFound
	ErrCodeStage
	ErrCodeNoRight
	ErrCodeNoVotingPower
	ErrCodeInvariant
	ErrCodeOverflow
	ErrCodeReentry
	ErrCodeExecution
)

const (
	ErrCodeQuery uint32 = 1000 + iota
	ErrCodeInvalidQueryCmd
	ErrCodeInvalidQueryParams
)

var (
	ErrCommit = NewWith(ErrCodeCommit, "Commit failed")

	// not-found class
	ErrNotFoundResult   = NewWith(ErrCodeNotFound, "not found result")
	ErrNotFoundProposal = NewWith(ErrCodeNotFound, "not found proposal")
	ErrNotFoundHotfix   = NewWith(ErrCodeNotFound, "not found hotfix")

	// stage/state class: the operation is not valid for the subject's
	// current lifecycle position or existence.
	ErrStage             = NewWith(ErrCodeStage, "invalid proposal stage")
	ErrDuplicatedKey     = NewWith(ErrCodeStage, "duplicated key")
	ErrMinDeposit        = NewWith(ErrCodeStage, "deposit is less than the minimum")
	ErrNotQueued         = NewWith(ErrCodeStage, "proposal is not queued")
	ErrNotDequeued       = NewWith(ErrCodeStage, "proposal is not dequeued at the index")
	ErrAlreadyUpvoting   = NewWith(ErrCodeStage, "already upvoting another queued proposal")
	ErrNotUpvoting       = NewWith(ErrCodeStage, "not upvoting any queued proposal")
	ErrNotApproved       = NewWith(ErrCodeStage, "proposal is not approved")
	ErrAlreadyApproved   = NewWith(ErrCodeStage, "proposal is already approved")
	ErrInvalidVote       = NewWith(ErrCodeStage, "invalid vote value")
	ErrInvalidParams     = NewWith(ErrCodeStage, "invalid parameter value")
	ErrAlreadyPrepared   = NewWith(ErrCodeStage, "hotfix is already prepared for the epoch")
	ErrAlreadyExecuted   = NewWith(ErrCodeStage, "hotfix is already executed")
	ErrHotfixNotPassing  = NewWith(ErrCodeStage, "hotfix whitelist quorum is not reached")
	ErrHotfixNotPrepared = NewWith(ErrCodeStage, "hotfix is not prepared for the current epoch")

	// authorization class
	ErrNoRight           = NewWith(ErrCodeNoRight, "no right")
	ErrHotfixNotApproved = NewWith(ErrCodeNoRight, "hotfix is not approved")

	ErrNoVotingPower = NewWith(ErrCodeNoVotingPower, "no voting power")

	// invariant class: never silently corrected.
	ErrQueueHint       = NewWith(ErrCodeInvariant, "queue hints do not describe a valid position")
	ErrIndexOutOfRange = NewWith(ErrCodeInvariant, "index out of range")

	ErrOverflow = NewWith(ErrCodeOverflow, "arithmetic overflow")

	ErrReentry = NewWith(ErrCodeReentry, "re-entrant call is rejected")

	ErrExecution = NewWith(ErrCodeExecution, "proposal execution failed")

	ErrQuery              = NewWith(ErrCodeQuery, "query failed")
	ErrInvalidQueryCmd    = NewWith(ErrCodeInvalidQueryCmd, "invalid query command")
	ErrInvalidQueryParams = NewWith(ErrCodeInvalidQueryParams, "invalid query parameters")
)

type XError interface {
	Code() uint32
	Error() string
	Cause() error
	With(error) XError
	Wrap(error) XError
	Wrapf(string, ...interface{}) XError
	Unwrap() error
}

type xerr struct {
	code  uint32
	msg   string
	cause error
}

func New(m string) XError {
	return &xerr{
		code: ErrCodeGeneric,
		msg:  m,
	}
}

func NewOrdinary(m string) XError {
	return New(m)
}

func NewWith(code uint32, msg string) XError {
	return &xerr{
		code: code,
		msg:  msg,
	}
}

func From(err error) XError {
	if err == nil {
		return nil
	}
	if xe, ok := err.(XError); ok {
		return xe
	}
	return &xerr{
		code: ErrCodeGeneric,
		msg:  err.Error(),
	}
}

func NewFrom(err error) XError {
	return From(err)
}

func (e *xerr) Code() uint32 {
	return e.code
}

func (e *xerr) Error() string {
	if e.cause != nil {
		return e.msg + "<<" + e.cause.Error()
	}
	return e.msg
}

func (e *xerr) Cause() error {
	return e.cause
}

func (e *xerr) Unwrap() error {
	return e.Cause()
}

func (e *xerr) With(err error) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerr) Wrap(err error) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerr) Wrapf(format string, args ...interface{}) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: fmt.Errorf(format, args...),
	}
}

// Is reports whether any error in target's chain carries the same code and
// message as err. Sentinel values compare equal to their Wrap/With results.
func Is(err, target XError) bool {
	if err == nil || target == nil {
		return err == target
	}
	for {
		if err.Code() == target.Code() {
			xe, ok1 := err.(*xerr)
			xt, ok2 := target.(*xerr)
			if ok1 && ok2 && xe.msg == xt.msg {
				return true
			}
		}
		cause := err.Cause()
		if cause == nil {
			return false
		}
		var next XError
		if !errors.As(cause, &next) {
			return false
		}
		err = next
	}
}
