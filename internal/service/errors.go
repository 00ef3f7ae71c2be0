package service

import "errors"

// ErrVerificationTimeout indicates the upsert was acknowledged but the
// write never became visible within the poll budget. Lower severity than a
// failed batch: the data may still be correct.
var ErrVerificationTimeout = errors.New("verification timed out before the write became visible")

// ErrUploadDeclined indicates the caller's merge confirmation hook
// declined the batch; nothing was written.
var ErrUploadDeclined = errors.New("upload declined before write")
