package domain

import "errors"

// ErrAlreadyExists is an error thrown when entity already exists
var ErrAlreadyExists = errors.New("already exists")

// ErrVideoNotFound is an error thrown when a video record is not found
var ErrVideoNotFound = errors.New("video not found")

// ErrTagNotFound is an error when tag is not found
var ErrTagNotFound = errors.New("tag not found")

// ErrUnauthorized is an error thrown when the caller does not own the video.
// Unknown videos report the same error so existence is not disclosed.
var ErrUnauthorized = errors.New("unauthorized")

// ErrValidation is an error thrown when a request is malformed
var ErrValidation = errors.New("validation failed")

// ErrMissingField is an error thrown when a required field is absent
var ErrMissingField = errors.New("missing required field")

// ErrFileSizeTooBig is an error thrown when file size is above the upload ceiling
var ErrFileSizeTooBig = errors.New("file size too big")

// ErrFileSizeTooSmall is an error thrown when file size is below one byte
var ErrFileSizeTooSmall = errors.New("file size too small")

// ErrInvalidPartNumber is an error thrown when a part number is out of range
var ErrInvalidPartNumber = errors.New("invalid part number")

// ErrNoParts is an error thrown when a completion manifest is empty
var ErrNoParts = errors.New("no parts")

// ErrDuplicatePart is an error thrown when parts are duplicated
var ErrDuplicatePart = errors.New("duplicate part")

// ErrUploadInitFailed is an error thrown when storage rejects a new multipart session
var ErrUploadInitFailed = errors.New("upload initiation failed")

// ErrUploadCompleteFailed is an error thrown when storage rejects the part manifest
var ErrUploadCompleteFailed = errors.New("upload completion failed")

// ErrUploadAbortFailed is an error thrown when storage fails to discard a session
var ErrUploadAbortFailed = errors.New("upload abort failed")

// ErrUploadSessionNotFound is an error thrown when storage no longer knows a multipart session
var ErrUploadSessionNotFound = errors.New("upload session not found")

// ErrUploadNotInProgress is an error thrown when the video has no open upload session
var ErrUploadNotInProgress = errors.New("upload not in progress")

// ErrVideoNotReady is an error thrown when an action requires a completed video
var ErrVideoNotReady = errors.New("video not ready")

// ErrInvalidEmail is an error thrown when a recipient address is malformed
var ErrInvalidEmail = errors.New("invalid email")

// ErrTooManyRecipients is an error thrown when a share email targets too many people
var ErrTooManyRecipients = errors.New("too many recipients")

// ErrRemoteSource is an error thrown when the remote video host fails
var ErrRemoteSource = errors.New("remote source error")

// ErrNoDownloadLink is an error thrown when a remote video exposes no download link
var ErrNoDownloadLink = errors.New("no download link")

// ErrDownloadFailed is an error thrown when streaming a remote file fails
var ErrDownloadFailed = errors.New("download failed")

// ErrRetryable marks a transient task failure that the queue should redeliver
var ErrRetryable = errors.New("retryable")

// ErrTaskExhausted is an error thrown when a task ran out of attempts
var ErrTaskExhausted = errors.New("task exhausted")

// ErrStorage is an error thrown when the object store rejects an operation
var ErrStorage = errors.New("storage error")
