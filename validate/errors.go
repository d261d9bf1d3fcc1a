package validate

import "errors"

// ErrJudgeRequired is returned when a validator is constructed
// without a judge.
var ErrJudgeRequired = errors.New("judge required")
