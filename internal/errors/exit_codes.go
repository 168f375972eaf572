package errors

type ExitCode int

const (
	ExitSuccess         ExitCode = 0
	ExitGeneralError    ExitCode = 1
	ExitConfigError     ExitCode = 2
	ExitValidationError ExitCode = 3
	ExitAuthError       ExitCode = 4
	ExitPermissionError ExitCode = 5
	ExitNotFoundError   ExitCode = 6
	ExitConflictError   ExitCode = 7
	ExitRateLimitError  ExitCode = 8
	ExitServerError     ExitCode = 9
	ExitIOError         ExitCode = 10
)

func (e ExitCode) Int() int {
	return int(e)
}
