package firmware

import "fmt"

// Status is a processor status code. Zero is success; negative values are
// errors and are returned as-is to the application.
type Status int32

const (
	StatusOK           Status = 0
	StatusGeneric      Status = -1
	StatusInvalidParam Status = -2
	StatusBusy         Status = -3
	StatusNotRunning   Status = -4
)

func (s Status) Error() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusGeneric:
		return "firmware error"
	case StatusInvalidParam:
		return "firmware: invalid parameter"
	case StatusBusy:
		return "firmware: busy"
	case StatusNotRunning:
		return "firmware: server not running"
	default:
		return fmt.Sprintf("firmware status %d", int32(s))
	}
}

// Err converts a raw status into an error, nil for success.
func Err(code int32) error {
	if code >= 0 {
		return nil
	}
	return Status(code)
}
