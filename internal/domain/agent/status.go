package agent

// Status is the state-machine discriminator
type Status int

const (
	StatusActive Status = iota
	StatusReturning
	StatusAtStation
	StatusShutdown
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "ACTIVE"
	case StatusReturning:
		return "RETURNING_TO_STATION"
	case StatusAtStation:
		return "AT_STATION"
	case StatusShutdown:
		return "SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

// Label renders the status with the role-specific name for Active
func (s Status) Label(role Role) string {
	if s == StatusActive {
		return role.ActiveLabel()
	}
	return s.String()
}
