package entity

type SupportStatus string

const (
	SupportOpen       SupportStatus = "OPEN"
	SupportInProgress SupportStatus = "IN_PROGRESS"
	SupportResolved   SupportStatus = "RESOLVED"
	SupportClosed     SupportStatus = "CLOSED"
)

func (s SupportStatus) Valid() bool {
	switch s {
	case SupportOpen, SupportInProgress, SupportResolved, SupportClosed:
		return true
	}
	return false
}

// Staff-driven status changes. Customer replies reopening a RESOLVED request
// are handled separately.
var supportTransitions = map[SupportStatus][]SupportStatus{
	SupportOpen:       {SupportInProgress, SupportResolved, SupportClosed},
	SupportInProgress: {SupportResolved, SupportClosed},
	SupportResolved:   {SupportOpen, SupportInProgress, SupportClosed},
}

func (s SupportStatus) CanTransitionTo(next SupportStatus) bool {
	for _, allowed := range supportTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
