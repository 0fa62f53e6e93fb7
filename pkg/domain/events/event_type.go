package events

// EventType represents the type of an event in the system.
type EventType string

// Event type constants
const (
	// Transfer events
	EventTypeTransferCompleted EventType = "Transfer.Completed"
	EventTypeTransferFailed    EventType = "Transfer.Failed"

	// Payroll events
	EventTypePayrollPaid   EventType = "Payroll.Paid"
	EventTypePayrollFailed EventType = "Payroll.Failed"

	// Employee events
	EventTypeInvestmentMade  EventType = "Employee.InvestmentMade"
	EventTypeEmployeeStopped EventType = "Employee.Stopped"

	// Client events
	EventTypeClientFinished EventType = "Client.Finished"
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	return string(et)
}

// All lists every event type, in the order they are documented above.
func All() []EventType {
	return []EventType{
		EventTypeTransferCompleted,
		EventTypeTransferFailed,
		EventTypePayrollPaid,
		EventTypePayrollFailed,
		EventTypeInvestmentMade,
		EventTypeEmployeeStopped,
		EventTypeClientFinished,
	}
}

// Known reports whether name is one of the event types listed by All.
func Known(name string) bool {
	for _, et := range All() {
		if et.String() == name {
			return true
		}
	}
	return false
}
