package solwatch

// solwatch event types
//
// bus.Send(LINK_RECEIVED_TOTAL, event)
// bus.Send(SYS_STARTUP, "watcher mainnet")

// Interface for any event
type EventType interface {
	Type() string
}

// slice of all event types for config funcs lookup
var EVENT_TYPES []EventType = []EventType{
	EVENT_ALL("ALL"),
	EVENT_SYS("SYS"),
	EVENT_LINK("LINK"),
}

// Special category, do not use directly, represents *
type EVENT_ALL string

func (e EVENT_ALL) Type() string {
	return "ALL"
}

// System Events
type EVENT_SYS string

func (e EVENT_SYS) Type() string {
	return "SYS"
}

const (
	SYS_STARTUP EVENT_SYS = "STARTUP"
	SYS_ERR     EVENT_SYS = "ERR"
	SYS_MSG     EVENT_SYS = "MSG"
)

// Payment link events
type EVENT_LINK string

func (e EVENT_LINK) Type() string {
	return "LINK"
}

const (
	LINK_CREATED             EVENT_LINK = "CREATED"
	LINK_WATCHED             EVENT_LINK = "WATCHED"
	LINK_EXPIRED             EVENT_LINK = "EXPIRED"
	LINK_RECEIVED_TOTAL      EVENT_LINK = "RECEIVED_TOTAL"
	LINK_RECEIVED_INCOMPLETE EVENT_LINK = "RECEIVED_INCOMPLETE"
	LINK_FAILED              EVENT_LINK = "FAILED"
)
