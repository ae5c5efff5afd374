package backend

// State is a step in the lifecycle of one logical request.
type State string

const (
	StateInitial          State = "INITIAL"
	StateSent             State = "SENT"
	StateSucceeded        State = "SUCCEEDED"
	StateFailed401Untried State = "FAILED_401_UNTRIED"
	StateFailedOther      State = "FAILED_OTHER"
	StateRefreshing       State = "REFRESHING"
	StateRefreshed        State = "REFRESHED"
	StateRetried          State = "RETRIED"
	StateRefreshFailed    State = "REFRESH_FAILED"
)

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailedOther, StateRefreshFailed:
		return true
	default:
		return false
	}
}

// StateHook observes transitions. It runs on the request goroutine and must
// not block.
type StateHook func(req *Request, state State)

func (h StateHook) emit(req *Request, state State) {
	if h != nil {
		h(req, state)
	}
}
