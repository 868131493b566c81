package events

var SearchFailedTopic = "SearchFailedEvent"

type SearchFailed struct {
	Query string
	Error error
}
