package models

import "encoding/json"

// Event is a raw event object as delivered by the dispatcher.
// Only its "detail" member is interpreted.
type Event = json.RawMessage

// EmptyDetail is the detail substituted when the event carries none.
var EmptyDetail = json.RawMessage(`{}`)
