package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NotificationFilter is a conjunction of optional match criteria over the base
// notification record. List queries are always restricted to active rows on
// top of whatever is set here.
type NotificationFilter struct {
	Type      string
	Sender    string
	Recipient string
	Priority  *int
	IsFlagged *bool
	IsDraft   *bool
}

var allowedFilterKeys = []string{"type", "sender", "recipient", "priority", "isFlagged", "isDraft"}

// ParseFilter decodes a filter request body. Unknown keys and wrongly typed
// values are rejected; an empty or absent body means no criteria. The client
// sends the flag keys camelCased, so this is the one place they get mapped.
func ParseFilter(raw []byte) (*NotificationFilter, error) {
	filter := &NotificationFilter{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return filter, nil
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("Invalid body")
	}

	for key := range body {
		if !containsKey(allowedFilterKeys, key) {
			return nil, fmt.Errorf("Invalid filters in body")
		}
	}

	if v, ok := body["type"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("'type' must be of type string")
		}
		filter.Type = s
	}
	if v, ok := body["sender"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("'sender' must be of type string")
		}
		filter.Sender = s
	}
	if v, ok := body["recipient"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("'recipient' must be of type string")
		}
		filter.Recipient = s
	}
	if v, ok := body["priority"]; ok {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("'priority' must be of type number")
		}
		p := int(f)
		filter.Priority = &p
	}
	if v, ok := body["isFlagged"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("'isFlagged' must be of type boolean")
		}
		filter.IsFlagged = &b
	}
	if v, ok := body["isDraft"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("'isDraft' must be of type boolean")
		}
		filter.IsDraft = &b
	}

	return filter, nil
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
