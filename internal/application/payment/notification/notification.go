// Package notification turns an inbound gateway call into a Notification.
// A Notification is untrusted: it only tells us which provider payment to
// look up.
package notification

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// PPIDKey is the field naming the provider's charge.
const PPIDKey = "pp_id"

// Notification is the decoded IPN payload.
type Notification map[string]interface{}

// PPID returns the provider payment identifier, accepting string or numeric
// JSON values.
func (n Notification) PPID() (string, bool) {
	v, ok := n[PPIDKey]
	if !ok || v == nil {
		return "", false
	}

	var id string
	switch t := v.(type) {
	case string:
		id = t
	case json.Number:
		id = t.String()
	case float64:
		id = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		id = fmt.Sprint(t)
	}

	id = strings.TrimSpace(id)
	return id, id != ""
}

var (
	// ErrAbsent means the request carried neither a body nor query parameters.
	ErrAbsent = errors.New("no body or query parameters")
	// ErrNotObject means the body decoded as JSON but not as an object.
	ErrNotObject = errors.New("body is not a JSON object")
)

// Extract applies the body-then-query precedence:
//
//  1. a non-empty body that decodes completely as JSON is the notification;
//     an object (even an empty one) is returned, any other JSON value
//     (array, string, number, null) yields ErrNotObject;
//  2. otherwise a non-empty query string is used as-is (first value per key);
//  3. otherwise ErrAbsent.
func Extract(body []byte, query url.Values) (Notification, error) {
	if len(bytes.TrimSpace(body)) > 0 {
		if v, ok := decodeBody(body); ok {
			n, isObject := v.(map[string]interface{})
			if !isObject {
				return nil, ErrNotObject
			}
			return Notification(n), nil
		}
	}

	if len(query) > 0 {
		n := make(Notification, len(query))
		for k, vs := range query {
			if len(vs) > 0 {
				n[k] = vs[0]
			} else {
				n[k] = ""
			}
		}
		return n, nil
	}

	return nil, ErrAbsent
}

// decodeBody reports whether body is exactly one JSON value.
func decodeBody(body []byte) (interface{}, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return v, true
}
