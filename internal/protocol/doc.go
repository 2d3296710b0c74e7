// Package protocol defines the wire protocol spoken between clients, the
// coordinator, and the workers.
//
// A request is two consecutive text lines on a fresh TCP connection:
//
//	line 1: OPERATION            (e.g. "SEARCH_STORES_REQUEST")
//	     or OPERATION:ROUTING_KEY (e.g. "ADD_PRODUCT_REQUEST:PizzaFun")
//	line 2: a single-line serialized payload
//
// The response is a single serialized line, after which the connection is
// closed. The same framing is used coordinator-to-worker, which lets the
// coordinator forward point operations verbatim.
//
// Payload serialization is hidden behind the Codec interface; the default
// (and only shipped) implementation is JSON. Field names on the payload
// structs match the historical wire format, so existing clients keep
// working; note the legacy "Available Amount" key on product records.
package protocol
