// Package transform normalizes loosely shaped JSON payloads into canonical
// item records. Input is modelled as the untyped map produced by a JSON
// decoder, every field is looked up explicitly, and defaults are applied at
// the point of normalization.
//
// A payload either carries an "items" list, looks like a single item (it has
// a "name" or "value" key), or yields no items at all. A value that cannot be
// coerced to a number aborts the whole run; no partial result is returned.
package transform
