// Package catalog turns loosely-typed catalog API payloads into the stable
// shapes the rest of melulu works with: ListItem, Detail and PlayableMedia.
//
// # Overview
//
// The upstream short-drama API has no published schema and its key names
// drift between versions and deployments ("title" in one place, "vod_name"
// in another). Every canonical field is therefore declared as an ordered list
// of candidate source keys plus a default, and resolved with first-defined-wins
// semantics through Coalesce.
//
// # Guarantees
//
//   - Normalization is total: malformed input degrades to defaults, never panics
//     and never returns an error.
//   - The only rejection is a list element without an identifier. Such elements
//     are dropped, so len(NormalizeList(raw)) never exceeds the input length.
//   - Canonical values marshal back to JSON under the first candidate key of
//     each field, so normalizing canonical output again is a no-op.
//
// # Payload shapes
//
// List payloads may be a bare array or an object wrapping the array under
// "data", "list" or "items" (one nested wrapper is tolerated, e.g.
// {"data":{"list":[...]}}). Detail payloads may be wrapped in "data" or
// "detail"; video payloads in "data".
package catalog
