// Package flatten normalizes the provider's nested record shape into flat
// columnar fields. The provider models every categorical attribute as a
// reference object {id, name, ...}; flattening turns those into k_id / k_name
// pairs while keeping any other nested structure intact for downstream
// interpretation.
package flatten

// Record is one provider record as decoded from JSON.
type Record = map[string]any

// ExtraKey is the column holding nested payloads the transform does not
// flatten (pass details, shot details, card details, tactics, ...).
const ExtraKey = "extra"

// Event flattens a single event-style record. Reference objects become
// k_id / k_name fields; nested values that are not reference objects are
// stored verbatim under the "extra" key. The extra map is always present,
// even when empty, so callers can index it without a nil check. The
// transform is total: no input shape produces an error.
func Event(rec Record) Record {
	out := make(Record, len(rec)+1)
	extra := make(Record)
	for k, v := range rec {
		sub, ok := v.(map[string]any)
		if !ok {
			out[k] = v
			continue
		}
		if id, name, isRef := refObject(sub); isRef {
			out[k+"_id"] = id
			out[k+"_name"] = name
			continue
		}
		extra[k] = sub
	}
	out[ExtraKey] = extra
	return out
}

// Events flattens a list of records into rows sharing a consistent column
// set; columns absent on a row are simply missing from its map and take the
// zero value of their declared type when projected into a table.
func Events(recs []Record) []Record {
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Event(rec))
	}
	return out
}

// Catalog flattens a top-level catalog record (competition or match).
// Unlike Event it recurses into non-reference sub-maps and merges their
// flattened fields into the same row, so multi-level reference chains such
// as season→competition land as flat season_id / competition_id columns.
func Catalog(rec Record) Record {
	out := make(Record, len(rec))
	mergeCatalog(out, rec)
	return out
}

func mergeCatalog(out Record, rec Record) {
	for k, v := range rec {
		sub, ok := v.(map[string]any)
		if !ok {
			out[k] = v
			continue
		}
		if id, name, isRef := refObject(sub); isRef {
			out[k+"_id"] = id
			out[k+"_name"] = name
			continue
		}
		mergeCatalog(out, sub)
	}
}

// refObject reports whether a sub-map is a clean provider reference object,
// i.e. carries both an "id" and a "name" key.
func refObject(sub map[string]any) (id any, name any, ok bool) {
	id, hasID := sub["id"]
	name, hasName := sub["name"]
	if !hasID || !hasName {
		return nil, nil, false
	}
	return id, name, true
}
