// Package timeline defines the descriptor and value types shared by the
// schema deriver, the value tagger and the submission router. A Set is the
// ordered, immutable list of timeline item descriptors loaded once at
// start-up; a position in the Set is the only identity a field ever has.
// Values travel over the wire as single-key JSON objects whose key is the
// descriptor kind, e.g. {"Integer":7} or {"Enum":"b"}.
package timeline
