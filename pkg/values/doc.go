// Package values turns raw per-position input into the tagged value list the
// training and prediction services accept. Tagger is the strict half: it
// assumes every position is present and wraps each raw value under the tag of
// its descriptor, failing closed on anything it cannot wrap. Binder is the
// browser-facing half: it parses form strings per kind and reports
// position-keyed field errors so absent or malformed input never reaches the
// tagger.
package values
