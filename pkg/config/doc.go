// Package config loads the timeline configuration a form is derived from
// and the process environment the binaries run with.
//
// A configuration file lists the timeline items under "timelines" and may
// add presentation settings:
//
//	timelines = [
//	  { type = "Datetime" },
//	  { type = "Integer", min_value = 0, max_value = 100, capacity = 5 },
//	  { type = "Enum", options = ["low", "high"], capacity = 2 },
//	]
//
//	[form]
//	title = "Sensor feed"
//	theme = "acme"
//
// TOML is the native format; YAML and JSON carry the same keys. The
// descriptor set is loaded once and never mutated afterwards.
package config
