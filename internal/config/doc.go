// Package config provides configuration parsing for the observe command line
// tool.
//
// The configuration is stored in observe.json or observe.yaml in the working
// directory. This package handles loading, saving, and validating it.
//
// # Configuration File Structure
//
//	name: demo
//	logLevel: info
//	mode: replace
//	modes:
//	  user: merge
//	initial:
//	  name: John
//	  age: 12
//	  user:
//	    email: john@example.com
//	    active: true
//	metrics:
//	  enabled: true
//	  addr: localhost:9464
//	  namespace: observe
//	tracing:
//	  enabled: false
//	  tracerName: observe
//
// The initial map defines the container keys; they cannot change at runtime.
// Numbers are decoded as int when they are whole and as float64 otherwise,
// for both file formats.
package config
