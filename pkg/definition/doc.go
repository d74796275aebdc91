// Package definition loads wizard definitions from YAML.
//
// A definition names the wizard and lists its steps in order. Each step has
// a label, the fields it renders, and the rules that gate advancing past it.
// Rules are written either as a bare name ("required", "number") or as a
// single-key mapping with an optional message:
//
//	rules:
//	  - required
//	  - min: 18
//	    message: too young
//	  - when:
//	      truthy: adult
//	      then: [required]
//
// A step may also carry an inline JSON Schema under "schema"; its errors are
// merged with the field rules.
package definition
