// Package aggregate groups, totals and combines ingredient lists for recipes, planned meals
// and reports. Every function here is a pure transformation over in-memory slices: inputs are
// never mutated and no state survives between calls.
package aggregate
