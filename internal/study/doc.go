// Package study turns raw participant and trial records from the SUDS speaking
// study into the samples the statistics engine expects, and builds the
// dashboard report from the results.
package study
