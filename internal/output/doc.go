// Package output implements the output writers: the topology table, a
// JSON-serialized topology (schema-validated before write), the
// sample/node environment table, the count and percent abundance matrices,
// and the RUNINFO key/value record. It is the last stage of a run, reading
// the finished Decomposer rather than mutating it.
package output
