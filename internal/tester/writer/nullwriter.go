package writer

import "time"

// NopWriter discards every row. Used when csv.enabled is false in the
// tester's configuration.
type NopWriter struct{}

func (NopWriter) WriteRow(node, op, result string, delay time.Duration) error { return nil }
func (NopWriter) Flush() error                                               { return nil }
func (NopWriter) Close() error                                               { return nil }
