package engine

// Reporter receives results. BeforeAll and AfterAll are called once per run.
// For each file, Before, OnLintError and After are called in sequence from a
// single goroutine; calls for different files may be concurrent.
type Reporter interface {
	BeforeAll()
	Before(file string)
	OnLintError(file string, v Violation)
	After(file string)
	AfterAll() error
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) BeforeAll()                    {}
func (NopReporter) Before(string)                 {}
func (NopReporter) OnLintError(string, Violation) {}
func (NopReporter) After(string)                  {}
func (NopReporter) AfterAll() error               { return nil }
