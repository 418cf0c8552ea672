// gradescript runs a program under test against golden output files.
//
// Cases are discovered from a fixed layout under Tests/:
//
//	Tests/v/NAME.v            program source, passed as the sole argument
//	Tests/input/NAME.txt      stdin for the base case
//	Tests/input/NAME-01.txt   stdin for numbered variant -01
//	Tests/output/NAME.txt     expected stdout, one per case
//	Tests/our/                actual stdout, cleared at the start of a run
//
// An input whose name matches several programs, such as foo-bar-01.txt with
// both foo.v and foo-bar.v present, belongs only to the longest program name.
// A program with no input files runs once with empty stdin. Every case runs
// sequentially, its stdout is written to Tests/our and compared byte for byte
// with the file of the same name in Tests/output.
//
// Example:
//
//	gradescript --no-colors
//
// Output:
//
//	Running test: abs
//	Test passed: abs
//	Running test: fib-01
//	Test failed: fib-01
//
//	1 correct out of 2
//
// The exit status is 0 when every case passed, 1 when any case failed and 2
// when the run could not be carried out.
package main
