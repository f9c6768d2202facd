package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"
)

// JUnit XML structures

type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitFormatter writes the summary as JUnit XML. Each recorded failure
// becomes a failing test case; the suite-level counts come from the
// session's evaluation stats.
type JUnitFormatter struct {
	writer io.Writer
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) Format(s *Summary) error {
	tests := int(s.Stats.Evaluated)
	if tests < len(s.Failures) {
		tests = len(s.Failures)
	}

	suite := JUnitTestSuite{
		Name:      s.Name,
		Tests:     tests,
		Failures:  len(s.Failures),
		Timestamp: s.StartedAt.Format(time.RFC3339),
		TestCases: make([]JUnitTestCase, 0, len(s.Failures)),
	}

	for _, r := range s.Failures {
		content := r.Message
		if r.Context != "" {
			content += "\ncontext: " + r.Context
		}
		if r.Artifact != "" {
			content += "\nartifact: " + r.Artifact
		}
		suite.TestCases = append(suite.TestCases, JUnitTestCase{
			Name:      r.Description,
			ClassName: s.Name,
			Failure: &JUnitFailure{
				Message: fmt.Sprintf("expected %v, got %v", r.Expected, r.Actual),
				Type:    "AssertionFailure",
				Content: content,
			},
		})
	}

	suites := JUnitTestSuites{
		Name:       "softcheck",
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: []JUnitTestSuite{suite},
	}

	if _, err := fmt.Fprint(f.writer, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(f.writer)
	enc.Indent("", "  ")
	if err := enc.Encode(suites); err != nil {
		return err
	}
	_, err := fmt.Fprintln(f.writer)
	return err
}
