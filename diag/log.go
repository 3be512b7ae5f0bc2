// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package diag implements the compilation message/log model shared by
// every bakery component: an ordered accumulation of severity-tagged,
// located messages, collected across a whole compile rather than aborting
// at the first problem.
package diag

import "fmt"

// Severity is one of info, warning, error.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Kind names the error category a message belongs to.
type Kind string

const (
	ParseErr      Kind = "parse"
	IncludeErr    Kind = "include"
	ResolutionErr Kind = "resolution"
	HeritageErr   Kind = "heritage"
	TemplateErr   Kind = "template"
	QualifierErr  Kind = "qualifier"
	EnumErr       Kind = "enum"
	RangeErr      Kind = "range"
	ShapeErr      Kind = "shape"
	IoErr         Kind = "io"
	EofErr        Kind = "eof"
)

// Message is one entry of a Log: a severity, an error kind, free text, and
// an optional source location.
type Message struct {
	Severity Severity
	Kind     Kind
	Text     string
	File     string
	Line     int
}

func (m Message) String() string {
	loc := ""
	if m.File != "" {
		if m.Line > 0 {
			loc = fmt.Sprintf("%s:%d: ", m.File, m.Line)
		} else {
			loc = fmt.Sprintf("%s: ", m.File)
		}
	}
	return fmt.Sprintf("%s%s: %s", loc, m.Severity, m.Text)
}

// Error implements the error interface so a Message can be returned/wrapped
// by ordinary Go error-handling code as well as collected into a Log.
func (m Message) Error() string { return m.String() }

// Log is an ordered accumulation of Messages, analogous to util.Errors but
// carrying severity and location.
type Log struct {
	Messages []Message
}

// Add appends a message of the given severity/kind/location.
func (l *Log) Add(sev Severity, kind Kind, file string, line int, format string, args ...interface{}) {
	l.Messages = append(l.Messages, Message{
		Severity: sev,
		Kind:     kind,
		Text:     fmt.Sprintf(format, args...),
		File:     file,
		Line:     line,
	})
}

func (l *Log) Errorf(kind Kind, file string, line int, format string, args ...interface{}) {
	l.Add(Error, kind, file, line, format, args...)
}

func (l *Log) Warningf(kind Kind, file string, line int, format string, args ...interface{}) {
	l.Add(Warning, kind, file, line, format, args...)
}

func (l *Log) Infof(file string, line int, format string, args ...interface{}) {
	l.Add(Info, "", file, line, format, args...)
}

// Merge appends other's messages to l, in order — used when a sub-component
// (e.g. a single include file, or one structure member) accumulates its own
// log before being folded into the caller's.
func (l *Log) Merge(other *Log) {
	if other == nil {
		return
	}
	l.Messages = append(l.Messages, other.Messages...)
}

// OK reports whether the log carries zero Error-severity messages.
func (l *Log) OK() bool {
	for _, m := range l.Messages {
		if m.Severity == Error {
			return false
		}
	}
	return true
}

// HasErrors is the negation of OK, for readability at call sites.
func (l *Log) HasErrors() bool { return !l.OK() }

// String renders every message, one per line, in accumulation order.
func (l *Log) String() string {
	s := ""
	for i, m := range l.Messages {
		if i != 0 {
			s += "\n"
		}
		s += m.String()
	}
	return s
}
