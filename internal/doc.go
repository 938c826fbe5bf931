// Package internal provides the core functionality of ternlint.
//
// ternlint finds if statements that can be written as a single statement
// around a conditional (`?:`) expression and rewrites them:
//
//	if (b) x = 1; else x = 2;      =>  x = b ? 1 : 2;
//	if (b) return s;
//	throw new ArgumentException();  =>  return b ? s : throw new ArgumentException();
//
// Key components:
//
// Engine: The main linting engine that coordinates the linting process.
// It owns the rule registry, parses each source with the configured language
// version, runs the enabled rules concurrently and drops issues suppressed by
// nolint comments. Results can be cached on disk (see Cache) and files can be
// re-linted as they change (see Engine.Watch).
//
// LintRule: An interface that defines the contract for all lint rules.
// Each lint rule must implement the Check method to analyze a parsed file and
// return issues.
//
// SourceCode: A simple structure to represent the content of a source file as
// a collection of lines.
//
// Usage:
//
//	engine, err := internal.NewEngine("path/to/root/dir", nil,
//	    internal.WithLanguageVersion("7.3"))
//	if err != nil {
//	    // handle error
//	}
//
//	issues, err := engine.Run("path/to/file.cs")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, issue := range issues {
//	    // process each issue
//	}
package internal
