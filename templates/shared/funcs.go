// Package shared holds helpers available to every page template.
package shared

import "html/template"

// Funcs is the function map every page is parsed with.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"navClass": NavClass,
	}
}

// NavClass marks a nav link active when the page belongs to its section.
func NavClass(current, section string) string {
	if current == section {
		return "nav-link active"
	}
	return "nav-link"
}
