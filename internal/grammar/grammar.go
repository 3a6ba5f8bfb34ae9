// Package grammar maps file extensions to tree-sitter languages and the
// declarative queries used to extract top-level declarations. Adding a
// language means adding a table row, not new control flow in the chunker.
package grammar

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	tsc "github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	tstype "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Grammar bundles a tree-sitter language with two query pattern sets:
// ContainerQuery matches type/namespace/module-level declarations and
// FunctionQuery matches callable declarations. Either may be empty.
type Grammar struct {
	Language       *sitter.Language
	ContainerQuery string
	FunctionQuery  string
}

var registry = buildRegistry()

func buildRegistry() map[string]Grammar {
	m := make(map[string]Grammar)

	m["rs"] = Grammar{
		Language: rust.GetLanguage(),
		ContainerQuery: `
			;; Rust container items
			(struct_item) @chunk
			(impl_item) @chunk
			(mod_item) @chunk
			(enum_item) @chunk
			(trait_item) @chunk
		`,
		FunctionQuery: `
			;; Rust functions
			(function_item) @chunk
		`,
	}

	m["go"] = Grammar{
		Language: golang.GetLanguage(),
		ContainerQuery: `
			;; Go type declarations
			(type_declaration) @chunk
		`,
		FunctionQuery: `
			;; Go functions and methods
			(function_declaration) @chunk
			(method_declaration) @chunk
		`,
	}

	m["py"] = Grammar{
		Language: python.GetLanguage(),
		ContainerQuery: `
			;; Python classes
			(class_definition) @chunk
		`,
		FunctionQuery: `
			;; Python functions
			(function_definition) @chunk
		`,
	}

	js := Grammar{
		Language: javascript.GetLanguage(),
		ContainerQuery: `
			;; JavaScript classes
			(class_declaration) @chunk
		`,
		FunctionQuery: `
			;; JavaScript functions and function-valued bindings
			(function_declaration) @chunk
			(arrow_function) @chunk
			(method_definition) @chunk
			(variable_declaration) @chunk
			(lexical_declaration) @chunk
		`,
	}
	m["js"] = js
	m["jsx"] = js

	m["ts"] = Grammar{
		Language: tstype.GetLanguage(),
		ContainerQuery: `
			;; TypeScript containers
			(class_declaration) @chunk
			(interface_declaration) @chunk
			(enum_declaration) @chunk
			(type_alias_declaration) @chunk
		`,
		FunctionQuery: `
			;; TypeScript functions
			(function_declaration) @chunk
			(lexical_declaration) @chunk
		`,
	}

	c := Grammar{
		Language: tsc.GetLanguage(),
		ContainerQuery: `
			;; C containers
			(struct_specifier) @chunk
			(union_specifier) @chunk
			(enum_specifier) @chunk
		`,
		FunctionQuery: `
			;; C functions
			(function_definition) @chunk
		`,
	}
	m["c"] = c
	m["h"] = c

	cxx := Grammar{
		Language: cpp.GetLanguage(),
		ContainerQuery: `
			;; C++ containers
			(class_specifier) @chunk
			(struct_specifier) @chunk
			(enum_specifier) @chunk
			(namespace_definition) @chunk
		`,
		FunctionQuery: `
			;; C++ functions and templates
			(function_definition) @chunk
			(template_declaration) @chunk
		`,
	}
	m["cpp"] = cxx
	m["hpp"] = cxx
	m["cc"] = cxx
	m["cxx"] = cxx
	m["cu"] = cxx // CUDA sources parse acceptably with the C++ grammar

	m["java"] = Grammar{
		Language: java.GetLanguage(),
		ContainerQuery: `
			;; Java containers
			(class_declaration) @chunk
			(interface_declaration) @chunk
			(enum_declaration) @chunk
		`,
		FunctionQuery: `
			;; Java methods
			(method_declaration) @chunk
		`,
	}

	m["rb"] = Grammar{
		Language: ruby.GetLanguage(),
		ContainerQuery: `
			;; Ruby containers
			(class) @chunk
			(module) @chunk
		`,
		FunctionQuery: `
			;; Ruby methods
			(method) @chunk
		`,
	}

	m["html"] = Grammar{
		Language: html.GetLanguage(),
		ContainerQuery: `
			;; HTML: top-level elements
			(element) @chunk
		`,
	}

	return m
}

// Lookup returns the grammar registered for ext (lowercase, no leading dot).
func Lookup(ext string) (Grammar, bool) {
	g, ok := registry[ext]
	return g, ok
}

// Queries returns the container and function query patterns for ext.
// Both are empty when no grammar is registered.
func Queries(ext string) (container, function string) {
	g, ok := registry[ext]
	if !ok {
		return "", ""
	}
	return g.ContainerQuery, g.FunctionQuery
}

// Extensions returns the registered extensions in sorted order.
func Extensions() []string {
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
