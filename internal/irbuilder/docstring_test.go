package irbuilder

import "testing"

func TestDocstringOfBlockComment(t *testing.T) {
	header := "package main\n\n/* greet says hello */\n"
	src := []byte(header + "func greet() {}\n")
	got := docstringOf(src, uint(len(header)), "go")
	if got == "" {
		t.Fatal("expected a docstring, got empty string")
	}
}

func TestDocstringOfNoPrecedingCommentIsEmpty(t *testing.T) {
	header := "package main\n\n"
	src := []byte(header + "func greet() {}\n")
	got := docstringOf(src, uint(len(header)), "go")
	if got != "" {
		t.Fatalf("expected empty docstring, got %q", got)
	}
}

func TestDocstringOfLineCommentRun(t *testing.T) {
	header := "package main\n\n// greet\n// says hello\n"
	src := []byte(header + "func greet() {}\n")
	got := docstringOf(src, uint(len(header)), "go")
	if got == "" {
		t.Fatal("expected a docstring from the // comment run")
	}
}

func TestDocstringOfJavaScriptGatesOnGoFastParse(t *testing.T) {
	header := "/** doc */\n"
	src := []byte(header + "function greet() {}\n")
	got := docstringOf(src, uint(len(header)), "javascript")
	if got == "" {
		t.Fatal("expected a docstring for valid JavaScript source")
	}
}
