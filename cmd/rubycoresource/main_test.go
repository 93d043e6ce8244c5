package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/frederic-klein/rubycoresource/internal/config"
	"github.com/frederic-klein/rubycoresource/internal/resolver"
)

func TestPrintResult(t *testing.T) {
	r := resolver.Result{
		Requested: "ruby-3.4.1-p0",
		Name:      "ruby-3.4.0-p0",
		Path:      "/srv/sources/ruby-3.4.0-p0",
	}

	var text bytes.Buffer
	if err := printResult(&text, config.OutputText, r); err != nil {
		t.Fatal(err)
	}
	if got := text.String(); got != "/srv/sources/ruby-3.4.0-p0\n" {
		t.Errorf("text output = %q", got)
	}

	var out bytes.Buffer
	if err := printResult(&out, config.OutputYAML, r); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"requested: ruby-3.4.1-p0",
		"chosen: ruby-3.4.0-p0",
		"path: /srv/sources/ruby-3.4.0-p0",
		"exact: false",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("yaml output %q missing %q", out.String(), want)
		}
	}
}
