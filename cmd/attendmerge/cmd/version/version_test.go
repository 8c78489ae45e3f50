package version

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agentstation/attendmerge/cmd/application"
)

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{format: "table", want: []string{"attendmerge 1.2.3", "commit:   abc123"}},
		{format: "json", want: []string{`"version": "1.2.3"`, `"built_by": "goreleaser"`}},
		{format: "yaml", want: []string{"version: 1.2.3", "commit: abc123"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			app := &application.Mock{
				OutputFormatFunc: func() string { return tt.format },
				VersionFunc:      func() string { return "1.2.3" },
				CommitFunc:       func() string { return "abc123" },
				BuiltByFunc:      func() string { return "goreleaser" },
			}
			cmd := NewCommand(app)
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs([]string{})
			if err := cmd.Execute(); err != nil {
				t.Fatalf("version failed: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}
