package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/hyperagg/pkg/report"
)

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "measurements.txt")

	err := os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("write input: %v", err)
	}

	return path
}

func TestRun_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "basic", input: "Paris;5.5\nParis;7.5\n", want: "{Paris=5.5/6.5/7.5}\n"},
		{name: "sorted keys", input: "Tokyo;30.0\nDelhi;40.0\nTokyo;10.0\n", want: "{Delhi=40.0/40.0/40.0,Tokyo=10.0/20.0/30.0}\n"},
		{name: "empty input", input: "", want: "{}\n"},
	}

	for _, strategy := range []string{"local", "sharded"} {
		for _, tt := range tests {
			t.Run(strategy+"/"+tt.name, func(t *testing.T) {
				dir := t.TempDir()
				in := writeInput(t, dir, tt.input)
				out := filepath.Join(dir, "output.txt")

				var stderr bytes.Buffer

				code := run(context.Background(), []string{"-out", out, "-workers", "3", "-strategy", strategy, in}, &stderr)
				assert.Equal(t, 0, code)

				got, err := os.ReadFile(out)
				assert.NoError(t, err)
				assert.Equal(t, tt.want, string(got))
			})
		}
	}
}

func TestRun_MalformedRecordLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "Paris;5.5\nParis 7.5\n")
	out := filepath.Join(dir, "output.txt")

	var stderr bytes.Buffer

	code := run(context.Background(), []string{"-out", out, in}, &stderr)
	assert.Equal(t, 1, code)
	assert.True(t, strings.Contains(stderr.String(), "parse error"))

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_ArgumentErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "Paris;5.5\n")

	tests := []struct {
		name string
		args []string
	}{
		{name: "no input", args: nil},
		{name: "two inputs", args: []string{in, in}},
		{name: "unknown flag", args: []string{"-nope", in}},
		{name: "unknown format", args: []string{"-format", "xml", in}},
		{name: "unknown strategy", args: []string{"-strategy", "global", in}},
		{name: "zero workers", args: []string{"-workers", "0", in}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer

			code := run(context.Background(), tt.args, &stderr)
			assert.Equal(t, 1, code)
			assert.True(t, strings.Contains(stderr.String(), "argument error"))
		})
	}
}

func TestRun_MissingInputIsIOError(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "output.txt")

	var stderr bytes.Buffer

	code := run(context.Background(), []string{"-out", out, filepath.Join(dir, "missing.txt")}, &stderr)
	assert.Equal(t, 1, code)
	assert.True(t, strings.Contains(stderr.String(), "io error"))

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "Tokyo;30.0\nDelhi;40.0\nTokyo;10.0\n")
	out := filepath.Join(dir, "output.json")

	var stderr bytes.Buffer

	code := run(context.Background(), []string{"-out", out, "-format", "json", in}, &stderr)
	assert.Equal(t, 0, code)

	raw, err := os.ReadFile(out)
	assert.NoError(t, err)

	var summary report.Summary

	err = json.Unmarshal(raw, &summary)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), summary.Records)
	assert.Equal(t, 2, len(summary.Entries))
	assert.Equal(t, "Delhi", summary.Entries[0].Key)
	assert.Equal(t, 20.0, summary.Entries[1].Mean)
}

func TestRun_ManagementServer(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "Paris;5.5\n")
	out := filepath.Join(dir, "output.txt")

	var stderr bytes.Buffer

	code := run(context.Background(), []string{"-out", out, "-mgmt-addr", "127.0.0.1:0", in}, &stderr)
	assert.Equal(t, 0, code)
	assert.True(t, strings.Contains(stderr.String(), "management server listening"))
}
