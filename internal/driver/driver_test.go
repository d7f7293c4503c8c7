package driver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bibfmt/internal/engine"
	"bibfmt/internal/format"
	"bibfmt/internal/version"
)

const messy = "@Article{a1,  title={T},year=2001}\n"

var tidy = engine.Config{Style: format.StyleSpec{
	Indent:            format.Indent{Spaces: 2},
	Delimiter:         format.DelimBraces,
	Case:              format.CaseLower,
	TrailingSeparator: format.TrailingRemove,
}}

const tidyOut = "@article{a1,\n  title = {T},\n  year = {2001}\n}\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) final(file string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st Status
	for _, ev := range s.events {
		if ev.File == file {
			st = ev.Status
		}
	}
	return st
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.bib"), "")
	writeFile(t, filepath.Join(dir, "sub", "a.BIB"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")
	writeFile(t, filepath.Join(dir, ".git", "x.bib"), "")
	explicit := filepath.Join(dir, "notes.txt")

	got, err := CollectFiles(context.Background(), []string{dir, explicit, filepath.Join(dir, "b.bib")})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "b.bib"),
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "sub", "a.BIB"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectFilesSymlinks(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "linked.bib"), "")
	writeFile(t, filepath.Join(outside, "nested", "deep.bib"), "")
	if err := os.Symlink(filepath.Join(outside, "linked.bib"), filepath.Join(dir, "link.bib")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "nested"), filepath.Join(dir, "nested")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := CollectFiles(context.Background(), []string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "link.bib")}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := CollectFiles(context.Background(), []string{filepath.Join(dir, "missing.bib")}); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing path error = %v, want fs.ErrNotExist", err)
	}
}

func TestFormatPathsWritesChangedFiles(t *testing.T) {
	dir := t.TempDir()
	changed := filepath.Join(dir, "messy.bib")
	same := filepath.Join(dir, "tidy.bib")
	writeFile(t, changed, messy)
	writeFile(t, same, tidyOut)

	sink := &recordingSink{}
	rep, err := FormatPaths(context.Background(), []string{dir}, Options{Op: engine.OpFormat, Config: tidy, Jobs: 2, Progress: sink})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Changed() != 1 || rep.Failed() != 0 {
		t.Fatalf("changed=%d failed=%d", rep.Changed(), rep.Failed())
	}
	if got := readFile(t, changed); got != tidyOut {
		t.Fatalf("written content = %q", got)
	}
	if sink.final(changed) != StatusDone || sink.final(same) != StatusUnchanged {
		t.Fatalf("statuses: %s / %s", sink.final(changed), sink.final(same))
	}
	if len(rep.Timings.Phases) == 0 {
		t.Fatal("expected merged timings")
	}
}

func TestCheckAndStdoutDoNotWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "messy.bib")
	writeFile(t, path, messy)

	rep, err := FormatPaths(context.Background(), []string{path}, Options{Config: tidy, Check: true})
	if err != nil {
		t.Fatal(err)
	}
	if !rep.Results[0].Changed || rep.Results[0].Formatted != nil {
		t.Fatalf("check result = %+v", rep.Results[0])
	}

	rep, err = FormatPaths(context.Background(), []string{path}, Options{Config: tidy, Stdout: true})
	if err != nil {
		t.Fatal(err)
	}
	if string(rep.Results[0].Formatted) != tidyOut {
		t.Fatalf("stdout = %q", rep.Results[0].Formatted)
	}
	if readFile(t, path) != messy {
		t.Fatal("check/stdout must not touch the file")
	}
}

func TestLineEndingsAndBOMAreRestored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.bib")
	writeFile(t, path, "\xEF\xBB\xBF@Article{a1,  title={T},year=2001}\r\n")

	if _, err := FormatPaths(context.Background(), []string{path}, Options{Config: tidy}); err != nil {
		t.Fatal(err)
	}
	want := "\xEF\xBB\xBF@article{a1,\r\n  title = {T},\r\n  year = {2001}\r\n}\r\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCacheSkipsCanonicalFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "messy.bib")
	writeFile(t, path, messy)
	cache, err := OpenCacheAt(filepath.Join(dir, ".cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Config: tidy, Cache: cache}

	first, err := FormatPaths(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Results[0].Cached || !first.Results[0].Changed {
		t.Fatalf("first run = %+v", first.Results[0])
	}
	second, err := FormatPaths(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Results[0].Cached || second.Results[0].Entries != 1 {
		t.Fatalf("second run should be a cache hit: %+v", second.Results[0])
	}

	// другая конфигурация, другой ключ
	opts.Config.Style.Case = format.CaseUpper
	third, err := FormatPaths(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Results[0].Cached {
		t.Fatal("config change must invalidate the cache")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	var payload CachePayload
	if hit, _ := cache.Get(CacheKey(engine.OpFormat, opts.Config, []byte(readFile(t, path))), &payload); hit {
		t.Fatal("DropAll must clear entries")
	}
}

func TestFilesWithDiagnosticsAreNotCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.bib")
	writeFile(t, path, "@misc{x, a = }\n")
	cache, err := OpenCacheAt(filepath.Join(dir, ".cache"))
	if err != nil {
		t.Fatal(err)
	}
	for range 2 {
		rep, err := FormatPaths(context.Background(), []string{path}, Options{Config: tidy, Cache: cache})
		if err != nil {
			t.Fatal(err)
		}
		res := rep.Results[0]
		if res.Cached || len(res.Diagnostics) != 1 {
			t.Fatalf("result = %+v", res)
		}
	}
}

func TestFormatPathsErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := FormatPaths(context.Background(), []string{dir}, Options{}); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("empty dir: %v", err)
	}
	if _, err := FormatPaths(context.Background(), []string{filepath.Join(dir, "missing.bib")}, Options{}); err == nil {
		t.Fatal("expected error for a missing path")
	}
	bad := Options{Config: engine.Config{Style: format.StyleSpec{Indent: format.Indent{Spaces: 40}}}}
	writeFile(t, filepath.Join(dir, "a.bib"), messy)
	if _, err := FormatPaths(context.Background(), []string{dir}, bad); !errors.Is(err, engine.ErrInvalidConfig) {
		t.Fatalf("invalid config: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FormatPaths(ctx, []string{dir}, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled: %v", err)
	}
}

func TestFormatBytes(t *testing.T) {
	rep, err := FormatBytes(context.Background(), "<stdin>", []byte("@Article{a1,  title={T},year=2001}\r\n"), Options{Config: tidy})
	if err != nil {
		t.Fatal(err)
	}
	want := "@article{a1,\r\n  title = {T},\r\n  year = {2001}\r\n}\r\n"
	if got := string(rep.Results[0].Formatted); got != want {
		t.Fatalf("got %q", got)
	}
}

func TestCacheKeyTracksVersion(t *testing.T) {
	content := []byte(messy)
	before := CacheKey(engine.OpFormat, tidy, content)
	if CacheKey(engine.OpSort, tidy, content) == before {
		t.Fatal("operation must be part of the key")
	}
	orig := version.Version
	version.Version = orig + "+next"
	defer func() { version.Version = orig }()
	if CacheKey(engine.OpFormat, tidy, content) == before {
		t.Fatal("a new tool version must not reuse cached verdicts")
	}
}
